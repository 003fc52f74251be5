package analytics

import (
	"sort"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
)

// LengthOfStay returns the days from admission to discharge
func LengthOfStay(r *entities.PatientRecord) (int, bool) {
	return NormalizeDuration(r.AdmissionDate.String(), r.DischargeValue().String(), r.Timestamp.String())
}

// PostOperativeDays returns the days from surgery to discharge. A discharge
// value that is a plain day count is the total stay, so the pre-operative
// interval is subtracted from it.
func PostOperativeDays(r *entities.PatientRecord) (int, bool) {
	discharge := r.DischargeValue().String()
	ts := r.Timestamp.String()

	if total, ok := DayCount(discharge); ok {
		preOp, ok := NormalizeDuration(r.AdmissionDate.String(), r.SurgeryDate.String(), ts)
		if !ok || preOp > total {
			return 0, false
		}
		return total - preOp, true
	}

	return NormalizeDuration(r.SurgeryDate.String(), discharge, ts)
}

// TimeToSurgery returns the days from injury to surgery
func TimeToSurgery(r *entities.PatientRecord) (int, bool) {
	return NormalizeDuration(r.InjuryDate.String(), r.SurgeryDate.String(), r.Timestamp.String())
}

// accumulator keeps a running sum and count of day values
type accumulator struct {
	sum   int
	count int
}

func (a *accumulator) add(days int, ok bool) {
	if !ok || days < 0 {
		return
	}
	a.sum += days
	a.count++
}

func (a accumulator) average() entities.Average {
	if a.count == 0 {
		return entities.Average{}
	}
	return entities.Average{
		Days:  roundDays(float64(a.sum) / float64(a.count)),
		Count: a.count,
	}
}

// DeriveDurations computes the duration averages for a record set. Records are
// split into surgical and non-surgical by outcome; post-operative and
// time-to-surgery metrics are taken over the surgical side only.
func (k Keywords) DeriveDurations(records []entities.PatientRecord) entities.DurationMetrics {
	var surgicalStay, otherStay, postOp, toSurgery accumulator

	byProcedure := make(map[string]*accumulator)
	var procedureOrder []string

	for i := range records {
		r := &records[i]

		if !k.IsSurgicalOutcome(r) {
			otherStay.add(LengthOfStay(r))
			continue
		}

		surgicalStay.add(LengthOfStay(r))
		toSurgery.add(TimeToSurgery(r))

		days, ok := PostOperativeDays(r)
		if !ok {
			continue
		}
		postOp.add(days, true)

		label := r.Procedure.Trimmed()
		if label == "" {
			label = entities.UnknownLabel
		}
		acc, seen := byProcedure[label]
		if !seen {
			acc = &accumulator{}
			byProcedure[label] = acc
			procedureOrder = append(procedureOrder, label)
		}
		acc.add(days, true)
	}

	perProcedure := make([]entities.ProcedureAverage, 0, len(procedureOrder))
	for _, label := range procedureOrder {
		perProcedure = append(perProcedure, entities.ProcedureAverage{
			Procedure: label,
			Average:   byProcedure[label].average(),
		})
	}
	sort.SliceStable(perProcedure, func(i, j int) bool {
		return perProcedure[i].Days > perProcedure[j].Days
	})

	return entities.DurationMetrics{
		StayByPath: []entities.PathStay{
			{Path: entities.PathSurgical, Average: surgicalStay.average()},
			{Path: entities.PathNonSurgical, Average: otherStay.average()},
		},
		PostOperative:     postOp.average(),
		TimeToSurgery:     toSurgery.average(),
		PostOpByProcedure: perProcedure,
	}
}
