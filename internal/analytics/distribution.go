package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
)

// SplitMultiValue splits a multi-value cell on commas, Japanese commas and
// whitespace, dropping empty segments
func SplitMultiValue(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '、' || unicode.IsSpace(r)
	})
}

// tally counts labels while remembering first-occurrence order
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(label string) {
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

func (t *tally) buckets() []entities.Bucket {
	out := make([]entities.Bucket, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, entities.Bucket{Label: label, Count: t.counts[label]})
	}
	return out
}

// OutcomeDistribution counts records per verbatim outcome, in order of first occurrence
func OutcomeDistribution(records []entities.PatientRecord) []entities.Bucket {
	t := newTally()
	for i := range records {
		label := records[i].Outcome.String()
		if records[i].Outcome.IsEmpty() {
			label = entities.UnknownLabel
		}
		t.add(label)
	}
	return t.buckets()
}

// FractureLevelDistribution counts each fracture level separately, so a record
// listing two levels contributes to two buckets
func FractureLevelDistribution(records []entities.PatientRecord) []entities.Bucket {
	t := newTally()
	for i := range records {
		levels := SplitMultiValue(records[i].NewFractures.String())
		if len(levels) == 0 {
			t.add(entities.UnknownLabel)
			continue
		}
		for _, level := range levels {
			t.add(level)
		}
	}

	buckets := t.buckets()
	sort.SliceStable(buckets, func(i, j int) bool {
		return fractureLevelLess(buckets[i].Label, buckets[j].Label)
	})
	return buckets
}

// SortFractureLevels orders level codes thoracic first, then lumbar, then
// Unknown, then anything else; each group by numeric suffix
func SortFractureLevels(levels []string) {
	sort.SliceStable(levels, func(i, j int) bool {
		return fractureLevelLess(levels[i], levels[j])
	})
}

func fractureLevelLess(a, b string) bool {
	ga, gb := fractureGroup(a), fractureGroup(b)
	if ga != gb {
		return ga < gb
	}
	na, nb := numericSuffix(a), numericSuffix(b)
	if na != nb {
		return na < nb
	}
	return a < b
}

func fractureGroup(label string) int {
	switch {
	case strings.HasPrefix(label, "T"):
		return 0
	case strings.HasPrefix(label, "L"):
		return 1
	case label == entities.UnknownLabel:
		return 2
	default:
		return 3
	}
}

// numericSuffix returns the first run of digits in a level code. Codes
// without digits sort after numbered ones.
func numericSuffix(label string) int {
	start := strings.IndexFunc(label, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return math.MaxInt
	}
	end := start
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(label[start:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}
