package analytics

import (
	"fmt"
	"os"
	"strings"

	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// KeywordSet is a list of markers searched for as substrings
type KeywordSet struct {
	Terms      []string `yaml:"terms"`
	IgnoreCase bool     `yaml:"ignore_case"`
}

// Match reports whether text contains any of the terms
func (k KeywordSet) Match(text string) bool {
	if text == "" {
		return false
	}
	if k.IgnoreCase {
		text = strings.ToLower(text)
	}
	for _, term := range k.Terms {
		if term == "" {
			continue
		}
		if k.IgnoreCase {
			term = strings.ToLower(term)
		}
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Keywords holds the classification markers per category. Outcome text is
// entered in English or Japanese, so every set lists both.
type Keywords struct {
	SurgicalOutcome     KeywordSet `yaml:"surgical_outcome"`
	SurgicalRemarks     KeywordSet `yaml:"surgical_remarks"`
	ConservativeOutcome KeywordSet `yaml:"conservative_outcome"`
}

// DefaultKeywords returns the markers used when no keyword file is configured
func DefaultKeywords() Keywords {
	return Keywords{
		SurgicalOutcome: KeywordSet{
			Terms: []string{"Surgery", "手術"},
		},
		SurgicalRemarks: KeywordSet{
			Terms:      []string{"surgery"},
			IgnoreCase: true,
		},
		ConservativeOutcome: KeywordSet{
			Terms: []string{"Conservative", "Observation", "保存", "経過観察"},
		},
	}
}

// LoadKeywords reads keyword sets from a YAML file. Categories the file
// leaves out keep their defaults.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var file Keywords
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Keywords{}, fmt.Errorf("failed to parse keywords file: %w", err)
	}

	kw := DefaultKeywords()
	if len(file.SurgicalOutcome.Terms) > 0 {
		kw.SurgicalOutcome = file.SurgicalOutcome
	}
	if len(file.SurgicalRemarks.Terms) > 0 {
		kw.SurgicalRemarks = file.SurgicalRemarks
	}
	if len(file.ConservativeOutcome.Terms) > 0 {
		kw.ConservativeOutcome = file.ConservativeOutcome
	}
	return kw, nil
}

// IsSurgical is the headline predicate: the outcome names surgery or the
// remarks mention it.
func (k Keywords) IsSurgical(r *entities.PatientRecord) bool {
	return k.IsSurgicalOutcome(r) || k.SurgicalRemarks.Match(r.Remarks.String())
}

// IsSurgicalOutcome looks at the outcome only. Duration bucketing partitions
// records with this predicate, so a remarks-only mention lands on the
// non-surgical side there while still counting as surgical in the headline.
func (k Keywords) IsSurgicalOutcome(r *entities.PatientRecord) bool {
	return k.SurgicalOutcome.Match(r.Outcome.String())
}

// IsConservative reports a conservative or observational outcome
func (k Keywords) IsConservative(r *entities.PatientRecord) bool {
	return k.ConservativeOutcome.Match(r.Outcome.String())
}

// Summarize computes the headline counts
func (k Keywords) Summarize(records []entities.PatientRecord) entities.Summary {
	summary := entities.Summary{Total: len(records)}
	for i := range records {
		if k.IsSurgical(&records[i]) {
			summary.Surgical++
		}
		if k.IsConservative(&records[i]) {
			summary.Conservative++
		}
	}
	return summary
}
