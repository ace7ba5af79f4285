package table

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/curator/pkg/provenance"
)

// ProvenanceToTableData converts provenance history to table format.
// Samples are sorted; each sample's entries keep commit order and the
// accession is shown on its first row only.
func ProvenanceToTableData(history provenance.Map, rulePatterns []string) Data {
	var rows [][]string

	for _, sample := range sortedKeys(history) {
		first := true
		for _, entry := range history[sample] {
			if !MatchRule(entry.Rule, rulePatterns) {
				continue
			}
			name := ""
			if first {
				name = sample
				first = false
			}
			rows = append(rows, []string{
				name,
				entry.Phase,
				entry.Rule,
				joinOrDash(entry.Pre),
				joinOrDash(entry.Post),
				formatTimestamp(entry.Timestamp),
			})
		}
	}

	return Data{
		Headers: []string{"Sample", "Phase", "Rule", "Removed", "Added", "When"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft, // Sample
			AlignLeft, // Phase
			AlignLeft, // Rule
			AlignLeft, // Removed
			AlignLeft, // Added
			AlignLeft, // When
		},
	}
}

// MatchRule checks if a rule name matches any of the provided glob patterns.
// Matching is case-insensitive. No patterns means match all.
func MatchRule(rule string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	ruleLower := strings.ToLower(rule)
	for _, pattern := range patterns {
		matched, err := filepath.Match(strings.ToLower(pattern), ruleLower)
		if err == nil && matched {
			return true
		}
	}
	return false
}
