package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/differ"
	"github.com/agentstation/curator/pkg/report"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/samples"
)

// AttributesToTableData converts sample attributes to table format.
func AttributesToTableData(attrs []samples.Attribute) Data {
	rows := make([][]string, 0, len(attrs))
	for _, a := range attrs {
		rows = append(rows, []string{
			a.Type,
			orDash(a.Value),
			orDash(a.Unit),
			orDash(a.Tag),
			joinOrDash(a.IRIs),
		})
	}
	return Data{
		Headers: []string{"Type", "Value", "Unit", "Tag", "IRI"},
		Rows:    rows,
	}
}

// LinksToTableData converts curation links to table format. Wide output adds
// the link hash and creation time.
func LinksToTableData(links []curations.Link, wide bool) Data {
	headers := []string{"Sample", "Pre", "Post"}
	if wide {
		headers = append(headers, "Hash", "Domain", "Created")
	}

	rows := make([][]string, 0, len(links))
	for _, l := range links {
		row := []string{
			l.Sample,
			attributeList(l.Curation.AttributesPre),
			attributeList(l.Curation.AttributesPost),
		}
		if wide {
			row = append(row, shortHash(l.Hash), l.Domain, formatTimestamp(l.Created.Time))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// ChangesetToTableData flattens a sample changeset into one row per change.
func ChangesetToTableData(cs *differ.Changeset) Data {
	var rows [][]string
	if cs != nil && cs.Attributes != nil {
		for _, a := range cs.Attributes.Added {
			rows = append(rows, []string{string(differ.ChangeTypeAdd), a.Type, "-", a.String()})
		}
		for _, u := range cs.Attributes.Updated {
			rows = append(rows, []string{string(differ.ChangeTypeUpdate), u.Type, u.Existing.String(), u.New.String()})
		}
		for _, a := range cs.Attributes.Removed {
			rows = append(rows, []string{string(differ.ChangeTypeRemove), a.Type, a.String(), "-"})
		}
	}
	if cs != nil && cs.References != nil {
		for _, r := range cs.References.Added {
			rows = append(rows, []string{string(differ.ChangeTypeAdd), "externalReference", "-", r.String()})
		}
		for _, r := range cs.References.Removed {
			rows = append(rows, []string{string(differ.ChangeTypeRemove), "externalReference", r.String(), "-"})
		}
	}
	return Data{
		Headers:         []string{"Change", "Type", "Before", "After"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft},
	}
}

// RulesToTableData lists the rules of both engine phases in execution order.
func RulesToTableData(normalization, ontology []rules.Rule) Data {
	var rows [][]string
	add := func(phase rules.Phase, rs []rules.Rule) {
		for i, r := range rs {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), string(phase), r.Name(), orDash(rules.Describe(r))})
		}
	}
	add(rules.PhaseRules, normalization)
	add(rules.PhaseOntology, ontology)

	return Data{
		Headers:         []string{"#", "Phase", "Rule", "Description"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
}

// ReportToTableData renders a run report as a key-value table.
func ReportToTableData(r *report.Report) Data {
	failed := "-"
	if len(r.FailedIDs) > 0 {
		failed = strings.Join(r.FailedIDs, ", ")
	}
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", r.RunID},
			{"Domain", r.Domain},
			{"Samples Processed", fmt.Sprintf("%d", r.SamplesProcessed)},
			{"Curations Committed", fmt.Sprintf("%d", r.CurationsCommitted)},
			{"Failures", fmt.Sprintf("%d", r.Failures)},
			{"Failed Samples", failed},
			{"Duration", r.Duration.String()},
		},
	}
}

// attributeList renders attributes one per line.
func attributeList(attrs []samples.Attribute) string {
	lines := make([]string, 0, len(attrs))
	for _, a := range attrs {
		lines = append(lines, a.String())
	}
	return joinOrDash(lines)
}

// shortHash truncates a hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// sortedKeys returns the keys of m in order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
