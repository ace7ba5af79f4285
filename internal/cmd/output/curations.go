package output

import (
	"io"

	"github.com/agentstation/curator/internal/cmd/table"
	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/differ"
	"github.com/agentstation/curator/pkg/provenance"
	"github.com/agentstation/curator/pkg/report"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/samples"
)

// Printer writes command results in one format. Tabular formats get the
// table conversions; JSON and YAML get the values themselves.
type Printer struct {
	format Format
	w      io.Writer
}

// NewPrinter validates format and returns a printer writing to w. An empty
// format is detected from the terminal.
func NewPrinter(format string, w io.Writer) (*Printer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == "" {
		f = DetectFormat("")
	}
	return &Printer{format: f, w: w}, nil
}

// Format returns the selected format.
func (p *Printer) Format() Format { return p.format }

// Report prints a run report. Markdown is only supported here.
func (p *Printer) Report(r *report.Report) error {
	if p.format == FormatMarkdown {
		return report.WriteMarkdown(p.w, r)
	}
	return p.print(r, func() Data { return table.ReportToTableData(r) })
}

// Attributes prints a sample's attributes.
func (p *Printer) Attributes(attrs []samples.Attribute) error {
	return p.print(attrs, func() Data { return table.AttributesToTableData(attrs) })
}

// Links prints curation links.
func (p *Printer) Links(links []curations.Link) error {
	return p.print(links, func() Data { return table.LinksToTableData(links, p.format == FormatWide) })
}

// Changeset prints the changes between two states of a sample.
func (p *Printer) Changeset(cs *differ.Changeset) error {
	return p.print(cs, func() Data { return table.ChangesetToTableData(cs) })
}

// Rules prints the engine's rule chains.
func (p *Printer) Rules(normalization, ontology []rules.Rule) error {
	type ruleInfo struct {
		Phase       rules.Phase `json:"phase" yaml:"phase"`
		Name        string      `json:"name" yaml:"name"`
		Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	}
	var infos []ruleInfo
	for _, r := range normalization {
		infos = append(infos, ruleInfo{rules.PhaseRules, r.Name(), rules.Describe(r)})
	}
	for _, r := range ontology {
		infos = append(infos, ruleInfo{rules.PhaseOntology, r.Name(), rules.Describe(r)})
	}
	return p.print(infos, func() Data { return table.RulesToTableData(normalization, ontology) })
}

// Provenance prints provenance history, optionally restricted to rules
// matching patterns.
func (p *Printer) Provenance(history provenance.Map, patterns []string) error {
	return p.print(history, func() Data { return table.ProvenanceToTableData(history, patterns) })
}

func (p *Printer) print(value any, rows func() Data) error {
	if p.format.IsTabular() || p.format == FormatMarkdown {
		return NewFormatter(p.format).Format(p.w, rows())
	}
	return NewFormatter(p.format).Format(p.w, value)
}
