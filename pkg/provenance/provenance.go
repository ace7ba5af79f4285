// Package provenance records which rule produced each committed curation.
package provenance

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
)

// Entry describes one committed curation.
type Entry struct {
	Sample       string    `yaml:"sample"`         // Sample accession
	Rule         string    `yaml:"rule"`           // Rule that proposed the curation
	Phase        string    `yaml:"phase"`          // Phase the rule ran in
	CurationHash string    `yaml:"curation"`       // Curation content hash
	LinkHash     string    `yaml:"link"`           // Stored link hash
	Pre          []string  `yaml:"pre,omitempty"`  // Attributes removed
	Post         []string  `yaml:"post,omitempty"` // Attributes added
	Timestamp    time.Time `yaml:"timestamp"`      // When the curation was committed
}

// Map tracks entries per sample accession.
type Map map[string][]Entry

// Tracker manages provenance during a curation run. Implementations are safe
// for concurrent use by pool workers.
type Tracker interface {
	// Track records an entry
	Track(entry Entry)

	// FindBySample retrieves entries for one sample in commit order
	FindBySample(sample string) []Entry

	// FindByRule retrieves every entry produced by a rule
	FindByRule(rule string) []Entry

	// Map returns a copy of the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	mu         sync.RWMutex
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker records nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records an entry.
func (p *tracker) Track(entry Entry) {
	if !p.enabled {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.provenance[entry.Sample] = append(p.provenance[entry.Sample], entry)
}

// FindBySample retrieves entries for one sample.
func (p *tracker) FindBySample(sample string) []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.provenance[sample])
}

// FindByRule retrieves every entry produced by a rule, ordered by sample.
func (p *tracker) FindByRule(rule string) []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Entry
	for _, sample := range slices.Sorted(maps.Keys(p.provenance)) {
		for _, e := range p.provenance[sample] {
			if e.Rule == rule {
				out = append(out, e)
			}
		}
	}
	return out
}

// Map returns a copy of the complete provenance map.
func (p *tracker) Map() Map {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = slices.Clone(v)
	}
	return result
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.provenance = make(Map)
}

// Report summarizes a provenance map.
type Report struct {
	Samples   int
	Curations int
	ByRule    map[string]int
	ByPhase   map[string]int
}

// GenerateReport creates a report from a Map.
func GenerateReport(provenance Map) *Report {
	report := &Report{
		Samples: len(provenance),
		ByRule:  make(map[string]int),
		ByPhase: make(map[string]int),
	}
	for _, entries := range provenance {
		for _, e := range entries {
			report.Curations++
			report.ByRule[e.Rule]++
			report.ByPhase[e.Phase]++
		}
	}
	return report
}

// String generates a string representation of the report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")
	fmt.Fprintf(&sb, "%d curations across %d samples\n\n", r.Curations, r.Samples)

	for _, rule := range slices.Sorted(maps.Keys(r.ByRule)) {
		fmt.Fprintf(&sb, "  %-28s %d\n", rule, r.ByRule[rule])
	}

	return sb.String()
}

// File represents a provenance file stored on disk.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Save writes a provenance map to a YAML file.
func Save(path string, provenance Map) error {
	data, err := yaml.Marshal(File{Provenance: provenance})
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return &pf, nil
}
