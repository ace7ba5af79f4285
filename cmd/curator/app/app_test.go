package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/curator/internal/config"
	"github.com/agentstation/curator/pkg/provenance"
	"github.com/agentstation/curator/pkg/report"
	"github.com/agentstation/curator/pkg/rules"
	"github.com/agentstation/curator/pkg/samples"
	"github.com/agentstation/curator/pkg/sources"
)

type fixture struct {
	dir    string
	cfg    *config.Config
	sample string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Domain: "test.Curation",
		Workers: config.WorkersConfig{
			Core:          1,
			Max:           2,
			Queue:         10,
			ScaleInterval: 50 * time.Millisecond,
		},
		Ontology: config.OntologyConfig{Offline: true},
		Store:    config.StoreConfig{Dir: filepath.Join(dir, "links")},
		Samples:  config.SamplesConfig{Dir: filepath.Join(dir, "samples")},
		Engine:   config.EngineConfig{MaxIterations: 100},
		Log:      config.LogConfig{Level: "error", Format: "json", Output: "discard"},
	}
	require.NoError(t, os.MkdirAll(cfg.Samples.Dir, 0o755))

	s, err := samples.New("SAMEA1", "dirty", []samples.Attribute{
		samples.MustAttribute("organism", "Homo  sapiens", samples.WithIRIs("9606")),
		samples.MustAttribute("description", "N/A"),
		samples.MustAttribute("sex", "female"),
	}, nil)
	require.NoError(t, err)

	path := filepath.Join(cfg.Samples.Dir, "SAMEA1.yaml")
	require.NoError(t, sources.WriteFile(path, s))

	return &fixture{dir: dir, cfg: cfg, sample: path}
}

// execute runs the CLI against the fixture and returns stdout and stderr.
func (f *fixture) execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a, err := New("1.2.3", "abc", "today", "test", WithConfig(f.cfg), WithOutput(&stdout, &stderr))
	require.NoError(t, err)
	err = a.Execute(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	f := newFixture(t)
	prov := filepath.Join(f.dir, "provenance.yaml")

	stdout, stderr, err := f.execute(t, "run", "-o", "json", "--provenance", prov)
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &r))
	assert.Equal(t, "test.Curation", r.Domain)
	assert.Equal(t, 1, r.SamplesProcessed)
	assert.Equal(t, 3, r.CurationsCommitted)
	assert.Zero(t, r.Failures)
	assert.Contains(t, stderr, "Processed 1 samples")

	file, err := provenance.Load(prov)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Len(t, file.Provenance["SAMEA1"], 3)
}

func TestRunCommandWindow(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := f.execute(t, "run", "-o", "json", "--from", "2000-01-01")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &r))
	assert.Zero(t, r.SamplesProcessed, "samples without an update time fall outside a window")

	_, _, err = f.execute(t, "run", "--until", "not-a-date")
	assert.Error(t, err)
}

func TestApplyCommand(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.execute(t, "run", "-o", "json")
	require.NoError(t, err)

	out := filepath.Join(f.dir, "curated.yaml")
	stdout, stderr, err := f.execute(t, "apply", f.sample, "-o", "json", "--write", out, "--strict")
	require.NoError(t, err)

	var res struct {
		Sample     samples.Sample `json:"sample"`
		Applied    []any          `json:"applied"`
		Unresolved []any          `json:"unresolved"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Len(t, res.Applied, 3)
	assert.Empty(t, res.Unresolved)
	assert.Contains(t, stderr, "Applied 3 curations")

	curated, err := sources.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, res.Sample.Attributes, 2)
	assert.True(t, curated.HasAttribute(samples.MustAttribute("organism", "Homo sapiens",
		samples.WithIRIs(rules.TaxonIRI(9606)))))
	assert.Len(t, curated.Attributes, 2)
}

func TestCurateCommand(t *testing.T) {
	f := newFixture(t)

	stdout, stderr, err := f.execute(t, "curate", f.sample, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "committed: 3")
	assert.Contains(t, stdout, "Homo sapiens")
	assert.Empty(t, stderr)

	_, _, err = f.execute(t, "curate", filepath.Join(f.dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRulesCommand(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := f.execute(t, "rules", "-o", "json")
	require.NoError(t, err)

	var infos []struct {
		Phase string `json:"phase"`
		Name  string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, len(rules.DefaultNormalization()))
	assert.Equal(t, rules.CharacterCleanup, infos[0].Name)
	assert.Equal(t, "rules", infos[0].Phase)
}

func TestRulesCommandWithSynonyms(t *testing.T) {
	f := newFixture(t)
	f.cfg.Rules.SynonymsFile = filepath.Join(f.dir, "synonyms.yaml")
	require.NoError(t, os.WriteFile(f.cfg.Rules.SynonymsFile,
		[]byte("synonyms:\n  - pre: gender\n    post: sex\n"), 0o644))

	stdout, _, err := f.execute(t, "rules", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, rules.TypeSynonym)
}

func TestCleanCommand(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := f.execute(t, "clean", "-o", "table", "A  B\t\n\"C\"", "<b>bold</b>")
	require.NoError(t, err)
	assert.Equal(t, []string{"A B C", "bold"}, strings.Split(strings.TrimSpace(stdout), "\n"))
}

func TestProvenanceCommand(t *testing.T) {
	f := newFixture(t)
	prov := filepath.Join(f.dir, "provenance.yaml")
	_, _, err := f.execute(t, "run", "-o", "json", "--provenance", prov)
	require.NoError(t, err)

	stdout, _, err := f.execute(t, "provenance", prov, "--summary")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 curations across 1 samples")

	stdout, _, err = f.execute(t, "provenance", prov, "-o", "table", "--rule", rules.OrganismTaxon)
	require.NoError(t, err)
	assert.Contains(t, stdout, rules.OrganismTaxon)
	assert.NotContains(t, stdout, rules.NotApplicableRemoval)

	_, _, err = f.execute(t, "provenance", filepath.Join(f.dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	f := newFixture(t)
	stdout, _, err := f.execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "curator version 1.2.3")
	assert.Contains(t, stdout, "commit: abc")
}

func TestInvalidFormat(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.execute(t, "rules", "-o", "xml")
	assert.Error(t, err)
}

func TestWithConfigValidates(t *testing.T) {
	_, err := New("dev", "", "", "", WithConfig(&config.Config{}))
	assert.Error(t, err)

	_, err = New("dev", "", "", "", WithConfig(nil))
	assert.Error(t, err)
}

func TestCuratorIsCached(t *testing.T) {
	f := newFixture(t)
	a, err := New("dev", "", "", "", WithConfig(f.cfg))
	require.NoError(t, err)

	first, err := a.Curator()
	require.NoError(t, err)
	second, err := a.Curator()
	require.NoError(t, err)
	assert.Same(t, first, second)

	src, err := a.Source()
	require.NoError(t, err)
	assert.NotNil(t, src)

	filter, err := a.Filter()
	require.NoError(t, err)
	assert.True(t, filter.IsZero())
}
