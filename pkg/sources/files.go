package sources

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/logging"
	"github.com/agentstation/curator/pkg/samples"
)

// Files reads one sample document per file from a directory. YAML and JSON
// documents are accepted; files are visited in name order.
type Files struct {
	dir string
}

// NewFiles creates a source over dir.
func NewFiles(dir string) (*Files, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapIO("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("samples.dir", dir, "not a directory")
	}
	return &Files{dir: dir}, nil
}

// Samples implements Source. Each file is read only when the consumer asks
// for the next sample.
func (s *Files) Samples(ctx context.Context, f Filter) iter.Seq2[samples.Sample, error] {
	return func(yield func(samples.Sample, error) bool) {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			yield(samples.Sample{}, errors.WrapIO("read", s.dir, err))
			return
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				yield(samples.Sample{}, err)
				return
			}
			if entry.IsDir() || !IsSampleFile(entry.Name()) {
				continue
			}

			path := filepath.Join(s.dir, entry.Name())
			sample, err := ReadFile(path)
			if err != nil {
				if !yield(samples.Sample{}, err) {
					return
				}
				continue
			}
			if !f.Match(sample) {
				logging.FromContext(ctx).Trace().
					Str("sample", sample.Accession).
					Msg("Sample outside date filter")
				continue
			}
			if !yield(sample, nil) {
				return
			}
		}
	}
}

// IsSampleFile reports whether name has a sample document extension.
func IsSampleFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// ReadFile decodes and validates a single sample document.
func ReadFile(path string) (samples.Sample, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return samples.Sample{}, errors.WrapIO("read", path, err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	// JSON documents are valid YAML.
	var s samples.Sample
	if err := yaml.Unmarshal(data, &s); err != nil {
		return samples.Sample{}, errors.WrapParse(format, path, err)
	}
	if err := s.Validate(); err != nil {
		return samples.Sample{}, err
	}
	return s.Normalize(), nil
}

// WriteFile encodes s as YAML at path.
func WriteFile(path string, s samples.Sample) error {
	data, err := yaml.MarshalWithOptions(s.Normalize(), yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
