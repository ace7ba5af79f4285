package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
)

// FileNotifier saves the report to a file. The extension picks the
// encoding: .md is markdown, .yaml and .yml are YAML, anything else JSON.
type FileNotifier struct {
	path string
}

// NewFileNotifier creates a notifier writing to path.
func NewFileNotifier(path string) *FileNotifier {
	return &FileNotifier{path: path}
}

// Notify implements Notifier.
func (n *FileNotifier) Notify(_ context.Context, r *Report) error {
	return Save(n.path, r)
}

// Save writes r to path, creating parent directories as needed.
func Save(path string, r *Report) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		var s string
		s, err = Markdown(r)
		data = []byte(s)
	case ".yaml", ".yml":
		data, err = yaml.MarshalWithOptions(r, yaml.Indent(2), yaml.IndentSequence(true))
	default:
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return errors.WrapParse(filepath.Ext(path), path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
