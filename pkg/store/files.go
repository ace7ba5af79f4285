package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/curations"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/logging"
)

// Files stores links as one YAML document per sample under a directory.
type Files struct {
	dir  string
	opts *options

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// linkFile is the on-disk layout of a sample's links.
type linkFile struct {
	Sample string           `yaml:"sample"`
	Links  []curations.Link `yaml:"links"`
}

// NewFiles creates a file store rooted at dir, creating it if needed.
func NewFiles(dir string, opts ...Option) (*Files, error) {
	if dir == "" {
		return nil, errors.NewConfigError("store", "directory must not be empty", nil)
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	return &Files{
		dir:   dir,
		opts:  defaultOptions().apply(opts...),
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Persist implements Persister.
func (f *Files) Persist(ctx context.Context, sample string, c curations.Curation, domain string) (curations.Link, error) {
	if err := ctx.Err(); err != nil {
		return curations.Link{}, errors.WrapStore("persist", sample, err)
	}
	path, err := f.path(sample)
	if err != nil {
		return curations.Link{}, errors.WrapStore("persist", sample, err)
	}

	link, err := curations.NewLink(sample, c, domain, f.opts.now())
	if err != nil {
		return curations.Link{}, errors.WrapStore("persist", sample, err)
	}

	lock := f.lock(sample)
	lock.Lock()
	defer lock.Unlock()

	doc, err := f.read(path)
	if err != nil {
		return curations.Link{}, errors.WrapStore("persist", sample, err)
	}
	if i := slices.IndexFunc(doc.Links, func(l curations.Link) bool { return l.Hash == link.Hash }); i >= 0 {
		return doc.Links[i], nil
	}

	doc.Sample = sample
	doc.Links = append(doc.Links, link)
	if err := f.write(path, doc); err != nil {
		return curations.Link{}, errors.WrapStore("persist", sample, err)
	}

	logging.FromContext(ctx).Trace().
		Str("sample", sample).
		Str("link", link.Hash).
		Str("path", path).
		Msg("Persisted curation link")
	return link, nil
}

// Links implements Reader.
func (f *Files) Links(_ context.Context, sample string) ([]curations.Link, error) {
	path, err := f.path(sample)
	if err != nil {
		return nil, errors.WrapStore("read", sample, err)
	}

	lock := f.lock(sample)
	lock.Lock()
	defer lock.Unlock()

	doc, err := f.read(path)
	if err != nil {
		return nil, errors.WrapStore("read", sample, err)
	}
	return doc.Links, nil
}

func (f *Files) path(sample string) (string, error) {
	if sample == "" || strings.ContainsAny(sample, `/\`) || sample == "." || sample == ".." {
		return "", errors.NewValidationError("sample", sample, "not usable as a file name")
	}
	return filepath.Join(f.dir, sample+".yaml"), nil
}

func (f *Files) lock(sample string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[sample]
	if !ok {
		l = &sync.Mutex{}
		f.locks[sample] = l
	}
	return l
}

func (f *Files) read(path string) (linkFile, error) {
	var doc linkFile
	data, err := os.ReadFile(path) //nolint:gosec
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, errors.WrapIO("read", path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, errors.WrapParse("yaml", path, err)
	}
	return doc, nil
}

// write replaces the file atomically via a temp file and rename.
func (f *Files) write(path string, doc linkFile) error {
	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
