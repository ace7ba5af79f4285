package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/curator"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/internal/config"
	"github.com/agentstation/curator/pkg/sources"
)

// Mock is an Application for command tests. Unset funcs fall back to
// in-memory defaults.
type Mock struct {
	CuratorFunc func(opts ...curator.Option) (curator.Curator, error)
	SourceFunc  func() (sources.Source, error)
	FilterFunc  func() (sources.Filter, error)
	ConfigValue *config.Config
	LoggerValue *zerolog.Logger
	Format      output.Format
	VersionText string
}

var _ Application = (*Mock)(nil)

// Curator implements Application.
func (m *Mock) Curator(opts ...curator.Option) (curator.Curator, error) {
	if m.CuratorFunc != nil {
		return m.CuratorFunc(opts...)
	}
	return curator.New(opts...)
}

// Source implements Application.
func (m *Mock) Source() (sources.Source, error) {
	if m.SourceFunc != nil {
		return m.SourceFunc()
	}
	return sources.NewMemory(), nil
}

// Filter implements Application.
func (m *Mock) Filter() (sources.Filter, error) {
	if m.FilterFunc != nil {
		return m.FilterFunc()
	}
	return sources.Filter{}, nil
}

// Config implements Application.
func (m *Mock) Config() *config.Config {
	if m.ConfigValue != nil {
		return m.ConfigValue
	}
	return &config.Config{}
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerValue != nil {
		return m.LoggerValue
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() output.Format {
	if m.Format == "" {
		return output.FormatJSON
	}
	return m.Format
}

// Version implements Application.
func (m *Mock) Version() string {
	if m.VersionText == "" {
		return "dev"
	}
	return m.VersionText
}
