// Package application provides the application interface for curator commands.
//
// Commands accept an Application rather than the concrete app type, so they
// can be tested with a Mock:
//
//	mock := &application.Mock{
//	    CuratorFunc: func(opts ...curator.Option) (curator.Curator, error) {
//	        return curator.New(opts...)
//	    },
//	}
//	cmd := run.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/curator"
	"github.com/agentstation/curator/internal/cmd/output"
	"github.com/agentstation/curator/internal/config"
	"github.com/agentstation/curator/pkg/sources"
)

// Application provides what commands need from the app.
// All methods must be safe for concurrent access.
type Application interface {
	// Curator returns a curator built from the configuration. Without
	// options the instance is cached; with options a new one is built.
	Curator(opts ...curator.Option) (curator.Curator, error)

	// Source returns the sample feed named by the configuration.
	Source() (sources.Source, error)

	// Filter returns the sample update window from the configuration.
	Filter() (sources.Filter, error)

	// Config returns the resolved configuration.
	Config() *config.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the requested output format, possibly empty.
	OutputFormat() output.Format

	// Version returns the build version.
	Version() string
}
