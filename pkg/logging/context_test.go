package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agentstation/curator/pkg/logging"
	"github.com/stretchr/testify/assert"
)

func TestFromContextDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
}

func TestRunID(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	assert.Empty(t, logging.RunID(ctx))

	ctx = logging.WithRunID(ctx, "run-7")
	assert.Equal(t, "run-7", logging.RunID(ctx))

	logging.Ctx(ctx).Info().Msg("started")
	tl.AssertContains(t, `"run_id":"run-7"`)
}

func TestWithFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"workers": 4,
		"dry_run": true,
	})
	ctx = logging.WithError(ctx, errors.New("boom"))
	ctx = logging.WithError(ctx, nil)

	logging.Ctx(ctx).Info().Msg("configured")

	assert.True(t, tl.Contains(`"workers":4`))
	assert.True(t, tl.Contains(`"dry_run":true`))
	assert.True(t, tl.Contains(`"error":"boom"`))
	assert.Equal(t, 1, tl.Count())
}
