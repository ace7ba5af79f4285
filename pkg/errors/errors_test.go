package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/curator/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "sample",
			ID:       "SAMEA123",
		}
		assert.Equal(t, "sample with ID SAMEA123 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("term", "UBERON:0000178")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("attributesPost", nil, "curation must not be a no-op")
	assert.Contains(t, err.Error(), "attributesPost")
	assert.True(t, pkgerrors.IsValidationError(err))

	noField := &pkgerrors.ValidationError{Message: "empty"}
	assert.Equal(t, "validation failed: empty", noField.Error())
}

func TestConflictError(t *testing.T) {
	err := &pkgerrors.ConflictError{
		Sample:      "SAMEA1",
		Curation:    "abc",
		MissingPre:  []string{"organism=human"},
		PresentPost: []string{"organism=Homo sapiens"},
	}
	assert.Contains(t, err.Error(), "SAMEA1")
	assert.Contains(t, err.Error(), "missing pre")
	assert.Contains(t, err.Error(), "post already present")
	assert.True(t, pkgerrors.IsConflict(err))
	assert.True(t, pkgerrors.IsConflict(fmt.Errorf("apply: %w", err)))
	assert.False(t, pkgerrors.IsTaskError(err))
}

func TestLookupError(t *testing.T) {
	base := errors.New("connection refused")
	err := pkgerrors.NewLookupError("resolve", "EFO_0000001", base)
	assert.Contains(t, err.Error(), "resolve")
	assert.Contains(t, err.Error(), "EFO_0000001")
	assert.Equal(t, base, err.Unwrap())
	assert.True(t, pkgerrors.IsLookupError(err))
	assert.True(t, errors.Is(err, base))
}

func TestTaskError(t *testing.T) {
	t.Run("with phase", func(t *testing.T) {
		cause := pkgerrors.NewStoreError("persist", "SAMEA9", errors.New("disk full"))
		err := &pkgerrors.TaskError{Sample: "SAMEA9", Phase: "ontology", Committed: 2, Err: cause}
		assert.Contains(t, err.Error(), "ontology")
		assert.Contains(t, err.Error(), "2 curations")
		assert.True(t, pkgerrors.IsTaskError(err))
		assert.True(t, pkgerrors.IsStoreError(err))

		var storeErr *pkgerrors.StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, "persist", storeErr.Operation)
	})

	t.Run("without phase", func(t *testing.T) {
		err := &pkgerrors.TaskError{Sample: "SAMEA9", Err: errors.New("boom")}
		assert.Equal(t, "sample SAMEA9 failed after 0 curations: boom", err.Error())
	})
}

func TestConvergenceError(t *testing.T) {
	err := &pkgerrors.ConvergenceError{Sample: "S1", Phase: "normalization", Iterations: 1000}
	assert.Contains(t, err.Error(), "1000")
	assert.True(t, errors.Is(err, pkgerrors.ErrNoConvergence))
}

func TestAPIError(t *testing.T) {
	t.Run("server error is unavailable", func(t *testing.T) {
		err := pkgerrors.NewAPIError("ols", 503, "maintenance")
		assert.Contains(t, err.Error(), "503")
		assert.True(t, errors.Is(err, pkgerrors.ErrProviderUnavailable))
	})

	t.Run("404 is not found", func(t *testing.T) {
		err := pkgerrors.NewAPIError("ols", 404, "no such term")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("no status", func(t *testing.T) {
		err := &pkgerrors.APIError{Provider: "ols", Message: "reset"}
		assert.Equal(t, "API error from ols: reset", err.Error())
		assert.False(t, errors.Is(err, pkgerrors.ErrNotFound))
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("must be positive")
	err := pkgerrors.NewConfigError("workers", "invalid core size", base)
	assert.Contains(t, err.Error(), "workers")
	assert.Equal(t, base, err.Unwrap())

	bare := &pkgerrors.ConfigError{Message: "missing"}
	assert.Equal(t, "configuration error: missing", bare.Error())
}

func TestParseError(t *testing.T) {
	t.Run("with file", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "yaml", File: "s.yaml", Message: "bad indent"}
		assert.Equal(t, "parse error in yaml file s.yaml: bad indent", err.Error())
	})

	t.Run("format only", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "json", Message: "syntax error"}
		assert.Contains(t, err.Error(), "json parse error")
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("type", errors.New("empty"))
		assert.Contains(t, err.Error(), "type")
		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("write", "/tmp/file", errors.New("disk full"))
		var ioErr *pkgerrors.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "write", ioErr.Operation)
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})

	t.Run("WrapParse", func(t *testing.T) {
		err := pkgerrors.WrapParse("yaml", "links.yaml", errors.New("invalid syntax"))
		parseErr, ok := err.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "links.yaml", parseErr.File)
		assert.Nil(t, pkgerrors.WrapParse("yaml", "file.yaml", nil))
	})

	t.Run("WrapStore", func(t *testing.T) {
		err := pkgerrors.WrapStore("persist", "S1", errors.New("locked"))
		assert.True(t, pkgerrors.IsStoreError(err))
		assert.Nil(t, pkgerrors.WrapStore("persist", "S1", nil))
	})
}
