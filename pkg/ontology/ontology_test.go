package ontology_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/ontology"
)

func TestIsShortcode(t *testing.T) {
	for _, s := range []string{"UBERON:0002107", "NCBITaxon_9606", "EFO-0000001", "a:1"} {
		assert.True(t, ontology.IsShortcode(s), s)
	}
	for _, s := range []string{"9606", "http://purl.obolibrary.org/obo/UBERON_0002107", "UBERON:", "UBERON 1", "EFO_00a1", "_1"} {
		assert.False(t, ontology.IsShortcode(s), s)
	}
}

func TestValidator(t *testing.T) {
	v, err := ontology.NewValidator(nil, nil)
	require.NoError(t, err)

	assert.True(t, v.NeedsValidation("http://example.org/term/1"))
	assert.True(t, v.NeedsValidation("https://www.ontobee.org/x"))
	assert.False(t, v.NeedsValidation("http://purl.obolibrary.org/obo/UBERON_0002107"))
	assert.False(t, v.NeedsValidation("https://WWW.EBI.AC.UK/efo/EFO_0000001"))
	assert.False(t, v.NeedsValidation("ftp://example.org/x"))
	assert.False(t, v.NeedsValidation("9606"))

	custom, err := ontology.NewValidator([]string{`^https?://www\.ontobee\.org/`}, []string{})
	require.NoError(t, err)
	assert.True(t, custom.NeedsValidation("https://www.ontobee.org/x"))
	assert.False(t, custom.NeedsValidation("http://example.org/term/1"))

	_, err = ontology.NewValidator([]string{"("}, nil)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	var nilValidator *ontology.Validator
	assert.False(t, nilValidator.NeedsValidation("http://example.org"))
}

func TestLookupFunc(t *testing.T) {
	var lf ontology.LookupFunc
	_, found, err := lf.ResolveShortcode(context.Background(), "A_1")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := lf.ValidateReachable(context.Background(), "http://x")
	require.NoError(t, err)
	assert.True(t, ok)
}
