package ontology

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/curator/internal/transport"
	"github.com/agentstation/curator/pkg/constants"
	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/logging"
)

const olsService = "ols"

// OLS is a Lookup backed by the EBI Ontology Lookup Service REST API.
type OLS struct {
	baseURL string
	client  *transport.Client
}

// termsResponse is the subset of /api/terms used here.
type termsResponse struct {
	Embedded struct {
		Terms []struct {
			IRI   string `json:"iri"`
			OboID string `json:"obo_id"`
		} `json:"terms"`
	} `json:"_embedded"`
}

// NewOLS creates an OLS lookup. An empty baseURL uses the public service.
func NewOLS(baseURL string, opts ...transport.Option) *OLS {
	if baseURL == "" {
		baseURL = constants.DefaultOntologyURL
	}
	return &OLS{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  transport.New(opts...),
	}
}

// ResolveShortcode looks a shortcode up by its OBO id. Underscore and dash
// separators are normalized to a colon first.
func (o *OLS) ResolveShortcode(ctx context.Context, code string) (string, bool, error) {
	oboID := normalizeShortcode(code)
	endpoint := o.baseURL + "/api/terms?obo_id=" + url.QueryEscape(oboID)

	resp, err := o.client.Get(ctx, endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, errors.NewLookupError("resolve", code, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		transport.Drain(resp)
		return "", false, nil
	}

	var body termsResponse
	if err := transport.DecodeResponse(resp, olsService, &body); err != nil {
		return "", false, errors.NewLookupError("resolve", code, err)
	}

	for _, term := range body.Embedded.Terms {
		if term.IRI == "" {
			continue
		}
		if term.OboID == "" || strings.EqualFold(term.OboID, oboID) {
			logging.FromContext(ctx).Trace().Str("shortcode", code).Str("iri", term.IRI).Msg("Resolved shortcode")
			return term.IRI, true, nil
		}
	}
	return "", false, nil
}

// ValidateReachable reports whether iri answers with a 2xx status. Servers
// that reject HEAD are retried with GET. Client errors mean unreachable;
// server errors, timeouts, rate limiting and transport failures are
// inconclusive.
func (o *OLS) ValidateReachable(ctx context.Context, iri string) (bool, error) {
	resp, err := o.client.Head(ctx, iri)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		transport.Drain(resp)
		resp, err = o.client.Get(ctx, iri)
	}
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, errors.NewLookupError("validate", iri, err)
	}
	defer transport.Drain(resp)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode >= 500,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusRequestTimeout:
		return false, errors.NewLookupError("validate", iri, errors.NewAPIError(resp.Request.URL.Host, resp.StatusCode, resp.Status))
	default:
		return false, nil
	}
}

func normalizeShortcode(code string) string {
	i := strings.IndexAny(code, "_:-")
	if i < 0 {
		return code
	}
	return code[:i] + ":" + code[i+1:]
}
