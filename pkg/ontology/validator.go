package ontology

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/agentstation/curator/pkg/errors"
)

// DefaultTrustedHosts are ontology hosts whose IRIs are never checked.
var DefaultTrustedHosts = []string{
	"purl.obolibrary.org",
	"www.ebi.ac.uk",
	"identifiers.org",
	"purl.org",
	"www.w3.org",
	"orcid.org",
}

// DefaultValidatePatterns select the IRIs that are checked for reachability.
var DefaultValidatePatterns = []string{`^https?://`}

// Validator decides which IRIs need a reachability check: those matching one
// of its patterns whose host is not trusted.
type Validator struct {
	patterns []*regexp.Regexp
	trusted  []string
}

// NewValidator compiles patterns. Empty arguments fall back to the defaults.
func NewValidator(patterns, trustedHosts []string) (*Validator, error) {
	if len(patterns) == 0 {
		patterns = DefaultValidatePatterns
	}
	if trustedHosts == nil {
		trustedHosts = DefaultTrustedHosts
	}

	v := &Validator{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.NewConfigError("ontology.validate_patterns", "invalid pattern "+p, err)
		}
		v.patterns = append(v.patterns, re)
	}
	for _, h := range trustedHosts {
		v.trusted = append(v.trusted, strings.ToLower(strings.TrimSpace(h)))
	}
	return v, nil
}

// NeedsValidation reports whether iri should be checked for reachability.
func (v *Validator) NeedsValidation(iri string) bool {
	if v == nil {
		return false
	}
	if !slices.ContainsFunc(v.patterns, func(re *regexp.Regexp) bool { return re.MatchString(iri) }) {
		return false
	}
	u, err := url.Parse(iri)
	if err != nil || u.Host == "" {
		return false
	}
	return !slices.Contains(v.trusted, strings.ToLower(u.Hostname()))
}
