package curations

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/agentstation/utc"

	"github.com/agentstation/curator/pkg/errors"
)

// Link binds a curation to a sample and the authority that issued it.
type Link struct {
	Hash     string   `json:"hash" yaml:"hash"`         // Identity over sample, curation and domain
	Sample   string   `json:"sample" yaml:"sample"`     // Sample accession
	Curation Curation `json:"curation" yaml:"curation"` // The edit
	Domain   string   `json:"domain" yaml:"domain"`     // Issuing authority
	Created  utc.Time `json:"created" yaml:"created"`   // When the link was stored
}

// NewLink builds a validated link.
func NewLink(sample string, c Curation, domain string, created utc.Time) (Link, error) {
	if sample == "" {
		return Link{}, errors.NewValidationError("sample", sample, "link sample must not be empty")
	}
	if domain == "" {
		return Link{}, errors.NewValidationError("domain", domain, "link domain must not be empty")
	}
	if err := c.Validate(); err != nil {
		return Link{}, err
	}
	if c.Hash == "" {
		c.Hash = c.ComputeHash()
	}
	return Link{
		Hash:     LinkHash(sample, c.Hash, domain),
		Sample:   sample,
		Curation: c,
		Domain:   domain,
		Created:  created,
	}, nil
}

// LinkHash is the identity of a (sample, curation, domain) binding.
func LinkHash(sample, curationHash, domain string) string {
	h := sha256.New()
	for _, part := range []string{sample, curationHash, domain} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
