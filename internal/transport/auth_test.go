package transport

import (
	"net/http"
	"testing"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&NoAuth{}).Apply(req)
	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&BearerAuth{Token: "secret"}).Apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer secret" {
		t.Errorf("Expected Authorization header 'Bearer secret', got '%s'", got)
	}

	empty := &http.Request{Header: make(http.Header)}
	(&BearerAuth{}).Apply(empty)
	if empty.Header.Get("Authorization") != "" {
		t.Error("Empty token should not set Authorization")
	}
}

func TestHeaderAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&HeaderAuth{Header: "x-api-key", Value: "k"}).Apply(req)
	if got := req.Header.Get("x-api-key"); got != "k" {
		t.Errorf("Expected x-api-key header 'k', got '%s'", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}
