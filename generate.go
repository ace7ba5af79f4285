//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/curator --repository.default-branch master --repository.path /

// Package curator proposes, persists and applies normalizing curations to
// biological sample records. A run streams samples from a source, curates
// each one on a bounded adaptive worker pool, and reports totals and the
// samples that failed.
package curator
