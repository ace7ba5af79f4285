// Package differ compares two states of a sample and reports what changed.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/curator/pkg/samples"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific attribute field.
type FieldChange struct {
	Path     string     // Field name (value, unit, tag, iri)
	OldValue string     // Previous value
	NewValue string     // New value
	Type     ChangeType // Type of change
}

// AttributeUpdate pairs an attribute with its replacement of the same type.
type AttributeUpdate struct {
	Type     string
	Existing samples.Attribute
	New      samples.Attribute
	Changes  []FieldChange
}

// AttributeChangeset represents changes to a sample's attributes.
type AttributeChangeset struct {
	Added   []samples.Attribute
	Updated []AttributeUpdate
	Removed []samples.Attribute
}

// ReferenceChangeset represents changes to a sample's external references.
type ReferenceChangeset struct {
	Added   []samples.ExternalReference
	Removed []samples.ExternalReference
}

// Changeset represents all changes between two states of a sample.
type Changeset struct {
	Sample     string
	Attributes *AttributeChangeset
	References *ReferenceChangeset
	Summary    ChangesetSummary
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	AttributesAdded   int
	AttributesUpdated int
	AttributesRemoved int
	ReferencesAdded   int
	ReferencesRemoved int
	TotalChanges      int
}

func calculateSummary(attrs *AttributeChangeset, refs *ReferenceChangeset) ChangesetSummary {
	s := ChangesetSummary{
		AttributesAdded:   len(attrs.Added),
		AttributesUpdated: len(attrs.Updated),
		AttributesRemoved: len(attrs.Removed),
		ReferencesAdded:   len(refs.Added),
		ReferencesRemoved: len(refs.Removed),
	}
	s.TotalChanges = s.AttributesAdded + s.AttributesUpdated + s.AttributesRemoved +
		s.ReferencesAdded + s.ReferencesRemoved
	return s
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// HasChanges returns true if the attribute changeset contains any changes.
func (a *AttributeChangeset) HasChanges() bool {
	return len(a.Added) > 0 || len(a.Updated) > 0 || len(a.Removed) > 0
}

// HasChanges returns true if the reference changeset contains any changes.
func (r *ReferenceChangeset) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if c.Attributes.HasChanges() {
		parts = append(parts, "Attributes: "+counts(len(c.Attributes.Added), len(c.Attributes.Updated), len(c.Attributes.Removed)))
	}
	if c.References.HasChanges() {
		parts = append(parts, "References: "+counts(len(c.References.Added), 0, len(c.References.Removed)))
	}

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, "; "), c.Summary.TotalChanges)
}

func counts(added, updated, removed int) string {
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", updated))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	return strings.Join(parts, ", ")
}

// Print writes a detailed, human-readable view of the changeset to w.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, a := range c.Attributes.Added {
		fmt.Fprintf(w, "  + %s\n", a)
	}
	for _, u := range c.Attributes.Updated {
		fmt.Fprintf(w, "  ~ %s:\n", u.Type)
		for _, ch := range u.Changes {
			fmt.Fprintf(w, "      %s: %q → %q\n", ch.Path, ch.OldValue, ch.NewValue)
		}
	}
	for _, a := range c.Attributes.Removed {
		fmt.Fprintf(w, "  - %s\n", a)
	}
	for _, r := range c.References.Added {
		fmt.Fprintf(w, "  + ref %s\n", r)
	}
	for _, r := range c.References.Removed {
		fmt.Fprintf(w, "  - ref %s\n", r)
	}
}
