package differ

import (
	"slices"
	"strings"

	"github.com/agentstation/curator/pkg/samples"
)

// Samples compares two states of the same sample.
func Samples(existing, updated samples.Sample) *Changeset {
	attrs := Attributes(existing.Attributes, updated.Attributes)
	refs := References(existing.ExternalReferences, updated.ExternalReferences)
	return &Changeset{
		Sample:     updated.Accession,
		Attributes: attrs,
		References: refs,
		Summary:    calculateSummary(attrs, refs),
	}
}

// Attributes compares two attribute sets. When exactly one attribute of a
// type was removed and one of the same type added, the pair is reported as
// an update.
func Attributes(existing, updated []samples.Attribute) *AttributeChangeset {
	changeset := &AttributeChangeset{
		Added:   []samples.Attribute{},
		Updated: []AttributeUpdate{},
		Removed: []samples.Attribute{},
	}

	var added, removed []samples.Attribute
	for _, a := range updated {
		if !slices.ContainsFunc(existing, a.Equal) {
			added = append(added, a)
		}
	}
	for _, a := range existing {
		if !slices.ContainsFunc(updated, a.Equal) {
			removed = append(removed, a)
		}
	}

	addedByType := groupByType(added)
	removedByType := groupByType(removed)

	for _, a := range removed {
		if len(removedByType[a.Type]) == 1 && len(addedByType[a.Type]) == 1 {
			n := addedByType[a.Type][0]
			changeset.Updated = append(changeset.Updated, AttributeUpdate{
				Type:     a.Type,
				Existing: a,
				New:      n,
				Changes:  fieldChanges(a, n),
			})
			continue
		}
		changeset.Removed = append(changeset.Removed, a)
	}
	for _, a := range added {
		if len(removedByType[a.Type]) == 1 && len(addedByType[a.Type]) == 1 {
			continue
		}
		changeset.Added = append(changeset.Added, a)
	}

	return changeset
}

// References compares two external reference sets.
func References(existing, updated []samples.ExternalReference) *ReferenceChangeset {
	changeset := &ReferenceChangeset{
		Added:   []samples.ExternalReference{},
		Removed: []samples.ExternalReference{},
	}
	for _, r := range updated {
		if !slices.ContainsFunc(existing, r.Equal) {
			changeset.Added = append(changeset.Added, r)
		}
	}
	for _, r := range existing {
		if !slices.ContainsFunc(updated, r.Equal) {
			changeset.Removed = append(changeset.Removed, r)
		}
	}
	return changeset
}

func groupByType(attrs []samples.Attribute) map[string][]samples.Attribute {
	m := make(map[string][]samples.Attribute)
	for _, a := range attrs {
		m[a.Type] = append(m[a.Type], a)
	}
	return m
}

func fieldChanges(old, updated samples.Attribute) []FieldChange {
	var changes []FieldChange
	compare := func(path, o, n string) {
		if o == n {
			return
		}
		typ := ChangeTypeUpdate
		switch {
		case o == "":
			typ = ChangeTypeAdd
		case n == "":
			typ = ChangeTypeRemove
		}
		changes = append(changes, FieldChange{Path: path, OldValue: o, NewValue: n, Type: typ})
	}
	compare("value", old.Value, updated.Value)
	compare("unit", old.Unit, updated.Unit)
	compare("tag", old.Tag, updated.Tag)
	compare("iri", strings.Join(old.IRIs, " "), strings.Join(updated.IRIs, " "))
	return changes
}
