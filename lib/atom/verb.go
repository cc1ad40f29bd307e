// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atom

import "sort"

// VerbDescriptor classifies a verb's risk and the schema its payload
// must conform to. RiskLevel 3 and above is where confirmed_by becomes
// mandatory at the policy layer above this package (this package only
// treats confirmed_by as advisory — see lib/lifecycle's doc comment).
type VerbDescriptor struct {
	Verb      string
	RiskLevel int
	SchemaID  string
}

// VerbRegistry is a finite, sorted set of verb descriptors, looked up
// by binary search. A zero-value VerbRegistry has no entries, so every
// lookup fails — build one with [NewVerbRegistry].
type VerbRegistry struct {
	descriptors []VerbDescriptor
}

// NewVerbRegistry builds a registry from descriptors, sorted once by
// verb name for binary-search lookups.
func NewVerbRegistry(descriptors ...VerbDescriptor) *VerbRegistry {
	sorted := make([]VerbDescriptor, len(descriptors))
	copy(sorted, descriptors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Verb < sorted[j].Verb })
	return &VerbRegistry{descriptors: sorted}
}

// Lookup returns the descriptor for verb and whether it was found.
func (r *VerbRegistry) Lookup(verb string) (VerbDescriptor, bool) {
	if r == nil {
		return VerbDescriptor{}, false
	}
	i := sort.Search(len(r.descriptors), func(i int) bool { return r.descriptors[i].Verb >= verb })
	if i < len(r.descriptors) && r.descriptors[i].Verb == verb {
		return r.descriptors[i], true
	}
	return VerbDescriptor{}, false
}

// IsAllowed reports whether verb is present in the registry.
func (r *VerbRegistry) IsAllowed(verb string) bool {
	_, ok := r.Lookup(verb)
	return ok
}
