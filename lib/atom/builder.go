// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atom

import "github.com/atomicledger/ledger/lib/ublerr"

// Builder accumulates Atom fields one setter call at a time. The zero
// value is ready to use; prefer [NewBuilder] for readability.
type Builder struct {
	atom Atom
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Who(who string) *Builder {
	b.atom.Who = who
	return b
}

func (b *Builder) Did(did string) *Builder {
	b.atom.Did = did
	return b
}

func (b *Builder) This(payload Payload) *Builder {
	b.atom.This = payload
	return b
}

func (b *Builder) When(when int64) *Builder {
	b.atom.When = when
	return b
}

func (b *Builder) ConfirmedBy(confirmedBy string) *Builder {
	b.atom.ConfirmedBy = confirmedBy
	return b
}

func (b *Builder) IfOk(o Outcome) *Builder {
	b.atom.IfOk = o
	return b
}

func (b *Builder) IfDoubt(e Escalation) *Builder {
	b.atom.IfDoubt = e
	return b
}

func (b *Builder) IfNot(f FailureHandling) *Builder {
	b.atom.IfNot = f
	return b
}

// BuildDraft validates the structural invariants of the 9-tuple and
// returns a DRAFT Atom: who is non-empty, when is positive, and all
// three consequence fields are non-empty. Verb registry validation is
// not performed here — use [BuildDraftStrict] when the verb must be
// checked against a registry.
func (b *Builder) BuildDraft() (*Atom, error) {
	if err := b.verifyInvariants(); err != nil {
		return nil, err
	}
	a := b.atom
	a.Status = StatusDraft
	if a.This == nil {
		a.This = NonePayload{}
	}
	return &a, nil
}

// BuildDraftStrict is equivalent to [BuildDraft], but additionally
// rejects a verb that the registry does not recognize.
func (b *Builder) BuildDraftStrict(registry *VerbRegistry) (*Atom, error) {
	if !registry.IsAllowed(b.atom.Did) {
		return nil, &ublerr.InvalidAtom{Field: "did", Reason: "verb not recognized by registry"}
	}
	return b.BuildDraft()
}

func (b *Builder) verifyInvariants() error {
	if b.atom.Who == "" {
		return &ublerr.InvalidAtom{Field: "who", Reason: "must not be empty"}
	}
	if b.atom.Did == "" {
		return &ublerr.InvalidAtom{Field: "did", Reason: "must not be empty"}
	}
	if b.atom.When <= 0 {
		return &ublerr.InvalidAtom{Field: "when", Reason: "must be greater than zero"}
	}
	if b.atom.IfOk.IsEmpty() {
		return &ublerr.InvalidAtom{Field: "if_ok", Reason: "label must not be empty"}
	}
	if b.atom.IfDoubt.IsEmpty() {
		return &ublerr.InvalidAtom{Field: "if_doubt", Reason: "label and route_to must not be empty"}
	}
	if b.atom.IfNot.IsEmpty() {
		return &ublerr.InvalidAtom{Field: "if_not", Reason: "label and action must not be empty"}
	}
	return nil
}
