// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"github.com/atomicledger/ledger/lib/atom"
	"github.com/atomicledger/ledger/lib/clock"
	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/fact"
	"github.com/atomicledger/ledger/lib/sign"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// FormatID identifies the canonical shape lib/atom.Atom.CanonicalValue
// produces, stamped onto every fact.SignedFact this package seals.
const FormatID = "atom.v1"

// SignedDraft pairs a Draft atom with the envelope proving who signed
// it. The atom's Status is still Draft: signing and freezing are
// distinct steps, so a signed draft can still be abandoned or have its
// "when" recorded by Freeze before it becomes Pending.
type SignedDraft struct {
	Atom *atom.Atom
	Fact *fact.SignedFact
}

// Sealed pairs a Pending or Committed atom with the signed envelope
// proving the transition that put it there.
type Sealed struct {
	Atom *atom.Atom
	Fact *fact.SignedFact
}

// Sign seals a Draft atom as-is, without advancing its status. Signing
// is deterministic in signer and atom content, so calling Sign again
// on the same draft with the same signer reproduces an equivalent
// SignedDraft: the operation is idempotent. Returns IllegalTransition
// if a is not currently Draft.
func Sign(a *atom.Atom, signer sign.Signer, cfg *config.Config) (*SignedDraft, error) {
	if a.Status != atom.StatusDraft {
		return nil, &ublerr.IllegalTransition{From: string(a.Status), To: string(atom.StatusDraft)}
	}

	draft := a.Clone()
	sealed, err := fact.Seal(draft, signer, sign.DomainLedger, FormatID, cfg)
	if err != nil {
		return nil, err
	}
	return &SignedDraft{Atom: draft, Fact: sealed}, nil
}

// Freeze transitions a signed draft to Pending. It records When from
// clk if the draft did not already carry one, then enforces When > 0
// either way. Returns IllegalTransition if sd.Atom is not currently
// Draft, or InvalidAtom if When ends up non-positive.
func Freeze(sd *SignedDraft, clk clock.Clock) (*Sealed, error) {
	if sd.Atom.Status != atom.StatusDraft {
		return nil, &ublerr.IllegalTransition{From: string(sd.Atom.Status), To: string(atom.StatusPending)}
	}

	pending := sd.Atom.Clone()
	if pending.When == 0 {
		pending.When = clk.Now().Unix()
	}
	if pending.When <= 0 {
		return nil, &ublerr.InvalidAtom{Field: "when", Reason: "must be > 0"}
	}
	pending.Status = atom.StatusPending

	return &Sealed{Atom: pending, Fact: sd.Fact}, nil
}

// Commit transitions a Pending atom to Committed and seals a fresh
// Signed Fact over the committed form: the signature covers the
// canonicalized atom with status already set to "committed", not the
// pending form from Freeze. Committed is terminal: once reached, the
// atom can never become Ghost. Returns IllegalTransition if s.Atom is
// not currently Pending.
func Commit(s *Sealed, signer sign.Signer, cfg *config.Config) (*Sealed, error) {
	if s.Atom.Status != atom.StatusPending {
		return nil, &ublerr.IllegalTransition{From: string(s.Atom.Status), To: string(atom.StatusCommitted)}
	}

	committed := s.Atom.Clone()
	committed.Status = atom.StatusCommitted

	sealed, err := fact.Seal(committed, signer, sign.DomainLedger, FormatID, cfg)
	if err != nil {
		return nil, err
	}
	return &Sealed{Atom: committed, Fact: sealed}, nil
}

// Abandon moves a to Ghost, recording why and when. Abandon refuses a
// Committed atom: Committed is terminal, per the state machine, and
// returns IllegalTransition in that case.
func Abandon(a *atom.Atom, reason string, clk clock.Clock) (*GhostRecord, error) {
	if a.Status == atom.StatusCommitted {
		return nil, &ublerr.IllegalTransition{From: string(a.Status), To: string(atom.StatusGhost)}
	}

	ghost := a.Clone()
	ghost.Status = atom.StatusGhost

	return &GhostRecord{
		Atom:    ghost,
		Reason:  reason,
		GhostTs: clk.Now().UnixNano(),
	}, nil
}
