// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicledger/ledger/lib/atom"
	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/clock"
	"github.com/atomicledger/ledger/lib/secret"
	"github.com/atomicledger/ledger/lib/sign"
	"github.com/atomicledger/ledger/lib/ublerr"
)

func fixedSigner(t *testing.T) *sign.Ed25519Signer {
	t.Helper()
	var seed [32]byte
	for i := range seed {
		seed[i] = 7
	}
	buf, err := secret.NewFromBytes(seed[:])
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	signer, err := sign.NewEd25519Signer(buf)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	return signer
}

func draftAtom(t *testing.T) *atom.Atom {
	t.Helper()
	a, err := atom.NewBuilder().
		Who("did:x:alice").
		Did("approve").
		This(atom.TextPayload{Text: "purchase:123"}).
		When(1700000000).
		IfOk(atom.Outcome{Label: "approved"}).
		IfDoubt(atom.Escalation{Label: "manual_review", RouteTo: "auditor"}).
		IfNot(atom.FailureHandling{Label: "rejected", Action: "notify"}).
		BuildDraft()
	if err != nil {
		t.Fatalf("BuildDraft: %v", err)
	}
	return a
}

func TestS3_FullLifecycle(t *testing.T) {
	a := draftAtom(t)
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(1700000200, 0))

	signed, err := Sign(a, signer, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if signed.Atom.Status != atom.StatusDraft {
		t.Fatalf("Status = %v, want Draft", signed.Atom.Status)
	}
	recomputed := cid.Of(signed.Fact.CanonicalBytes)
	if recomputed != signed.Fact.CID {
		t.Fatalf("recomputed CID does not match signed draft's fact CID")
	}

	pending, err := Freeze(signed, clk)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if pending.Atom.Status != atom.StatusPending {
		t.Fatalf("Status = %v, want Pending", pending.Atom.Status)
	}
	if pending.Atom.When != 1700000000 {
		t.Errorf("When = %d, want the draft's already-set value preserved", pending.Atom.When)
	}

	committed, err := Commit(pending, signer, nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if committed.Atom.Status != atom.StatusCommitted {
		t.Fatalf("Status = %v, want Committed", committed.Atom.Status)
	}
	if committed.Fact.CID == pending.Fact.CID {
		t.Errorf("Commit should seal a fresh fact over the committed form, not reuse the pending one")
	}

	if _, err := Abandon(committed.Atom, "late change of mind", clk); err == nil {
		t.Fatal("Abandon on a Committed atom should fail")
	} else {
		var illegal *ublerr.IllegalTransition
		if !errors.As(err, &illegal) {
			t.Fatalf("expected IllegalTransition, got %v", err)
		}
		if illegal.From != string(atom.StatusCommitted) || illegal.To != string(atom.StatusGhost) {
			t.Errorf("unexpected transition fields: %+v", illegal)
		}
	}
}

func TestFreeze_RecordsWhenIfUnset(t *testing.T) {
	a := draftAtom(t)
	a.When = 0
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(1700000300, 0))

	signed, err := Sign(a, signer, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	pending, err := Freeze(signed, clk)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if pending.Atom.When != 1700000300 {
		t.Errorf("When = %d, want %d", pending.Atom.When, 1700000300)
	}
}

func TestFreeze_RejectsNonPositiveWhen(t *testing.T) {
	a := draftAtom(t)
	a.When = -5
	signer := fixedSigner(t)
	clk := clock.Fake(time.Unix(0, 0))

	signed, err := Sign(a, signer, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	_, err = Freeze(signed, clk)
	var invalid *ublerr.InvalidAtom
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAtom, got %v", err)
	}
}

func TestSign_RejectsNonDraft(t *testing.T) {
	a := draftAtom(t)
	a.Status = atom.StatusPending
	signer := fixedSigner(t)

	_, err := Sign(a, signer, nil)
	var illegal *ublerr.IllegalTransition
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransition, got %v", err)
	}
}

func TestSign_IsIdempotent(t *testing.T) {
	a := draftAtom(t)
	signer := fixedSigner(t)

	first, err := Sign(a, signer, nil)
	if err != nil {
		t.Fatalf("first Sign: %v", err)
	}
	second, err := Sign(a, signer, nil)
	if err != nil {
		t.Fatalf("second Sign: %v", err)
	}
	if first.Fact.CID != second.Fact.CID {
		t.Errorf("signing an unchanged draft twice should produce equivalent facts")
	}
}

func TestFreeze_RejectsNonDraft(t *testing.T) {
	a := draftAtom(t)
	signer := fixedSigner(t)
	signed, err := Sign(a, signer, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	signed.Atom.Status = atom.StatusPending

	_, err = Freeze(signed, clock.Fake(time.Unix(0, 0)))
	var illegal *ublerr.IllegalTransition
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransition, got %v", err)
	}
}

func TestCommit_RejectsNonPending(t *testing.T) {
	a := draftAtom(t)
	signer := fixedSigner(t)
	_, err := Commit(&Sealed{Atom: a}, signer, nil)
	var illegal *ublerr.IllegalTransition
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransition, got %v", err)
	}
}

func TestAbandon_RecordsReasonAndTimestamp(t *testing.T) {
	a := draftAtom(t)
	start := time.Unix(1700000100, 0)
	clk := clock.Fake(start)

	record, err := Abandon(a, "duplicate submission", clk)
	if err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if record.Atom.Status != atom.StatusGhost {
		t.Errorf("Status = %v, want Ghost", record.Atom.Status)
	}
	if record.Reason != "duplicate submission" {
		t.Errorf("Reason = %q, want %q", record.Reason, "duplicate submission")
	}
	if record.GhostTs != start.UnixNano() {
		t.Errorf("GhostTs = %d, want %d", record.GhostTs, start.UnixNano())
	}
	// Original atom is untouched.
	if a.Status != atom.StatusDraft {
		t.Errorf("original atom mutated: Status = %v", a.Status)
	}
}

func TestAbandon_AllowsPending(t *testing.T) {
	a := draftAtom(t)
	a.Status = atom.StatusPending
	clk := clock.Fake(time.Unix(0, 0))

	record, err := Abandon(a, "verb retired", clk)
	if err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if record.Atom.Status != atom.StatusGhost {
		t.Errorf("Status = %v, want Ghost", record.Atom.Status)
	}
}
