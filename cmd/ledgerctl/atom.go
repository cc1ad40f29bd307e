// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atomicledger/ledger/lib/atom"
	"github.com/atomicledger/ledger/lib/clock"
	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/fact"
	"github.com/atomicledger/ledger/lib/ledger"
	"github.com/atomicledger/ledger/lib/lifecycle"
)

// signedFactView is the hex-friendly JSON shape printed for a
// committed fact; fact.SignedFact has no JSON marshaler of its own
// since the library surface defines wire encoding via ToBytes.
type signedFactView struct {
	CID       string `json:"cid"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	HashAlg   string `json:"hash_alg"`
	SigAlg    string `json:"sig_alg"`
	CanonVer  int    `json:"canon_ver"`
	FormatID  string `json:"format_id"`
}

func newSignedFactView(f *fact.SignedFact) signedFactView {
	return signedFactView{
		CID:       f.CID.String(),
		Signature: hex.EncodeToString(f.Signature[:]),
		PublicKey: hex.EncodeToString(f.PublicKey[:]),
		HashAlg:   f.HashAlg,
		SigAlg:    f.SigAlg,
		CanonVer:  f.CanonVer,
		FormatID:  f.FormatID,
	}
}

// runCommitAtom drives a single atom through its full state machine —
// Sign, Freeze, Commit — and prints the resulting Signed Fact. With
// --dir and --shard set, the committed fact's canonical bytes are also
// appended to a ledger shard as the payload, exercising the same
// append path as the append subcommand.
func runCommitAtom(args []string) error {
	flagSet := pflag.NewFlagSet("commit-atom", pflag.ContinueOnError)
	who := flagSet.String("who", "", "acting identity")
	did := flagSet.String("did", "", "verb")
	text := flagSet.String("this", "", "free-text payload for the atom's this field")
	when := flagSet.Int64("when", 0, "unix seconds; 0 lets Freeze record the current time")
	confirmedBy := flagSet.String("confirmed-by", "", "advisory confirming identity")
	ifOk := flagSet.String("if-ok", "", "mandatory positive-outcome label")
	ifDoubtLabel := flagSet.String("if-doubt", "", "mandatory escalation label")
	ifDoubtRoute := flagSet.String("if-doubt-route", "", "mandatory escalation route")
	ifNotLabel := flagSet.String("if-not", "", "mandatory failure label")
	ifNotAction := flagSet.String("if-not-action", "", "mandatory failure action")
	keySrc := registerKeySourceFlags(flagSet)
	dir := flagSet.String("dir", "", "shard directory; if set with --shard, the committed atom is appended")
	shardID := flagSet.String("shard", "", "shard id")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if *who == "" || *did == "" || *ifOk == "" || *ifDoubtLabel == "" || *ifDoubtRoute == "" || *ifNotLabel == "" || *ifNotAction == "" {
		return fmt.Errorf("--who, --did, --if-ok, --if-doubt, --if-doubt-route, --if-not, and --if-not-action are required")
	}

	builder := atom.NewBuilder().
		Who(*who).
		Did(*did).
		This(atom.TextPayload{Text: *text}).
		When(*when).
		ConfirmedBy(*confirmedBy).
		IfOk(atom.Outcome{Label: *ifOk}).
		IfDoubt(atom.Escalation{Label: *ifDoubtLabel, RouteTo: *ifDoubtRoute}).
		IfNot(atom.FailureHandling{Label: *ifNotLabel, Action: *ifNotAction})

	var draft *atom.Atom
	var err error
	if *when <= 0 {
		// BuildDraft enforces When > 0; stand a placeholder in for the
		// draft so Freeze is what actually records the real timestamp.
		draft, err = builder.When(1).BuildDraft()
		if err == nil {
			draft.When = 0
		}
	} else {
		draft, err = builder.BuildDraft()
	}
	if err != nil {
		return fmt.Errorf("building draft: %w", err)
	}

	signer, err := loadSigner(*keySrc)
	if err != nil {
		return err
	}
	cfg := config.Default()

	signed, err := lifecycle.Sign(draft, signer, cfg)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	pending, err := lifecycle.Freeze(signed, clock.Real())
	if err != nil {
		return fmt.Errorf("freeze: %w", err)
	}
	committed, err := lifecycle.Commit(pending, signer, cfg)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if *dir != "" && *shardID != "" {
		shard, err := ledger.Open(*dir, *shardID, cfg)
		if err != nil {
			return fmt.Errorf("opening shard: %w", err)
		}
		defer shard.Close()

		payload, err := fact.ToBytes(committed.Fact)
		if err != nil {
			return fmt.Errorf("encoding committed fact: %w", err)
		}
		r, err := shard.Append(payload, signer)
		if err != nil {
			return fmt.Errorf("append: %w", err)
		}
		return json.NewEncoder(os.Stdout).Encode(r)
	}

	return json.NewEncoder(os.Stdout).Encode(newSignedFactView(committed.Fact))
}
