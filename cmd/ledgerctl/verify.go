// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/ledger"
)

func runVerify(args []string) error {
	flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	dir := flagSet.String("dir", "", "shard directory")
	shardID := flagSet.String("shard", "", "shard id")
	from := flagSet.Uint64("from", 0, "starting sequence number (0 means the first entry)")
	to := flagSet.Uint64("to", 0, "ending sequence number (0 means the shard's last entry)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *shardID == "" {
		return fmt.Errorf("--dir and --shard are required")
	}

	shard, err := ledger.Open(*dir, *shardID, config.Default())
	if err != nil {
		return fmt.Errorf("opening shard: %w", err)
	}
	defer shard.Close()

	to64 := *to
	if to64 == 0 {
		entries, err := shard.History(1, 0)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "ok: empty shard")
			return nil
		}
		to64 = entries[len(entries)-1].Seq
	}

	if err := shard.Verify(*from, to64); err != nil {
		return fmt.Errorf("chain verification failed: %w", err)
	}
	fmt.Fprintf(os.Stdout, "ok: verified seq %d..%d\n", *from, to64)
	return nil
}
