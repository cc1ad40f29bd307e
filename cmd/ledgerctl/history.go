// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/ledger"
)

// historyEntry is the JSON-line shape printed per entry; Payload is
// base64 since it is arbitrary binary data.
type historyEntry struct {
	Seq        uint64 `json:"seq"`
	CID        string `json:"cid"`
	HeadHash   string `json:"head_hash"`
	Ts         int64  `json:"ts"`
	PayloadB64 string `json:"payload_b64"`
}

func runHistory(args []string) error {
	flagSet := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dir := flagSet.String("dir", "", "shard directory")
	shardID := flagSet.String("shard", "", "shard id")
	from := flagSet.Uint64("from", 1, "starting sequence number")
	limit := flagSet.Int("limit", 0, "maximum entries to return (0 = unbounded)")
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

	entries, err := shard.History(*from, *limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	for _, e := range entries {
		if err := encoder.Encode(historyEntry{
			Seq:        e.Seq,
			CID:        e.CID.String(),
			HeadHash:   e.HeadHash.String(),
			Ts:         e.Ts,
			PayloadB64: base64.StdEncoding.EncodeToString(e.Payload),
		}); err != nil {
			return err
		}
	}
	return nil
}
