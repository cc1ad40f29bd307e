// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/ledger"
)

func runAppend(args []string) error {
	flagSet := pflag.NewFlagSet("append", pflag.ContinueOnError)
	dir := flagSet.String("dir", "", "shard directory")
	shardID := flagSet.String("shard", "", "shard id")
	keySrc := registerKeySourceFlags(flagSet)
	dataFile := flagSet.String("data-file", "", "path to the payload to append (reads stdin if omitted)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *shardID == "" {
		return fmt.Errorf("--dir and --shard are required")
	}

	var payload []byte
	var err error
	if *dataFile != "" {
		payload, err = os.ReadFile(*dataFile)
	} else {
		payload, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	signer, err := loadSigner(*keySrc)
	if err != nil {
		return err
	}

	shard, err := ledger.Open(*dir, *shardID, config.Default())
	if err != nil {
		return fmt.Errorf("opening shard: %w", err)
	}
	defer shard.Close()

	r, err := shard.Append(payload, signer)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}

	return json.NewEncoder(os.Stdout).Encode(r)
}
