// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/atomicledger/ledger/lib/capsule"
	"github.com/atomicledger/ledger/lib/evidence"
	"github.com/atomicledger/ledger/lib/index"
)

// runQuery builds an ephemeral index pack from the given capsule files
// (the id for each is its base filename), queries it with --vec, and
// prints the §6.4 evidence JSON for the top --k results.
func runQuery(args []string) error {
	flagSet := pflag.NewFlagSet("query", pflag.ContinueOnError)
	dim := flagSet.Uint16("dim", 0, "vector dimension")
	vecCSV := flagSet.String("vec", "", "comma-separated query vector, e.g. 1,0,0")
	k := flagSet.Int("k", 10, "maximum results to return")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	files := flagSet.Args()
	if *dim == 0 || *vecCSV == "" || len(files) == 0 {
		return fmt.Errorf("--dim, --vec, and at least one capsule file are required")
	}

	vec, err := parseVector(*vecCSV)
	if err != nil {
		return fmt.Errorf("parsing --vec: %w", err)
	}

	builder := index.NewBuilder(*dim)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		c, err := capsule.FromBytes(data)
		if err != nil {
			return fmt.Errorf("parsing capsule %s: %w", path, err)
		}
		if err := capsule.VerifyCID(c); err != nil {
			return fmt.Errorf("capsule %s failed CID check: %w", path, err)
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := builder.Add(id, c); err != nil {
			return fmt.Errorf("adding %s: %w", path, err)
		}
	}

	pack, err := builder.Build()
	if err != nil {
		return fmt.Errorf("building pack: %w", err)
	}

	results, err := pack.Query(index.QueryRequest{Vec: vec}, *k)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	ev := evidence.Evidence{
		IndexPackCID: pack.CID.String(),
		Dim:          pack.Dim,
		Results:      results,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ev)
}

func parseVector(csv string) ([]float32, error) {
	fields := strings.Split(csv, ",")
	vec := make([]float32, len(fields))
	for i, f := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, err
		}
		vec[i] = float32(value)
	}
	return vec, nil
}
