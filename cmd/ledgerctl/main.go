// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// ledgerctl is a thin command-line front end over the library surface:
// appending to and inspecting a ledger shard, querying an ephemeral
// index pack built from capsule files on disk, and driving an action
// atom through its sign/freeze/commit lifecycle.
package main

import (
	"fmt"
	"os"

	"github.com/atomicledger/ledger/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "--version":
		fmt.Println(version.Info())
		return nil
	case "append":
		return runAppend(args[1:])
	case "history":
		return runHistory(args[1:])
	case "verify":
		return runVerify(args[1:])
	case "query":
		return runQuery(args[1:])
	case "commit-atom":
		return runCommitAtom(args[1:])
	case "--help", "-h", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `ledgerctl — verifiable action ledger command-line tool

Usage:
  ledgerctl append  --dir <path> --shard <id> --key-file <path> [--data-file <path>]
  ledgerctl history --dir <path> --shard <id> [--from <seq>] [--limit <n>]
  ledgerctl verify  --dir <path> --shard <id> [--from <seq>] [--to <seq>]
  ledgerctl query    --dim <n> --vec <f,f,...> --k <n> <capsule-file> ...
  ledgerctl commit-atom --who <id> --did <verb> --if-ok <label> \
      --if-doubt <label> --if-doubt-route <id> --if-not <label> --if-not-action <action> \
      [--this <text>] [--when <unix>] [--confirmed-by <id>] [--key-file <path>] \
      [--dir <path> --shard <id>]

append reads the payload from --data-file, or stdin if omitted.
commit-atom drives a new action atom through sign, freeze, and commit;
with --dir/--shard set, the committed fact is also appended to a shard.

append and commit-atom accept a signing seed from one of three sources:
  --key-file <path>                          a hex-encoded seed file
  --sealed-key-file <path> --recovery-key-file <path>
                                              an age-escrowed seed (lib/sealed)
  (neither)                                  an interactive hex prompt
`)
}
