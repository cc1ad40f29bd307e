// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the runtime limits that bound canonicalization and
// ledger ingestion.
//
// Configuration is entirely environment-variable driven (see [Load]) —
// there is no config file, no ~/.config discovery, and no automatic
// search path. This ensures deterministic, auditable configuration with
// no hidden overrides: the same environment always produces the same
// Config.
//
// Key exports:
//
//   - [Config] -- canonicalization and ledger limits
//   - [Default] -- the Config produced when no environment variables are set
//   - [Load] -- reads CANON_MAX_DEPTH, CANON_MAX_BYTES, LEDGER_FRAME_MAX,
//     and LEDGER_QUEUE_HIGH_WATERMARK from the environment
//
// This package depends on no other package in this module.
package config
