// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ublerr

// Hard limits that bound untrusted input regardless of configuration.
// Configurable limits (canonical depth/size, ledger frame size, queue
// watermark) live in lib/config and default to these same values.
const (
	// MaxVarintLen is the maximum number of bytes a variable-length
	// integer may occupy before ErrVarintOverflow is returned. Unused
	// by this module's own wire formats (see ErrVarintOverflow); kept
	// for the same taxonomy-parity reason.
	MaxVarintLen = 10

	// CIDLen is the fixed byte length of a content identifier.
	CIDLen = 32

	// SignatureLen is the fixed byte length of an Ed25519 signature.
	SignatureLen = 64

	// PublicKeyLen is the fixed byte length of an Ed25519 public key.
	PublicKeyLen = 32

	// SeedLen is the fixed byte length of an Ed25519 private seed.
	SeedLen = 32

	// DefaultCanonMaxDepth is the default maximum nesting depth for
	// canonicalization.
	DefaultCanonMaxDepth = 256

	// DefaultCanonMaxBytes is the default maximum canonical encoding
	// size, in bytes.
	DefaultCanonMaxBytes = 16 << 20

	// DefaultLedgerFrameMax is the default maximum on-disk ledger
	// frame size, in bytes.
	DefaultLedgerFrameMax = 1 << 20

	// DefaultLedgerQueueHighWatermark is the default number of queued
	// append requests before a shard returns Backpressure.
	DefaultLedgerQueueHighWatermark = 4096
)
