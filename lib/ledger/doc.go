// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger implements a hash-chained, append-only shard: a
// sequence of entries, each binding a payload's content identifier
// into a running head hash, durably written via a write-ahead log.
//
// On-disk layout, per shard directory:
//
//	<dir>/<shard_id>.log     append-only main file of framed entries
//	<dir>/<shard_id>.wal     write-ahead log, emptied on clean operation
//	<dir>/<shard_id>.lock    exclusive single-writer marker
//
// Frame layout (big-endian): LEN:u32 | seq:u64 | ts:i64 |
// payload_cid:32B | head_hash:32B | payload_bytes | sig:64B. LEN
// excludes itself. Every appended entry in this implementation is
// signed, so sig is always present and LEN always determines payload
// length unambiguously (total - 80 - 64); the wire format's "sig:64B?"
// is read here as "this implementation's Append always signs," not as
// an on-disk presence flag, since nothing else in the frame could
// disambiguate a missing signature's length from extra payload bytes.
//
// head_hash_n = BLAKE3("chain" || head_hash_{n-1} || payload_cid_n),
// with head_hash_0 = BLAKE3("chain-genesis" || shard_id). Open replays
// any WAL records that post-date the main file's last confirmed entry,
// then truncates the WAL; a single writer per shard directory is
// enforced with an exclusive lock file.
//
// Key exports:
//
//   - [Open] -- open or create a shard, recovering from a prior crash
//   - [Shard.Append] -- append a payload, returning a [receipt.Receipt]
//   - [Shard.History] -- cursor over entries by ascending seq
//   - [Shard.Verify] -- recompute and check the hash chain over a range
package ledger
