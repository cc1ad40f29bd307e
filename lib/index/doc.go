// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package index builds and queries a content-addressed pack of
// capsules: an ordered set of (id, capsule) pairs with a Merkle tree
// over per-document leaves. The pack's CID is its Merkle root.
//
// A [Builder] accumulates capsules sharing a fixed vector dimension,
// then [Builder.Build] freezes them into a [Pack]. [Pack.Query] scores
// every document against a query vector by cosine similarity and
// returns the top-k results, each carrying a Merkle path that proves
// its leaf belongs to the pack without needing the pack itself — see
// the sibling evidence package for offline verification.
package index
