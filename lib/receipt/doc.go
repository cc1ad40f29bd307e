// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package receipt defines the minimal records a ledger append hands
// back to its caller, and the optional network-hop record that
// aggregates receipts across a transport hop.
//
// Both [Receipt] and [NetworkReceipt] implement canon.Value so they
// can be canonicalized and signed exactly like any other fact; neither
// type embeds a private key or signing capability itself.
package receipt
