// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package receipt

import (
	"encoding/json"
	"fmt"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/codec"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Receipt is what a ledger shard hands back on a successful Append: an
// attestation that cid landed at seq in shard_id, folded into
// head_hash, at ts.
type Receipt struct {
	ShardID  string
	Seq      uint64
	CID      cid.CID
	HeadHash cid.CID
	Ts       int64
}

// CanonicalValue implements canon.Value.
func (r Receipt) CanonicalValue() any {
	return map[string]any{
		"shard_id":  r.ShardID,
		"seq":       int64(r.Seq),
		"cid":       r.CID.String(),
		"head_hash": r.HeadHash.String(),
		"ts":        r.Ts,
	}
}

// receiptJSON mirrors the §6.5 wire shape: hex-encoded hashes, snake
// case field names.
type receiptJSON struct {
	ShardID  string `json:"shard_id"`
	Seq      uint64 `json:"seq"`
	CID      string `json:"cid"`
	HeadHash string `json:"head_hash"`
	Ts       int64  `json:"ts"`
}

// MarshalJSON implements json.Marshaler, matching §6.5.
func (r Receipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(receiptJSON{
		ShardID:  r.ShardID,
		Seq:      r.Seq,
		CID:      r.CID.String(),
		HeadHash: r.HeadHash.String(),
		Ts:       r.Ts,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Receipt) UnmarshalJSON(data []byte) error {
	var w receiptJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c, err := cid.Parse(w.CID)
	if err != nil {
		return fmt.Errorf("receipt: %w: cid %q", ublerr.ErrHexMalformed, w.CID)
	}
	h, err := cid.Parse(w.HeadHash)
	if err != nil {
		return fmt.Errorf("receipt: %w: head_hash %q", ublerr.ErrHexMalformed, w.HeadHash)
	}
	r.ShardID = w.ShardID
	r.Seq = w.Seq
	r.CID = c
	r.HeadHash = h
	r.Ts = w.Ts
	return nil
}

// wireReceipt mirrors Receipt's shape for CBOR encoding, the form
// used for transport rather than the §6.5 JSON textual form.
type wireReceipt struct {
	ShardID  string `cbor:"1,keyasint"`
	Seq      uint64 `cbor:"2,keyasint"`
	CID      []byte `cbor:"3,keyasint"`
	HeadHash []byte `cbor:"4,keyasint"`
	Ts       int64  `cbor:"5,keyasint"`
}

// ToBytes encodes r to CBOR using Core Deterministic Encoding, for
// transport between shards or across a network hop.
func ToBytes(r *Receipt) ([]byte, error) {
	return codec.Marshal(wireReceipt{
		ShardID:  r.ShardID,
		Seq:      r.Seq,
		CID:      r.CID[:],
		HeadHash: r.HeadHash[:],
		Ts:       r.Ts,
	})
}

// FromBytes decodes a Receipt previously produced by [ToBytes].
func FromBytes(data []byte) (*Receipt, error) {
	var w wireReceipt
	if err := codec.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if len(w.CID) != ublerr.CIDLen || len(w.HeadHash) != ublerr.CIDLen {
		return nil, fmt.Errorf("receipt: %w: hash field has wrong length", ublerr.ErrHexMalformed)
	}
	r := &Receipt{ShardID: w.ShardID, Seq: w.Seq, Ts: w.Ts}
	copy(r.CID[:], w.CID)
	copy(r.HeadHash[:], w.HeadHash)
	return r, nil
}

// NetworkReceipt aggregates receipts observed across a transport hop:
// who relayed capsuleCID, how long it took, and what the receiver's
// outcome was, bound together by the receiver's own signature.
type NetworkReceipt struct {
	CapsuleCID cid.CID
	Sender     string
	Receiver   string
	TsReceived int64
	LatencyMs  int64
	Outcome    string
	Signature  [ublerr.SignatureLen]byte
}

// CanonicalValue implements canon.Value. Signature is excluded: it is
// produced over the canonicalization of every other field, so it
// cannot also be an input to that canonicalization.
func (n NetworkReceipt) CanonicalValue() any {
	return map[string]any{
		"capsule_cid": n.CapsuleCID.String(),
		"sender":      n.Sender,
		"receiver":    n.Receiver,
		"ts_received": n.TsReceived,
		"latency_ms":  n.LatencyMs,
		"outcome":     n.Outcome,
	}
}
