// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// fixedFrameFields is seq(8) + ts(8) + payload_cid(32) + head_hash(32).
const fixedFrameFields = 8 + 8 + 32 + 32

// lenFieldSize is the on-disk width of the LEN prefix itself.
const lenFieldSize = 4

// frameOverhead is every frame byte that isn't payload: the fixed
// fields plus the trailing signature. A config's LedgerFrameMax bounds
// the whole on-disk frame, so payload length must be checked against
// frameMax minus this overhead, not against frameMax directly.
const frameOverhead = fixedFrameFields + ublerr.SignatureLen

// Entry is a single record of a shard's hash-chained log, as returned
// by [Shard.History]. CID and PayloadCID are always equal in this
// implementation: the wire frame stores only one content identifier
// (the payload's), and CID is exposed as a field in its own right to
// match the conceptual Entry tuple, not because it is independently
// computed.
type Entry struct {
	Seq        uint64
	CID        cid.CID
	PayloadCID cid.CID
	HeadHash   cid.CID
	Ts         int64
	Payload    []byte
	Signature  [ublerr.SignatureLen]byte
}

// chainHash computes head_hash_n = H("chain" || prevHead || payloadCID).
func chainHash(prevHead, payloadCID cid.CID) cid.CID {
	h := cid.NewIncremental()
	h.Write([]byte("chain"))
	h.Write(prevHead[:])
	h.Write(payloadCID[:])
	return h.Sum()
}

// genesisHead computes head_hash_0 = H("chain-genesis" || shardID).
func genesisHead(shardID string) cid.CID {
	h := cid.NewIncremental()
	h.Write([]byte("chain-genesis"))
	h.Write([]byte(shardID))
	return h.Sum()
}

// frameLen returns the value that goes in a frame's LEN field for a
// payload of the given length: everything after LEN itself.
func frameLen(payloadLen int) uint32 {
	return uint32(fixedFrameFields + payloadLen + ublerr.SignatureLen)
}

// encodeFrame renders e as an on-disk frame, including its LEN prefix.
func encodeFrame(e *Entry) []byte {
	total := frameLen(len(e.Payload))
	buf := make([]byte, lenFieldSize+int(total))

	binary.BigEndian.PutUint32(buf[0:4], total)
	binary.BigEndian.PutUint64(buf[4:12], e.Seq)
	binary.BigEndian.PutUint64(buf[12:20], uint64(e.Ts))
	copy(buf[20:52], e.PayloadCID[:])
	copy(buf[52:84], e.HeadHash[:])
	n := copy(buf[84:84+len(e.Payload)], e.Payload)
	copy(buf[84+n:84+n+ublerr.SignatureLen], e.Signature[:])
	return buf
}

// decodeFrame parses a frame from data (not including the LEN prefix,
// which the caller has already read and validated against len(data)).
// frameMax bounds the whole frame: payload length plus frameOverhead.
func decodeFrame(data []byte, frameMax int64) (*Entry, error) {
	if len(data) < fixedFrameFields+ublerr.SignatureLen {
		return nil, fmt.Errorf("ledger: %w: frame shorter than fixed fields", ublerr.ErrTruncatedFrame)
	}

	payloadLen := len(data) - fixedFrameFields - ublerr.SignatureLen
	if int64(payloadLen+frameOverhead) > frameMax {
		return nil, fmt.Errorf("ledger: %w: frame of %d bytes exceeds limit %d", ublerr.ErrSizeLimit, payloadLen+frameOverhead, frameMax)
	}

	e := &Entry{
		Seq: binary.BigEndian.Uint64(data[0:8]),
		Ts:  int64(binary.BigEndian.Uint64(data[8:16])),
	}
	copy(e.PayloadCID[:], data[16:48])
	e.CID = e.PayloadCID
	copy(e.HeadHash[:], data[48:80])
	e.Payload = data[80 : 80+payloadLen]
	copy(e.Signature[:], data[80+payloadLen:80+payloadLen+ublerr.SignatureLen])
	return e, nil
}
