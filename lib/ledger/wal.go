// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// walTrailerSize is head_hash(32) || seq(8), written after a frame's
// bytes in the WAL as the "new_head || seq" half of the write-ahead
// record (the frame itself is the "entry" half).
const walTrailerSize = 32 + 8

// errTornRecord marks a WAL or log record that could not be read in
// full: the tail of the file after a crash mid-write. Scanning stops
// there rather than treating it as a validation failure.
var errTornRecord = errors.New("ledger: torn record at end of file")

// encodeWALRecord renders e's write-ahead record: entry || new_head || seq.
func encodeWALRecord(e *Entry) []byte {
	frame := encodeFrame(e)
	trailer := make([]byte, walTrailerSize)
	copy(trailer[0:32], e.HeadHash[:])
	binary.BigEndian.PutUint64(trailer[32:40], e.Seq)
	return append(frame, trailer...)
}

// readLengthPrefixed reads one LEN-prefixed frame from r and returns
// its raw bytes, LEN prefix included. Returns io.EOF if r is exhausted cleanly
// before any bytes of a new record, or errTornRecord if a record
// starts but cannot be read in full.
func readLengthPrefixed(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, lenFieldSize)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, errTornRecord
	}

	total := binary.BigEndian.Uint32(lenBuf)
	body := make([]byte, total)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, errTornRecord
	}

	raw := make([]byte, 0, lenFieldSize+len(body))
	raw = append(raw, lenBuf...)
	raw = append(raw, body...)
	return raw, nil
}

// readWALRecord reads and validates one write-ahead record from r:
// the frame, then its trailer, checked for internal consistency.
// Returns errTornRecord if the record (frame or trailer) is
// incomplete — the signal to stop replay at this point.
func readWALRecord(r io.Reader, frameMax int64) (*Entry, error) {
	raw, err := readLengthPrefixed(r)
	if err != nil {
		return nil, err
	}

	entry, err := decodeFrame(raw[lenFieldSize:], frameMax)
	if err != nil {
		return nil, fmt.Errorf("ledger: wal record failed to decode: %w", err)
	}

	trailer := make([]byte, walTrailerSize)
	if _, err := io.ReadFull(r, trailer); err != nil {
		return nil, errTornRecord
	}

	var trailerHead cid.CID
	copy(trailerHead[:], trailer[0:32])
	trailerSeq := binary.BigEndian.Uint64(trailer[32:40])
	if trailerHead != entry.HeadHash || trailerSeq != entry.Seq {
		return nil, fmt.Errorf("ledger: %w: wal trailer disagrees with its own frame", ublerr.ErrBadHeader)
	}

	return entry, nil
}
