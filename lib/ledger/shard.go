// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/clock"
	"github.com/atomicledger/ledger/lib/config"
	"github.com/atomicledger/ledger/lib/receipt"
	"github.com/atomicledger/ledger/lib/sign"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Shard is a single hash-chained append-only log, backed by a main
// file and a write-ahead log in the same directory. A Shard holds its
// file handles, WAL, and in-memory head exclusively; callers share it
// across goroutines, not across processes (see the writer lock
// acquired by [Open]).
type Shard struct {
	mu sync.Mutex

	dir      string
	shardID  string
	cfg      *config.Config
	clk      clock.Clock
	logFile  *os.File
	walFile  *os.File
	lockFile *os.File
	lockPath string

	lastSeq uint64
	head    cid.CID
	offsets map[uint64]int64

	queueDepth int32
}

// Open opens or creates the shard named shardID inside dir, acquiring
// an exclusive writer lock and recovering any WAL records left behind
// by a prior crash. Only one process may hold a shard open at a time.
func Open(dir, shardID string, cfg *config.Config) (*Shard, error) {
	return openWithClock(dir, shardID, cfg, clock.Real())
}

func openWithClock(dir, shardID string, cfg *config.Config, clk clock.Clock) (*Shard, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: creating shard directory: %w", err)
	}

	lockPath := filepath.Join(dir, shardID+".lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("ledger: shard %q already has an open writer", shardID)
		}
		return nil, fmt.Errorf("ledger: acquiring writer lock: %w", err)
	}

	logFile, walFile, lastSeq, head, offsets, err := openAndRecover(dir, shardID, cfg, lockFile, lockPath)
	if err != nil {
		return nil, err
	}

	return &Shard{
		dir:      dir,
		shardID:  shardID,
		cfg:      cfg,
		clk:      clk,
		logFile:  logFile,
		walFile:  walFile,
		lockFile: lockFile,
		lockPath: lockPath,
		lastSeq:  lastSeq,
		head:     head,
		offsets:  offsets,
	}, nil
}

// openAndRecover opens the log and WAL files, scans the log to
// determine the last confirmed (seq, head), replays any trustworthy
// WAL records onto the log, and truncates the WAL. On any failure it
// releases the lock it was handed before returning.
func openAndRecover(dir, shardID string, cfg *config.Config, lockFile *os.File, lockPath string) (logFile, walFile *os.File, lastSeq uint64, head cid.CID, offsets map[uint64]int64, err error) {
	fail := func(e error) (*os.File, *os.File, uint64, cid.CID, map[uint64]int64, error) {
		if logFile != nil {
			logFile.Close()
		}
		if walFile != nil {
			walFile.Close()
		}
		lockFile.Close()
		os.Remove(lockPath)
		return nil, nil, 0, cid.CID{}, nil, e
	}

	logPath := filepath.Join(dir, shardID+".log")
	walPath := filepath.Join(dir, shardID+".wal")

	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fail(fmt.Errorf("ledger: opening log file: %w", err))
	}

	locs, scannedSeq, scannedHead, validEnd, err := scanLogFile(logFile, shardID, cfg.LedgerFrameMax)
	if err != nil {
		return fail(err)
	}
	if fi, statErr := logFile.Stat(); statErr == nil && fi.Size() != validEnd {
		if err := logFile.Truncate(validEnd); err != nil {
			return fail(fmt.Errorf("ledger: truncating torn log tail: %w", err))
		}
	}

	walFile, err = os.OpenFile(walPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fail(fmt.Errorf("ledger: opening wal file: %w", err))
	}

	lastSeq, head = scannedSeq, scannedHead
	locs, lastSeq, head, err = replayWAL(logFile, walFile, locs, lastSeq, head, cfg.LedgerFrameMax)
	if err != nil {
		return fail(err)
	}

	if err := walFile.Truncate(0); err != nil {
		return fail(fmt.Errorf("ledger: truncating wal after replay: %w", err))
	}
	if _, err := walFile.Seek(0, io.SeekStart); err != nil {
		return fail(fmt.Errorf("ledger: seeking wal after truncate: %w", err))
	}
	if err := walFile.Sync(); err != nil {
		return fail(fmt.Errorf("ledger: syncing wal after truncate: %w", err))
	}

	offsets = make(map[uint64]int64, len(locs))
	for _, l := range locs {
		offsets[l.seq] = l.offset
	}

	return logFile, walFile, lastSeq, head, offsets, nil
}

// replayWAL applies WAL records that post-date the log's last
// confirmed entry onto the log file, in order, stopping at the first
// record that is not a trustworthy continuation (a gap in seq, a
// chain mismatch, or a torn tail).
func replayWAL(logFile, walFile *os.File, locs []seqOffset, lastSeq uint64, head cid.CID, frameMax int64) ([]seqOffset, uint64, cid.CID, error) {
	if _, err := walFile.Seek(0, io.SeekStart); err != nil {
		return nil, 0, cid.CID{}, fmt.Errorf("ledger: seeking wal: %w", err)
	}

	for {
		entry, err := readWALRecord(walFile, frameMax)
		if err != nil {
			break
		}
		if entry.Seq <= lastSeq {
			continue
		}
		if entry.Seq != lastSeq+1 {
			break
		}
		wantHead := chainHash(head, entry.PayloadCID)
		if wantHead != entry.HeadHash {
			break
		}

		offset, err := logFile.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, cid.CID{}, fmt.Errorf("ledger: seeking log for replay: %w", err)
		}
		frame := encodeFrame(entry)
		if _, err := logFile.Write(frame); err != nil {
			return nil, 0, cid.CID{}, fmt.Errorf("ledger: replaying wal record to log: %w", err)
		}
		if err := logFile.Sync(); err != nil {
			return nil, 0, cid.CID{}, fmt.Errorf("ledger: syncing replayed log: %w", err)
		}

		locs = append(locs, seqOffset{seq: entry.Seq, offset: offset})
		lastSeq = entry.Seq
		head = entry.HeadHash
	}

	return locs, lastSeq, head, nil
}

// Append signs payload, folds its content identifier into the shard's
// head hash, and durably writes the resulting entry before returning
// a receipt. Returns ublerr.ErrBackpressure if the shard's submission
// queue is at its configured high watermark, or ublerr.ErrSizeLimit if
// payload plus the fixed frame overhead exceeds the configured frame limit.
func (s *Shard) Append(payload []byte, signer sign.Signer) (*receipt.Receipt, error) {
	if int64(len(payload)+frameOverhead) > s.cfg.LedgerFrameMax {
		return nil, fmt.Errorf("ledger: %w: payload of %d bytes would produce a frame exceeding limit %d", ublerr.ErrSizeLimit, len(payload), s.cfg.LedgerFrameMax)
	}

	if atomic.AddInt32(&s.queueDepth, 1) > int32(s.cfg.LedgerQueueHighWatermark) {
		atomic.AddInt32(&s.queueDepth, -1)
		return nil, ublerr.ErrBackpressure
	}
	defer atomic.AddInt32(&s.queueDepth, -1)

	s.mu.Lock()
	defer s.mu.Unlock()

	payloadCID := cid.Of(payload)
	newHead := chainHash(s.head, payloadCID)
	seq := s.lastSeq + 1
	ts := s.clk.Now().Unix()

	sig, err := sign.Sign(signer, payloadCID, sign.DomainLedger)
	if err != nil {
		return nil, fmt.Errorf("ledger: signing entry: %w", err)
	}

	entry := &Entry{
		Seq:        seq,
		CID:        payloadCID,
		PayloadCID: payloadCID,
		HeadHash:   newHead,
		Ts:         ts,
		Payload:    payload,
		Signature:  sig,
	}

	walRecord := encodeWALRecord(entry)
	if _, err := s.walFile.Write(walRecord); err != nil {
		return nil, fmt.Errorf("ledger: %w: writing wal record: %v", ublerr.ErrIoError, err)
	}
	if err := s.walFile.Sync(); err != nil {
		return nil, fmt.Errorf("ledger: %w: fsyncing wal: %v", ublerr.ErrIoError, err)
	}

	offset, err := s.logFile.Seek(0, io.SeekEnd)
	if err != nil {
		s.rollbackWAL()
		return nil, fmt.Errorf("ledger: %w: seeking log: %v", ublerr.ErrIoError, err)
	}
	if _, err := s.logFile.Write(encodeFrame(entry)); err != nil {
		s.rollbackWAL()
		return nil, fmt.Errorf("ledger: %w: appending to log: %v", ublerr.ErrIoError, err)
	}
	if err := s.logFile.Sync(); err != nil {
		s.rollbackWAL()
		return nil, fmt.Errorf("ledger: %w: fsyncing log: %v", ublerr.ErrIoError, err)
	}

	// The entry is durable in the main log; the WAL copy is no longer needed.
	s.rollbackWAL()

	s.offsets[seq] = offset
	s.lastSeq = seq
	s.head = newHead

	return &receipt.Receipt{
		ShardID:  s.shardID,
		Seq:      seq,
		CID:      payloadCID,
		HeadHash: newHead,
		Ts:       ts,
	}, nil
}

// rollbackWAL truncates the WAL back to empty, discarding whatever
// record is currently pending in it.
func (s *Shard) rollbackWAL() {
	s.walFile.Truncate(0)
	s.walFile.Seek(0, io.SeekStart)
}

// History returns up to limit entries with seq >= fromSeq, in
// ascending seq order. limit <= 0 means unbounded.
func (s *Shard) History(fromSeq uint64, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seqs := make([]uint64, 0, len(s.offsets))
	for seq := range s.offsets {
		if seq >= fromSeq {
			seqs = append(seqs, seq)
		}
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	if limit > 0 && len(seqs) > limit {
		seqs = seqs[:limit]
	}

	entries := make([]Entry, 0, len(seqs))
	for _, seq := range seqs {
		entry, err := s.readFrameAt(s.offsets[seq])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Verify recomputes payload CIDs and the head chain for seq in
// [max(from,1), to], returning ublerr.ChainBroken at the first seq
// that disagrees with its stored fields. from == 0 is treated as 1.
func (s *Shard) Verify(from, to uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from == 0 {
		from = 1
	}

	prevHead := genesisHead(s.shardID)
	if from > 1 {
		offset, ok := s.offsets[from-1]
		if !ok {
			return fmt.Errorf("ledger: verify: no entry at seq %d to anchor from", from-1)
		}
		anchor, err := s.readFrameAt(offset)
		if err != nil {
			return err
		}
		prevHead = anchor.HeadHash
	}

	for seq := from; seq <= to; seq++ {
		offset, ok := s.offsets[seq]
		if !ok {
			return fmt.Errorf("ledger: verify: missing entry at seq %d", seq)
		}
		entry, err := s.readFrameAt(offset)
		if err != nil {
			return err
		}
		if cid.Of(entry.Payload) != entry.PayloadCID {
			return &ublerr.ChainBroken{Seq: seq}
		}
		if chainHash(prevHead, entry.PayloadCID) != entry.HeadHash {
			return &ublerr.ChainBroken{Seq: seq}
		}
		prevHead = entry.HeadHash
	}
	return nil
}

// readFrameAt reads and decodes the frame at offset in the log file.
// Callers must hold s.mu.
func (s *Shard) readFrameAt(offset int64) (*Entry, error) {
	if _, err := s.logFile.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("ledger: %w: seeking log: %v", ublerr.ErrIoError, err)
	}
	raw, err := readLengthPrefixed(s.logFile)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w: reading frame at offset %d: %v", ublerr.ErrIoError, offset, err)
	}
	return decodeFrame(raw[lenFieldSize:], s.cfg.LedgerFrameMax)
}

// Close releases the shard's file handles and its writer lock. A
// closed Shard must not be used again.
func (s *Shard) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.logFile.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.walFile.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.lockFile.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := os.Remove(s.lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// seqOffset records where a known-good entry's frame begins in the
// log file.
type seqOffset struct {
	seq    uint64
	offset int64
}

// scanLogFile reads every frame in f from the start, verifying the
// hash chain as it goes, and reports the entries found, the last
// confirmed (seq, head), and the byte offset at which a torn trailing
// record (if any) begins — the caller truncates the file to that
// offset to self-heal after a crash mid-write.
func scanLogFile(f *os.File, shardID string, frameMax int64) ([]seqOffset, uint64, cid.CID, int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, cid.CID{}, 0, fmt.Errorf("ledger: seeking log for scan: %w", err)
	}

	var locs []seqOffset
	prevHead := genesisHead(shardID)
	expectedSeq := uint64(1)
	offset := int64(0)

	for {
		raw, err := readLengthPrefixed(f)
		if errors.Is(err, io.EOF) || errors.Is(err, errTornRecord) {
			break
		}

		entry, err := decodeFrame(raw[lenFieldSize:], frameMax)
		if err != nil {
			return nil, 0, cid.CID{}, 0, fmt.Errorf("ledger: log entry at offset %d failed to decode: %w", offset, err)
		}
		if entry.Seq != expectedSeq {
			return nil, 0, cid.CID{}, 0, fmt.Errorf("ledger: log out of sequence at offset %d: %w", offset, &ublerr.ChainBroken{Seq: entry.Seq})
		}
		if chainHash(prevHead, entry.PayloadCID) != entry.HeadHash {
			return nil, 0, cid.CID{}, 0, &ublerr.ChainBroken{Seq: entry.Seq}
		}

		locs = append(locs, seqOffset{seq: entry.Seq, offset: offset})
		offset += int64(len(raw))
		prevHead = entry.HeadHash
		expectedSeq++
	}

	return locs, expectedSeq - 1, prevHead, offset, nil
}
