// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/atomicledger/ledger/lib/ublerr"
)

// Store compresses and decompresses a pack's on-disk document bytes
// with zstd. Compression is entirely outside the Merkle tree: leaves
// are always hashed from uncompressed capsule bytes, so a Store never
// touches a pack's CID or any proof.
type Store struct {
	maxDecompressedSize int64
	encoder             *zstd.Encoder
	decoder             *zstd.Decoder
}

// NewStore returns a Store whose decoder refuses to expand any single
// document past maxDecompressedSize, bounding the damage a malicious
// or corrupt compressed blob can do.
func NewStore(maxDecompressedSize int64) (*Store, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(maxDecompressedSize)))
	if err != nil {
		return nil, err
	}
	return &Store{maxDecompressedSize: maxDecompressedSize, encoder: encoder, decoder: decoder}, nil
}

// Compress returns doc's zstd-compressed form.
func (s *Store) Compress(doc []byte) []byte {
	return s.encoder.EncodeAll(doc, nil)
}

// Decompress reverses Compress, rejecting anything that would expand
// past the Store's configured bound.
func (s *Store) Decompress(compressed []byte) ([]byte, error) {
	doc, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("index: zstd decompress: %w", err)
	}
	if int64(len(doc)) > s.maxDecompressedSize {
		return nil, fmt.Errorf("index: %w: decompressed document exceeds %d bytes", ublerr.ErrSizeLimit, s.maxDecompressedSize)
	}
	return doc, nil
}

// CompressDocuments compresses every document in p with store, in
// pack order. The result is suitable for writing to disk alongside
// p's leaves and root; it plays no part in proof verification.
func (p *Pack) CompressDocuments(store *Store) [][]byte {
	out := make([][]byte, len(p.docs))
	for i, doc := range p.docs {
		out[i] = store.Compress(doc)
	}
	return out
}

// Document returns the idx'th document's raw (uncompressed) wire
// bytes, as originally added to the builder.
func (p *Pack) Document(idx int) []byte {
	return p.docs[idx]
}
