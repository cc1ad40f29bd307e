// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"cmp"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/atomicledger/ledger/lib/capsule"
	"github.com/atomicledger/ledger/lib/cid"
	"github.com/atomicledger/ledger/lib/ublerr"
)

// Builder accumulates (id, capsule) pairs sharing a fixed vector
// dimension, in insertion order, ahead of [Builder.Build].
type Builder struct {
	dim      uint16
	ids      []string
	payloads []capsule.Capsule
}

// NewBuilder returns a Builder for vectors of the given dimension.
func NewBuilder(dim uint16) *Builder {
	return &Builder{dim: dim}
}

// Add appends a capsule under id. c.Dim must match the builder's
// dimension and c.Payload must hold exactly dim little-endian float32
// values; either disagreement returns ublerr.ErrDimMismatch.
// Duplicate ids are permitted: the first write for an id defines its
// leaf for any external lookup, but every entry still contributes its
// own leaf and is independently queryable.
func (b *Builder) Add(id string, c *capsule.Capsule) error {
	if c.Dim != b.dim {
		return fmt.Errorf("index: %w: capsule dim %d, builder dim %d", ublerr.ErrDimMismatch, c.Dim, b.dim)
	}
	need := int(b.dim) * 4
	if len(c.Payload) != need {
		return fmt.Errorf("index: %w: payload length %d, want %d for dim %d", ublerr.ErrDimMismatch, len(c.Payload), need, b.dim)
	}
	b.ids = append(b.ids, id)
	b.payloads = append(b.payloads, *c)
	return nil
}

// Build freezes the accumulated entries into a Pack. An empty builder
// produces a Pack whose CID is the empty-tree root and which answers
// every query with zero results; this is not an error.
func (b *Builder) Build() (*Pack, error) {
	leaves := make([]cid.CID, len(b.ids))
	vecs := make([][]float32, len(b.ids))
	docs := make([][]byte, len(b.ids))
	for i, c := range b.payloads {
		leaves[i] = leafHashDoc(b.ids[i], c.CID)
		v, err := vectorFromPayload(c.Payload, b.dim)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
		docs[i] = capsule.ToBytes(&c)
	}

	root := merkleRoot(leaves)
	ids := make([]string, len(b.ids))
	copy(ids, b.ids)

	return &Pack{
		Dim:    b.dim,
		CID:    root,
		ids:    ids,
		vecs:   vecs,
		leaves: leaves,
		docs:   docs,
	}, nil
}

// Pack is a built, queryable index: an ordered set of documents with a
// Merkle tree over their leaves. CID is the Merkle root.
type Pack struct {
	Dim uint16
	CID cid.CID

	ids    []string
	vecs   [][]float32
	leaves []cid.CID
	docs   [][]byte
}

// QueryRequest carries the vector to score every document against.
type QueryRequest struct {
	Vec []float32
}

// Result is one scored document, evidenced by its Merkle path. It
// marshals to the §6.4 wire shape: id/score/leaf_hex/path, with each
// path step as sibling_hex/sibling_is_right.
type Result struct {
	ID      string
	Score   float32
	LeafHex string
	Path    []ProofStep
}

type resultJSON struct {
	ID      string          `json:"id"`
	Score   float32         `json:"score"`
	LeafHex string          `json:"leaf_hex"`
	Path    []proofStepJSON `json:"path"`
}

type proofStepJSON struct {
	SiblingHex     string `json:"sibling_hex"`
	SiblingIsRight bool   `json:"sibling_is_right"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	path := make([]proofStepJSON, len(r.Path))
	for i, step := range r.Path {
		path[i] = proofStepJSON{SiblingHex: step.Sibling.String(), SiblingIsRight: step.SiblingIsRight}
	}
	return json.Marshal(resultJSON{ID: r.ID, Score: r.Score, LeafHex: r.LeafHex, Path: path})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var wire resultJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	path := make([]ProofStep, len(wire.Path))
	for i, step := range wire.Path {
		sibling, err := cid.Parse(step.SiblingHex)
		if err != nil {
			return err
		}
		path[i] = ProofStep{Sibling: sibling, SiblingIsRight: step.SiblingIsRight}
	}
	r.ID = wire.ID
	r.Score = wire.Score
	r.LeafHex = wire.LeafHex
	r.Path = path
	return nil
}

// Query scores every document in p against req.Vec by cosine
// similarity and returns up to k results sorted by score descending,
// breaking ties by insertion order. An empty pack always returns zero
// results. req.Vec's length must equal p.Dim.
func (p *Pack) Query(req QueryRequest, k int) ([]Result, error) {
	if len(p.ids) == 0 {
		return nil, nil
	}
	if len(req.Vec) != int(p.Dim) {
		return nil, fmt.Errorf("index: %w: query vec length %d, pack dim %d", ublerr.ErrDimMismatch, len(req.Vec), p.Dim)
	}
	if k < 0 {
		k = 0
	}

	type scored struct {
		idx   int
		score float32
	}
	scores := make([]scored, len(p.ids))
	for i, v := range p.vecs {
		scores[i] = scored{idx: i, score: cosine(req.Vec, v)}
	}
	sort.Slice(scores, func(i, j int) bool {
		if c := cmp.Compare(scores[j].score, scores[i].score); c != 0 {
			return c < 0
		}
		return scores[i].idx < scores[j].idx
	})
	if k > len(scores) {
		k = len(scores)
	}

	results := make([]Result, 0, k)
	for _, s := range scores[:k] {
		path, err := proveLeaf(p.leaves, s.idx)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{
			ID:      p.ids[s.idx],
			Score:   s.score,
			LeafHex: p.leaves[s.idx].String(),
			Path:    path,
		})
	}
	return results, nil
}

// cosine returns the cosine similarity of a and b, or 0 if either is
// the zero vector.
func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// vectorFromPayload decodes dim little-endian float32 values from payload.
func vectorFromPayload(payload []byte, dim uint16) ([]float32, error) {
	v := make([]float32, dim)
	for i := range v {
		bits := binary.LittleEndian.Uint32(payload[i*4 : i*4+4])
		v[i] = math.Float32frombits(bits)
	}
	return v, nil
}
