// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sign

// Domain is a closed set of domain-separation prefixes. A signature is
// always computed over domain || cid; verifying under the wrong domain
// fails even if the signature is otherwise valid for that key and CID.
type Domain string

const (
	// DomainFrame separates signatures over Capsule frame headers.
	DomainFrame Domain = "SIRP:FRAME:v1"

	// DomainLedger separates signatures over ledger entries and
	// Signed Facts sealing Action Atoms.
	DomainLedger Domain = "UBL:LEDGER:v1"

	// DomainProof separates signatures over Merkle evidence and
	// receipts.
	DomainProof Domain = "TDLN:PROOF:v1"
)

// message builds the signed byte sequence domain || cid for a domain
// and a 32-byte CID.
func message(domain Domain, cidBytes []byte) []byte {
	out := make([]byte, 0, len(domain)+len(cidBytes))
	out = append(out, domain...)
	out = append(out, cidBytes...)
	return out
}
