// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package evidence verifies index query results offline. [Verify]
// takes only a pack's CID and an [Evidence] envelope — never a *Pack,
// never a server — so a caller holding nothing but a previously
// published root can check that every result really belongs to the
// pack that produced it.
package evidence
