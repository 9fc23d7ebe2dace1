// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

package skyhook

import "fmt"

// InvariantViolation is a defect-class error: resolution reached a state its
// own pipeline guarantees cannot occur, e.g. a selected candidate with a
// provider no handle can be built for. It signals a bug in this module, not
// bad caller input.
type InvariantViolation struct {
	// Op is the operation that observed the violation
	Op string
	// Msg describes the impossible state
	Msg string
}

// Error implements the error interface
func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Msg)
}
