// SPDX-License-Identifier: MIT
// Package: paramspace/decode
//
// errors.go - sentinel errors for the decode package.
//
// Error policy:
//   - Only package-level sentinels are exposed; branch with errors.Is.
//   - Context (class identity, key, index) is attached with %w at the call site.
//   - Every error here is fatal for the Decode call that produced it: no
//     partial object is returned and nothing is retried.

package decode

import "errors"

// ErrUnresolvedClass indicates that a class identity found in a value tree is
// not registered. The wrapping message names the identity.
var ErrUnresolvedClass = errors.New("decode: class not registered")

// ErrClassKey indicates a malformed class reference in a mapping: both key
// forms at once, only one half of the two-key form, a non-string identity, or
// an identity without a type name.
var ErrClassKey = errors.New("decode: malformed class reference")

// ErrConstruct indicates that a registered factory rejected its keyword arguments.
var ErrConstruct = errors.New("decode: construction failed")

// ErrDuplicateClass indicates a second registration for the same identity.
var ErrDuplicateClass = errors.New("decode: class already registered")

// ErrElemType indicates a decoded element no longer fits the element type of
// the sequence or mapping it came from (e.g. a class mapping inside a []float64).
var ErrElemType = errors.New("decode: decoded value does not fit container element type")
