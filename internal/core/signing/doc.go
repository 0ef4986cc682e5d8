// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package signing signs and verifies byte streams with one of two schemes:
// a BLAKE3 keyed hash (symmetric, 32-byte key, 32-byte tag) or Ed25519
// (asymmetric, 32-byte seed and public key, 64-byte signature).
//
// Each scheme has its own key types, so a key loaded for one scheme cannot be
// handed to the other. The Process* functions dispatch on a Scheme once and
// return raw bytes; text encoding of signatures is left to the caller.
// Nothing here keeps state between calls.
package signing
