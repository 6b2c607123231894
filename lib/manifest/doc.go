// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest reads and writes the editable manifest files that
// sit between extraction and re-creation of an asset.
//
// Extract commands write a manifest (JSON by default, CBOR with
// --format cbor) alongside the extracted payload files; create
// commands read the manifest back and rebuild the binary asset. The
// JSON writer is deterministic so that extracting the same asset
// twice produces byte-identical manifests, and the reader tolerates
// JSONC extensions (// comments, /* block comments */, trailing
// commas) so hand-edited manifests survive.
//
// Manifests optionally embed an Integrity block: BLAKE3 keyed digests
// of the extracted payload files, domain-separated so a digest from
// one context can never collide with another. Verify commands use it
// to detect payloads edited without updating the manifest.
package manifest
