// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package sarc

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Layout constants. Sizes include the magic and length fields.
const (
	sarcHeaderSize = 0x14
	sfatHeaderSize = 0x0C
	sfatNodeSize   = 0x10
	sfntHeaderSize = 0x08

	sarcVersion = 0x0100

	// DefaultHashKey is the SFAT multiplicative hash key every known
	// archive uses. The key is stored per-archive, so a nonstandard
	// one still round-trips.
	DefaultHashKey = 0x65

	// nodeHasName flags an SFAT node whose low attribute bits hold
	// the name table offset (in 4-byte units).
	nodeHasName = 0x01000000
)

// File is one archive member. Name uses forward slashes regardless of
// host OS. An unnamed member (seen in some audio archives) has an
// empty Name and keeps its raw Hash instead.
type File struct {
	Name string
	Hash uint32
	Data []byte
}

// Archive is a decoded SARC.
type Archive struct {
	Order   binary.ByteOrder
	HashKey uint32

	// Alignment is the data alignment applied to each member when
	// encoding. Zero means the default of 4; textures packed for the
	// GPU typically need more.
	Alignment int

	Files []File
}

// New returns an empty little-endian archive with the standard hash
// key.
func New(order binary.ByteOrder) *Archive {
	return &Archive{Order: order, HashKey: DefaultHashKey}
}

// Add appends a named member.
func (a *Archive) Add(name string, data []byte) {
	a.Files = append(a.Files, File{Name: name, Data: data})
}

// Lookup returns the member with the given name.
func (a *Archive) Lookup(name string) (*File, bool) {
	for i := range a.Files {
		if a.Files[i].Name == name {
			return &a.Files[i], true
		}
	}
	return nil, false
}

// NameHash computes the SFAT name hash: a left-to-right multiplicative
// hash over the name's bytes.
func NameHash(name string, key uint32) uint32 {
	var hash uint32
	for i := 0; i < len(name); i++ {
		hash = hash*key + uint32(name[i])
	}
	return hash
}

// hash returns the node hash for a member: the stored Hash for
// unnamed members, the name hash otherwise.
func (f *File) hash(key uint32) uint32 {
	if f.Name == "" {
		return f.Hash
	}
	return NameHash(f.Name, key)
}

// alignment returns the effective member data alignment.
func (a *Archive) alignment() int {
	if a.Alignment <= 0 {
		return 4
	}
	return a.Alignment
}

// Extract writes every member under dir, creating intermediate
// directories. Member names that would escape dir (absolute paths,
// ".." elements, empty names) are rejected before anything is
// written.
func (a *Archive) Extract(dir string) error {
	for i := range a.Files {
		if _, err := memberPath(dir, a.Files[i].Name); err != nil {
			return err
		}
	}
	for i := range a.Files {
		path, err := memberPath(dir, a.Files[i].Name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", a.Files[i].Name, err)
		}
		if err := os.WriteFile(path, a.Files[i].Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Files[i].Name, err)
		}
	}
	return nil
}

// memberPath resolves an archive member name to a path under dir,
// rejecting names that would escape it.
func memberPath(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("archive member has no name (hash-only entries cannot be extracted)")
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("archive member name %q is absolute", name)
	}
	for _, element := range strings.Split(name, "/") {
		if element == ".." {
			return "", fmt.Errorf("archive member name %q escapes the output directory", name)
		}
	}
	return filepath.Join(dir, filepath.FromSlash(name)), nil
}
