// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pdb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Cache file layout, little-endian:
//
//	magic "ACPD" | version u16 | space name (u16 len + bytes)
//	| move set name (u16 len + bytes) | cardinality u64
//	| max depth u8 | complete u8 | built-at unix u64
//	| payload u64 len + nibble bytes | payload crc32 u32
var cacheMagic = [4]byte{'A', 'C', 'P', 'D'}

const cacheVersion uint16 = 1

// CachePath returns the canonical cache file name for a space and move
// set under dir.
func CachePath(dir, spaceName, moveSetName string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.pdb", spaceName, moveSetName))
}

// Save writes the table to path atomically: the bytes go to a temp file
// in the same directory, then a rename swaps it into place. A crash
// mid-write leaves either the old file or a stray temp file, never a
// truncated cache.
func Save(t *Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := writeTable(w, t); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush cache %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync cache %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename cache into place: %w", err)
	}
	return nil
}

// Load reads a table from path and validates it against the transitions
// it is supposed to serve. Structural damage returns ErrCacheCorrupt; a
// valid file built for a different space or move set returns
// ErrCacheMismatch. Either way the caller should rebuild.
func Load(path string, tr Transitions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readTable(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	space, set := tr.Space(), tr.Set()
	if t.SpaceName != space.Name() || t.MoveSetName != set.Name {
		return nil, fmt.Errorf("%w: %s holds %s/%s, want %s/%s",
			ErrCacheMismatch, path, t.SpaceName, t.MoveSetName, space.Name(), set.Name)
	}
	if t.Cardinality != space.Size() {
		return nil, fmt.Errorf("%w: %s cardinality %d, want %d",
			ErrCacheMismatch, path, t.Cardinality, space.Size())
	}
	t.space = space
	return t, nil
}

func writeTable(w io.Writer, t *Table) error {
	if _, err := w.Write(cacheMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, cacheVersion); err != nil {
		return err
	}
	if err := writeString(w, t.SpaceName); err != nil {
		return err
	}
	if err := writeString(w, t.MoveSetName); err != nil {
		return err
	}
	complete := uint8(0)
	if t.Complete {
		complete = 1
	}
	for _, v := range []any{
		uint64(t.Cardinality), t.MaxDepth, complete, uint64(t.BuiltAt.Unix()),
		uint64(len(t.data)),
	} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if _, err := w.Write(t.data); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, crc32.ChecksumIEEE(t.data))
}

func readTable(r io.Reader) (*Table, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrCacheCorrupt)
	}
	if magic != cacheMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCacheCorrupt)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrCacheCorrupt)
	}
	if version != cacheVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCacheCorrupt, version)
	}

	t := &Table{}
	var err error
	if t.SpaceName, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: space name", ErrCacheCorrupt)
	}
	if t.MoveSetName, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: move set name", ErrCacheCorrupt)
	}

	var cardinality, builtAt, payloadLen uint64
	var complete uint8
	for _, p := range []any{&cardinality, &t.MaxDepth, &complete, &builtAt, &payloadLen} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return nil, fmt.Errorf("%w: short header", ErrCacheCorrupt)
		}
	}
	t.Cardinality = int(cardinality)
	t.Complete = complete != 0
	t.BuiltAt = time.Unix(int64(builtAt), 0)

	if payloadLen != uint64(t.Cardinality+1)/2 {
		return nil, fmt.Errorf("%w: payload length %d for cardinality %d",
			ErrCacheCorrupt, payloadLen, t.Cardinality)
	}
	t.data = make([]byte, payloadLen)
	if _, err := io.ReadFull(r, t.data); err != nil {
		return nil, fmt.Errorf("%w: short payload", ErrCacheCorrupt)
	}
	var sum uint32
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("%w: missing checksum", ErrCacheCorrupt)
	}
	if sum != crc32.ChecksumIEEE(t.data) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCacheCorrupt)
	}
	return t, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
