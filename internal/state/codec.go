package state

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Binary layout of the state file:
//
//	uvarint        entry count
//	per entry:
//	  uvarint      label length
//	  bytes        label (UTF-8)
//	  uint32 LE    width
//	  uint32 LE    height
//	  int32 LE     x
//	  int32 LE     y
//	  byte         flags (bit0 maximized, bit1 visible,
//	               bit2 decorated, bit3 fullscreen)
//
// There is no version field. Schema changes are handled by treating any
// decode failure as "no prior state". Entries are written in sorted
// label order so that encoding the same store twice yields identical
// bytes.

const (
	flagMaximized = 1 << iota
	flagVisible
	flagDecorated
	flagFullscreen
)

// maxLabelLen bounds label decoding so a corrupt length prefix cannot
// trigger a huge allocation.
const maxLabelLen = 4096

// Encode serializes the whole mapping to its binary form.
func Encode(entries map[string]Metadata) []byte {
	labels := make([]string, 0, len(entries))
	for label := range entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(scratch[:], uint64(len(labels)))
	buf.Write(scratch[:n])

	for _, label := range labels {
		md := entries[label]

		n = binary.PutUvarint(scratch[:], uint64(len(label)))
		buf.Write(scratch[:n])
		buf.WriteString(label)

		binary.LittleEndian.PutUint32(scratch[:4], md.Width)
		buf.Write(scratch[:4])
		binary.LittleEndian.PutUint32(scratch[:4], md.Height)
		buf.Write(scratch[:4])
		binary.LittleEndian.PutUint32(scratch[:4], uint32(md.X))
		buf.Write(scratch[:4])
		binary.LittleEndian.PutUint32(scratch[:4], uint32(md.Y))
		buf.Write(scratch[:4])

		var flags byte
		if md.Maximized {
			flags |= flagMaximized
		}
		if md.Visible {
			flags |= flagVisible
		}
		if md.Decorated {
			flags |= flagDecorated
		}
		if md.Fullscreen {
			flags |= flagFullscreen
		}
		buf.WriteByte(flags)
	}

	return buf.Bytes()
}

// Decode parses data back into a label to metadata mapping. Any
// malformed input (short read, oversized label, trailing bytes) is an
// error; callers fall back to an empty store.
func Decode(data []byte) (map[string]Metadata, error) {
	r := bytes.NewReader(data)

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("read entry count: %w", err)
	}
	if count > uint64(len(data)) {
		return nil, fmt.Errorf("implausible entry count %d", count)
	}

	entries := make(map[string]Metadata, count)
	for i := uint64(0); i < count; i++ {
		labelLen, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: read label length: %w", i, err)
		}
		if labelLen > maxLabelLen {
			return nil, fmt.Errorf("entry %d: label length %d exceeds limit", i, labelLen)
		}

		label := make([]byte, labelLen)
		if _, err := io.ReadFull(r, label); err != nil {
			return nil, fmt.Errorf("entry %d: read label: %w", i, err)
		}

		var fixed [17]byte
		if _, err := io.ReadFull(r, fixed[:]); err != nil {
			return nil, fmt.Errorf("entry %d: read record: %w", i, err)
		}

		flags := fixed[16]
		entries[string(label)] = Metadata{
			Width:      binary.LittleEndian.Uint32(fixed[0:4]),
			Height:     binary.LittleEndian.Uint32(fixed[4:8]),
			X:          int32(binary.LittleEndian.Uint32(fixed[8:12])),
			Y:          int32(binary.LittleEndian.Uint32(fixed[12:16])),
			Maximized:  flags&flagMaximized != 0,
			Visible:    flags&flagVisible != 0,
			Decorated:  flags&flagDecorated != 0,
			Fullscreen: flags&flagFullscreen != 0,
		}
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after last entry", r.Len())
	}
	return entries, nil
}

// LoadFile reads and decodes the state file at path into a new store.
// A missing or undecodable file yields an empty store and the error for
// the caller to log; the store is always usable.
func LoadFile(path string) (*Store, error) {
	store := NewStore()

	data, err := os.ReadFile(path)
	if err != nil {
		return store, err
	}
	entries, err := Decode(data)
	if err != nil {
		return store, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	store.Replace(entries)
	return store, nil
}

// SaveFile encodes the store and writes it to path, creating the parent
// directory if needed. The previous contents are overwritten.
func SaveFile(path string, store *Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data := Encode(store.Snapshot())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
