// Package persistence snapshots a store.Keyspace to disk and reloads it at
// startup, using a versioned, checksummed record format.
package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc64"
	"io"
	"math"
	"os"

	"redgo/internal/store"
)

// File format constants, extending the teacher's RDB layout with a ZSet
// type code in place of its unused Bloom-filter/quicklist codes.
const (
	fileVersion = 1
	magicString = "REDIS"

	opEOF          = 0xFF
	opSelectDB     = 0xFE
	opExpireTimeMS = 0xFC
	opResizeDB     = 0xFB
	opAux          = 0xFA

	typeString = 0
	typeList   = 1
	typeSet    = 2
	typeZSet   = 3
	typeHash   = 4
)

var checksumTable = crc64.MakeTable(crc64.ECMA)

// Save writes every entry of snapshot to path, via a temp file that is
// fsynced and renamed into place so a crash mid-write never corrupts the
// existing file.
func Save(path string, snapshot []store.SnapshotEntry) error {
	tempPath := path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("persistence: create temp file: %w", err)
	}

	bw := bufio.NewWriter(file)
	hasher := crc64.New(checksumTable)
	out := io.MultiWriter(bw, hasher)

	if err := writeHeader(out); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	out.Write([]byte{opSelectDB, 0})
	out.Write([]byte{opResizeDB})
	writeLength(out, len(snapshot))
	writeLength(out, 0)

	for _, entry := range snapshot {
		if err := writeEntry(out, entry); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("persistence: write key %q: %w", entry.Key, err)
		}
	}

	out.Write([]byte{opEOF})
	binary.Write(bw, binary.LittleEndian, hasher.Sum64())

	if err := bw.Flush(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("persistence: flush: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("persistence: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("persistence: close: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("persistence: rename into place: %w", err)
	}
	return nil
}

func writeHeader(w io.Writer) error {
	if _, err := w.Write([]byte(magicString)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%04d", fileVersion); err != nil {
		return err
	}
	w.Write([]byte{opAux})
	writeString(w, "redgo-ver")
	writeString(w, "1.0.0")
	return nil
}

func writeEntry(w io.Writer, e store.SnapshotEntry) error {
	if e.HasTTL {
		w.Write([]byte{opExpireTimeMS})
		if err := binary.Write(w, binary.LittleEndian, e.ExpiresAt); err != nil {
			return err
		}
	}

	switch e.Type {
	case store.TypeString:
		w.Write([]byte{typeString})
		writeString(w, e.Key)
		writeString(w, e.Str)

	case store.TypeList:
		w.Write([]byte{typeList})
		writeString(w, e.Key)
		writeLength(w, len(e.List))
		for _, item := range e.List {
			writeString(w, item)
		}

	case store.TypeHash:
		w.Write([]byte{typeHash})
		writeString(w, e.Key)
		writeLength(w, len(e.Hash))
		for field, value := range e.Hash {
			writeString(w, field)
			writeString(w, value)
		}

	case store.TypeSet:
		w.Write([]byte{typeSet})
		writeString(w, e.Key)
		writeLength(w, len(e.Set))
		for _, member := range e.Set {
			writeString(w, member)
		}

	case store.TypeZSet:
		w.Write([]byte{typeZSet})
		writeString(w, e.Key)
		writeLength(w, len(e.ZSet))
		for _, m := range e.ZSet {
			writeString(w, m.Member)
			binary.Write(w, binary.LittleEndian, math.Float64bits(m.Score))
		}

	default:
		return fmt.Errorf("unknown value type %v", e.Type)
	}
	return nil
}

func writeString(w io.Writer, s string) {
	writeLength(w, len(s))
	w.Write([]byte(s))
}

// writeLength uses the teacher's 6-bit/14-bit/32-bit variable length
// encoding: the top two bits of the first byte select the width.
func writeLength(w io.Writer, length int) {
	switch {
	case length < 64:
		w.Write([]byte{byte(length)})
	case length < 16384:
		w.Write([]byte{byte(0x40 | (length >> 8)), byte(length & 0xFF)})
	default:
		w.Write([]byte{0x80})
		binary.Write(w, binary.BigEndian, uint32(length))
	}
}
