package packset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Binary wire format for cached package sets. Every string and every
// collection is length-prefixed with a uvarint, so a truncated or torn
// write fails to decode instead of yielding a partial set.
//
//	magic   "PSET"
//	version uvarint (currently 1)
//	count   uvarint
//	records count times: name, version, repo, depCount, deps...
var (
	codecMagic = []byte("PSET")

	// ErrBadPayload is returned by Decode for payloads that are not a
	// well-formed package-set blob (wrong magic, unknown version,
	// truncation, or trailing garbage).
	ErrBadPayload = errors.New("malformed package set payload")
)

const codecVersion = 1

// maxStringLen bounds decoded string lengths so corrupt blobs cannot
// force huge allocations.
const maxStringLen = 1 << 20

// Encode serializes the set to its binary cache representation.
// Records are written in lexicographic name order so encoding is
// deterministic for a given set.
func Encode(set PackageSet) []byte {
	var buf bytes.Buffer
	buf.Write(codecMagic)
	writeUvarint(&buf, codecVersion)
	writeUvarint(&buf, uint64(len(set)))

	for _, name := range set.Names() {
		rec := set[name]
		writeString(&buf, rec.Name)
		writeString(&buf, rec.Version)
		writeString(&buf, rec.Repo)
		writeUvarint(&buf, uint64(len(rec.Dependencies)))
		for _, dep := range rec.Dependencies {
			writeString(&buf, dep)
		}
	}
	return buf.Bytes()
}

// Decode parses a binary blob produced by [Encode].
func Decode(data []byte) (PackageSet, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(codecMagic))
	if _, err := io.ReadFull(r, magic); err != nil || !bytes.Equal(magic, codecMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrBadPayload)
	}

	version, err := binary.ReadUvarint(r)
	if err != nil || version != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version", ErrBadPayload)
	}

	count, err := binary.ReadUvarint(r)
	if err != nil || count > math.MaxInt32 {
		return nil, fmt.Errorf("%w: bad record count", ErrBadPayload)
	}

	set := make(PackageSet, count)
	for n := uint64(0); n < count; n++ {
		var rec PackageRecord
		if rec.Name, err = readString(r); err != nil {
			return nil, err
		}
		if rec.Version, err = readString(r); err != nil {
			return nil, err
		}
		if rec.Repo, err = readString(r); err != nil {
			return nil, err
		}
		depCount, err := binary.ReadUvarint(r)
		if err != nil || depCount > math.MaxInt32 {
			return nil, fmt.Errorf("%w: bad dependency count", ErrBadPayload)
		}
		if depCount > 0 {
			rec.Dependencies = make([]string, 0, depCount)
			for n := uint64(0); n < depCount; n++ {
				dep, err := readString(r)
				if err != nil {
					return nil, err
				}
				rec.Dependencies = append(rec.Dependencies, dep)
			}
		}
		set[rec.Name] = rec
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadPayload, r.Len())
	}
	return set, nil
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil || n > maxStringLen {
		return "", fmt.Errorf("%w: bad string length", ErrBadPayload)
	}
	if n == 0 {
		return "", nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%w: truncated string", ErrBadPayload)
	}
	return string(b), nil
}
