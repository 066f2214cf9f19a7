package dominance

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
)

// Encode serialises t as a zlib-compressed stream of int64 values: n
// followed by the n*n row-major table, all little-endian. The wire format
// itself (zlib-compressed binary) is pinned by spec.md §6.
func Encode(t *TableDominance) ([]byte, error) {
	var raw bytes.Buffer
	if err := binary.Write(&raw, binary.LittleEndian, int64(t.n)); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "encoding dominance table size", err)
	}
	if err := binary.Write(&raw, binary.LittleEndian, t.data); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "encoding dominance table", err)
	}

	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "compressing dominance table", err)
	}
	if err := zw.Close(); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "closing dominance table writer", err)
	}
	return out.Bytes(), nil
}

// Decode reverses Encode.
func Decode(compressed []byte) (*TableDominance, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, perr.Wrap(perr.InputFormat, "opening compressed dominance table", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, perr.Wrap(perr.InputFormat, "decompressing dominance table", err)
	}

	r := bytes.NewReader(raw)
	var n int64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "reading dominance table size", err)
	}
	t, err := NewTableDominance(int(n))
	if err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &t.data); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "reading dominance table body", err)
	}
	return t, nil
}
