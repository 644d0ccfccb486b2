package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
)

// Encoding is the container format of a serialized catalog
type Encoding int

const (
	// EncodingJSON is a plain JSON array of entries
	EncodingJSON Encoding = iota
	// EncodingGzip is gzip-compressed JSON (.gz)
	EncodingGzip
	// EncodingSnappy is snappy framed-stream JSON (.sz)
	EncodingSnappy
)

func (e Encoding) String() string {
	switch e {
	case EncodingGzip:
		return "gzip"
	case EncodingSnappy:
		return "snappy"
	default:
		return "json"
	}
}

// EncodingFor picks the encoding from a file name or object key
func EncodingFor(name string) Encoding {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return EncodingGzip
	case strings.HasSuffix(name, ".sz"):
		return EncodingSnappy
	default:
		return EncodingJSON
	}
}

// Decode reads a JSON array of entries in the given encoding
func Decode(r io.Reader, enc Encoding) ([]MatchEntry, error) {
	switch enc {
	case EncodingGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	case EncodingSnappy:
		r = snappy.NewReader(r)
	}

	var entries []MatchEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", enc, err)
	}
	return entries, nil
}

// Encode writes entries as a JSON array in the given encoding
func Encode(w io.Writer, enc Encoding, entries []MatchEntry) error {
	var (
		out    io.Writer = w
		closer io.Closer
	)
	switch enc {
	case EncodingGzip:
		zw := gzip.NewWriter(w)
		out, closer = zw, zw
	case EncodingSnappy:
		sw := snappy.NewBufferedWriter(w)
		out, closer = sw, sw
	}

	if err := json.NewEncoder(out).Encode(entries); err != nil {
		return fmt.Errorf("encode %s catalog: %w", enc, err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("flush %s catalog: %w", enc, err)
		}
	}
	return nil
}
