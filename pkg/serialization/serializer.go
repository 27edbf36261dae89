// Package serialization turns edge sets into compact blobs for the record
// stores. A Serializer pairs a Codec (msgpack or JSON) with a compression
// scheme (none, gzip or zstd).
package serialization

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrUnknownCodec       = errors.New("unknown codec")
	ErrUnknownCompression = errors.New("unknown compression")
)

// Codec encodes values to bytes and back.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Name() string
}

// Compression names a compression scheme.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Serializer encodes then compresses.
type Serializer struct {
	codec       Codec
	compression Compression
}

// New creates a serializer. An empty compression means CompressionNone.
func New(codec Codec, compression Compression) (*Serializer, error) {
	if codec == nil {
		return nil, ErrUnknownCodec
	}
	if compression == "" {
		compression = CompressionNone
	}
	switch compression {
	case CompressionNone, CompressionGzip, CompressionZstd:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, compression)
	}
	return &Serializer{codec: codec, compression: compression}, nil
}

// Default is msgpack with zstd, the format the stores write unless told
// otherwise.
func Default() *Serializer {
	return &Serializer{codec: MsgPackCodec{}, compression: CompressionZstd}
}

// ParseFormat builds a serializer from a "codec+compression" string such as
// "msgpack+zstd" or "json". It is the inverse of Format.
func ParseFormat(format string) (*Serializer, error) {
	name, comp, _ := strings.Cut(format, "+")
	codec, err := CodecByName(name)
	if err != nil {
		return nil, err
	}
	return New(codec, Compression(comp))
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "msgpack":
		return MsgPackCodec{}, nil
	case "json":
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Format describes the wire format, e.g. "msgpack+zstd".
func (s *Serializer) Format() string {
	if s.compression == CompressionNone {
		return s.codec.Name()
	}
	return s.codec.Name() + "+" + string(s.compression)
}

// Serialize encodes and compresses v.
func (s *Serializer) Serialize(v any) ([]byte, error) {
	data, err := s.codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%s encoding failed: %w", s.codec.Name(), err)
	}

	data, err = s.compress(data)
	if err != nil {
		return nil, fmt.Errorf("%s compression failed: %w", s.compression, err)
	}
	return data, nil
}

// Deserialize decompresses data and decodes it into v.
func (s *Serializer) Deserialize(data []byte, v any) error {
	data, err := s.decompress(data)
	if err != nil {
		return fmt.Errorf("%s decompression failed: %w", s.compression, err)
	}

	if err := s.codec.Decode(data, v); err != nil {
		return fmt.Errorf("%s decoding failed: %w", s.codec.Name(), err)
	}
	return nil
}

func (s *Serializer) compress(data []byte) ([]byte, error) {
	switch s.compression {
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return data, nil
	}
}

func (s *Serializer) decompress(data []byte) ([]byte, error) {
	switch s.compression {
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	default:
		return data, nil
	}
}

// JSONCodec encodes with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }
func (JSONCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSONCodec) Name() string { return "json" }

// MsgPackCodec encodes with MessagePack.
type MsgPackCodec struct{}

func (MsgPackCodec) Encode(v any) ([]byte, error) { return msgpack.Marshal(v) }
func (MsgPackCodec) Decode(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MsgPackCodec) Name() string { return "msgpack" }
