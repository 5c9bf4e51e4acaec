package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

// Frame tags written as the first byte of every stored entry
const (
	frameRaw    byte = 0
	frameSnappy byte = 1
)

var errBadFrame = errors.New("cache: malformed entry")

// Codec serializes values as JSON and snappy-compresses payloads of at
// least MinCompressSize bytes
type Codec struct {
	MinCompressSize int
}

// DefaultCodec compresses anything over half a kilobyte
func DefaultCodec() Codec {
	return Codec{MinCompressSize: 512}
}

// Encode marshals v into a framed payload
func (c Codec) Encode(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cache encode: %w", err)
	}

	if c.MinCompressSize > 0 && len(raw) >= c.MinCompressSize {
		compressed := snappy.Encode(nil, raw)
		return append([]byte{frameSnappy}, compressed...), nil
	}
	return append([]byte{frameRaw}, raw...), nil
}

// Decode unmarshals a framed payload into dst
func (c Codec) Decode(data []byte, dst interface{}) error {
	if len(data) == 0 {
		return errBadFrame
	}

	payload := data[1:]
	switch data[0] {
	case frameRaw:
	case frameSnappy:
		decoded, err := snappy.Decode(nil, payload)
		if err != nil {
			return fmt.Errorf("snappy decompress failed: %w", err)
		}
		payload = decoded
	default:
		return fmt.Errorf("%w: frame %d", errBadFrame, data[0])
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}
