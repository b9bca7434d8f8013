package archive

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// payloadCodec compresses result documents. Encoder and Decoder are safe
// for concurrent EncodeAll and DecodeAll calls.
type payloadCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newPayloadCodec() (*payloadCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &payloadCodec{enc: enc, dec: dec}, nil
}

func (c *payloadCodec) compress(doc []byte) []byte {
	return c.enc.EncodeAll(doc, make([]byte, 0, len(doc)/4))
}

func (c *payloadCodec) decompress(payload []byte) ([]byte, error) {
	doc, err := c.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	return doc, nil
}

func (c *payloadCodec) close() {
	c.enc.Close()
	c.dec.Close()
}
