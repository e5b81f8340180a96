// Package rom loads and saves pre-encoded program images.
//
// An image is the raw instruction byte stream. Images may optionally be
// stored as a zstd frame, which Load detects by its magic number.
package rom

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/ezrec/regvm/memory"
	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	ErrImageCorrupt = errors.New(f("image corrupt"))
)

// ZSTD_MAGIC starts every zstd frame.
var ZSTD_MAGIC = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Load reads a program image, decompressing it if needed.
func Load(r io.Reader) (data []byte, err error) {
	data, err = io.ReadAll(r)
	if err != nil {
		return
	}

	if !bytes.HasPrefix(data, ZSTD_MAGIC) {
		return
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return
	}
	defer decoder.Close()

	data, err = decoder.DecodeAll(data, nil)
	if err != nil {
		data = nil
		err = errors.Join(ErrImageCorrupt, err)
		return
	}

	return
}

// Save writes a program image, optionally compressed.
func Save(w io.Writer, data []byte, compress bool) (err error) {
	if compress {
		var encoder *zstd.Encoder
		encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return
		}
		defer encoder.Close()
		data = encoder.EncodeAll(data, nil)
	}

	_, err = w.Write(data)
	return
}

// LoadMemory reads a program image into a new memory of size bytes.
// The image must fit.
func LoadMemory(r io.Reader, size uint32) (mem *memory.Memory, err error) {
	data, err := Load(r)
	if err != nil {
		return
	}

	mem = memory.NewMemory(size)
	_, err = mem.Write(0, data)
	if err != nil {
		mem = nil
		return
	}

	return
}

// Image returns the first length bytes of a program memory.
func Image(mem *memory.Memory, length uint32) (data []byte, err error) {
	data = make([]byte, length)
	err = mem.Read(0, data)
	if err != nil {
		data = nil
		return
	}

	return
}
