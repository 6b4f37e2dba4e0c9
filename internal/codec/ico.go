package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
)

// encodeICO writes img as a single-entry icon whose payload is a PNG stream.
// Edges of 256 are stored as 0 in the directory entry.
func encodeICO(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > icoMaxEdge || b.Dy() > icoMaxEdge || b.Dx() < 1 || b.Dy() < 1 {
		return fmt.Errorf("icon size %dx%d outside 1..%d", b.Dx(), b.Dy(), icoMaxEdge)
	}
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return err
	}

	header := make([]byte, icoHeaderSize+icoEntrySize)
	binary.LittleEndian.PutUint16(header[2:], 1) // type: icon
	binary.LittleEndian.PutUint16(header[4:], 1) // image count
	entry := header[icoHeaderSize:]
	entry[0] = icoEdgeByte(b.Dx())
	entry[1] = icoEdgeByte(b.Dy())
	binary.LittleEndian.PutUint16(entry[4:], 1)  // colour planes
	binary.LittleEndian.PutUint16(entry[6:], 32) // bits per pixel
	binary.LittleEndian.PutUint32(entry[8:], uint32(payload.Len()))
	binary.LittleEndian.PutUint32(entry[12:], icoHeaderSize+icoEntrySize)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

func icoEdgeByte(edge int) byte {
	if edge >= icoMaxEdge {
		return 0
	}
	return byte(edge)
}

// icoPNGPayload returns the PNG stream of the first entry when data is an
// icon written the way encodeICO writes them.
func icoPNGPayload(data []byte) ([]byte, bool) {
	if len(data) < icoHeaderSize+icoEntrySize || binary.LittleEndian.Uint16(data[0:]) != 0 || binary.LittleEndian.Uint16(data[2:]) != 1 {
		return nil, false
	}
	entry := data[icoHeaderSize:]
	size := int(binary.LittleEndian.Uint32(entry[8:]))
	offset := int(binary.LittleEndian.Uint32(entry[12:]))
	if offset < icoHeaderSize+icoEntrySize || size <= 0 || offset+size > len(data) {
		return nil, false
	}
	payload := data[offset : offset+size]
	if !bytes.HasPrefix(payload, pngSignature) {
		return nil, false
	}
	return payload, true
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")
