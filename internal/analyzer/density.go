package analyzer

import (
	"bytes"
	"encoding/binary"
	"math"
)

var (
	jfifIdentifier = []byte("JFIF\x00")
	pngSignature   = []byte("\x89PNG\r\n\x1a\n")
)

// readDensity returns the horizontal pixel density in DPI when the container declares one
func readDensity(format string, data []byte) *uint {
	switch format {
	case "jpeg":
		return jpegDensity(data)
	case "png":
		return pngDensity(data)
	}
	return nil
}

// jpegDensity reads the JFIF APP0 segment
func jpegDensity(data []byte) *uint {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return nil
		}
		marker := data[pos+1]
		if marker == 0xFF {
			pos++
			continue
		}
		// Standalone markers carry no length
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD8) {
			pos += 2
			continue
		}
		if marker == 0xDA || marker == 0xD9 {
			return nil
		}
		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if length < 2 || pos+2+length > len(data) {
			return nil
		}
		segment := data[pos+4 : pos+2+length]
		if marker == 0xE0 && len(segment) >= 12 && bytes.Equal(segment[:5], jfifIdentifier) {
			units := segment[7]
			x := float64(binary.BigEndian.Uint16(segment[8:10]))
			switch units {
			case 1:
				return densityValue(x)
			case 2:
				return densityValue(x * 2.54)
			}
			return nil
		}
		pos += 2 + length
	}
	return nil
}

// pngDensity reads the pHYs chunk, which must precede the first IDAT
func pngDensity(data []byte) *uint {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		chunkType := string(data[pos+4 : pos+8])
		start := pos + 8
		if length < 0 || start+length+4 > len(data) {
			return nil
		}
		switch chunkType {
		case "pHYs":
			if length < 9 {
				return nil
			}
			ppuX := float64(binary.BigEndian.Uint32(data[start : start+4]))
			if data[start+8] == 1 {
				return densityValue(ppuX * 0.0254)
			}
			return nil
		case "IDAT", "IEND":
			return nil
		}
		pos = start + length + 4
	}
	return nil
}

func densityValue(v float64) *uint {
	if v <= 0 {
		return nil
	}
	d := uint(math.Round(v))
	return &d
}
