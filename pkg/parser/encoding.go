package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// Encoding names reported by DetectAndDecode.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
	EncodingLatin1  = "latin-1"
)

// BOM constants
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectAndDecode detects the encoding of the input data, strips any BOM,
// and returns the decoded UTF-8 bytes along with the detected encoding name.
//
// Roster exports come out of spreadsheet tools either as UTF-8 (with or
// without BOM) or as Latin-1; UTF-16 is accepted when a BOM announces it.
func DetectAndDecode(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, EncodingUTF8, nil
	}

	if bytes.HasPrefix(data, bomUTF8) {
		return data[3:], EncodingUTF8BOM, nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		decoded, err := decodeUTF16(xunicode.LittleEndian, data[2:])
		if err != nil {
			return nil, "", fmt.Errorf("UTF-16 LE decode failed: %w", err)
		}
		return decoded, EncodingUTF16LE, nil
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		decoded, err := decodeUTF16(xunicode.BigEndian, data[2:])
		if err != nil {
			return nil, "", fmt.Errorf("UTF-16 BE decode failed: %w", err)
		}
		return decoded, EncodingUTF16BE, nil
	}

	if utf8.Valid(data) {
		return data, EncodingUTF8, nil
	}

	// Not UTF-8: every byte sequence is valid Latin-1.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("latin-1 decode failed: %w", err)
	}
	return decoded, EncodingLatin1, nil
}

// decodeUTF16 converts a BOM-less UTF-16 stream to UTF-8. Unpaired
// surrogates become U+FFFD.
func decodeUTF16(endianness xunicode.Endianness, data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		// Truncate the last byte if odd length
		data = data[:len(data)-1]
	}
	return xunicode.UTF16(endianness, xunicode.IgnoreBOM).NewDecoder().Bytes(data)
}
