package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAndDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		want     string
		encoding string
	}{
		{"empty", nil, "", EncodingUTF8},
		{"plain utf-8", []byte("NAMA;Jurusan"), "NAMA;Jurusan", EncodingUTF8},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "NO;NAME"...), "NO;NAME", EncodingUTF8BOM},
		{"latin-1", []byte{'J', 'o', 's', 0xE9}, "José", EncodingLatin1},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'A', 0x00, ';', 0x00, 'B', 0x00}, "A;B", EncodingUTF16LE},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0x00, 'A', 0x00, ';', 0x00, 'B'}, "A;B", EncodingUTF16BE},
		{"utf-16le odd length", []byte{0xFF, 0xFE, 'A', 0x00, 'B'}, "A", EncodingUTF16LE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := DetectAndDecode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.encoding, enc)
		})
	}
}
