package importer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/moneybox/internal/importer"
)

func TestDecode(t *testing.T) {
	const text = "Descrição;Montante\nCafé;12,50\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		wantCharset string
	}{
		{
			name:        "utf-8 passthrough",
			input:       []byte(text),
			wantCharset: "UTF-8",
		},
		{
			name:        "utf-8 bom is stripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, text...),
			wantCharset: "UTF-8",
		},
		{
			name:        "utf-16 with bom",
			input:       utf16,
			wantCharset: "UTF-16LE",
		},
		{
			name:  "single byte latin",
			input: latin1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := importer.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, text, string(got))
		})
	}
}

func TestDecode_MultiByteRuneAcrossPeekWindow(t *testing.T) {
	// "ç" straddles the 4096 byte sniff boundary.
	input := strings.Repeat("a", 4095) + "ç\n"

	r, charset, err := importer.Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestDecode_Empty(t *testing.T) {
	r, _, err := importer.Decode(strings.NewReader(""))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
