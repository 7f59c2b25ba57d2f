package encoding_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledgersync/internal/encoding"
)

func encode(t *testing.T, charset, input string) []byte {
	t.Helper()

	var buf bytes.Buffer

	w, err := encoding.NewWriter(&buf, charset)
	require.NoError(t, err)

	_, err = w.Write([]byte(input))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestNewWriter_UTF8Passthrough(t *testing.T) {
	input := "merchant,amount\nCafé,12.50\n"
	assert.Equal(t, []byte(input), encode(t, "", input))
	assert.Equal(t, []byte(input), encode(t, "UTF-8", input))
}

func TestNewWriter_UTF8BOM(t *testing.T) {
	got := encode(t, encoding.UTF8BOM, "Café")
	assert.Equal(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("Café")...), got)
}

func TestNewWriter_Windows1252(t *testing.T) {
	// In Windows-1252: é = 0xE9, ç = 0xE7.
	got := encode(t, "latin1", "Café;Açaí")
	assert.Equal(t, []byte{'C', 'a', 'f', 0xE9, ';', 'A', 0xE7, 'a', 0xED}, got)
}

func TestNewWriter_ReplacesUnsupported(t *testing.T) {
	got := encode(t, encoding.Windows1252, "a☃b")
	assert.Equal(t, []byte("a\x1ab"), got)
}

func TestNewWriter_UTF16LE(t *testing.T) {
	got := encode(t, encoding.UTF16LE, "A")
	assert.Equal(t, []byte{0xFF, 0xFE, 'A', 0x00}, got)
}

func TestNormalize(t *testing.T) {
	for _, in := range []string{"", "utf8", "UTF-8", " utf-8 "} {
		got, err := encoding.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, encoding.UTF8, got)
	}

	got, err := encoding.Normalize("cp1252")
	require.NoError(t, err)
	assert.Equal(t, encoding.Windows1252, got)

	_, err = encoding.Normalize("ebcdic")
	assert.ErrorIs(t, err, encoding.ErrUnsupportedCharset)
}
