package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	s, err := NewSealer(key)
	require.NoError(t, err)

	sealed, err := s.Seal([]byte(`{"apiKey":"sk-test"}`))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "sk-test")

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"apiKey":"sk-test"}`, string(opened))
}

func TestOpenRejectsTampering(t *testing.T) {
	key, _ := GenerateKey()
	s, _ := NewSealer(key)
	sealed, err := s.Seal([]byte("secret"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = s.Open(sealed)
	assert.ErrorIs(t, err, ErrOpen)

	_, err = s.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestNewSealerKeyFormats(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	_, err := NewSealer(hex.EncodeToString(raw))
	assert.NoError(t, err)
	_, err = NewSealer(base64.StdEncoding.EncodeToString(raw))
	assert.NoError(t, err)

	_, err = NewSealer(hex.EncodeToString(raw[:16]))
	assert.Error(t, err)
	_, err = NewSealer("not a key!!")
	assert.Error(t, err)
}
