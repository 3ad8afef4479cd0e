package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

	token := EncodeCursor(createdAt, 42)
	require.NotEmpty(t, token)

	gotAt, gotID, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotAt))
	assert.Equal(t, int64(42), gotID)
}

func TestDecodeCursor_InvalidBase64(t *testing.T) {
	_, _, err := DecodeCursor("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestDecodeCursor_MissingSeparator(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("2025-03-14T09:26:53Z"))
	_, _, err := DecodeCursor(token)
	assert.Error(t, err)
}

func TestDecodeCursor_BadID(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("2025-03-14T09:26:53Z|abc"))
	_, _, err := DecodeCursor(token)
	assert.Error(t, err)
}

func TestDecodeCursor_BadTime(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("yesterday|7"))
	_, _, err := DecodeCursor(token)
	assert.Error(t, err)
}
