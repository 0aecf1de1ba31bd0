package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	c := Cursor{
		TxDate:    time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "0b6f7c1e-9a43-4d55-9d8e-0e0d6c2b4b11",
	}

	token := EncodeCursor(c)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, c.TxDate.Equal(decoded.TxDate))
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt), "nanoseconds survive the round trip")
	assert.Equal(t, c.ID, decoded.ID)
}

func TestDecodeCursor_ZeroTimes(t *testing.T) {
	decoded, err := DecodeCursor(EncodeCursor(Cursor{ID: "x"}))
	require.NoError(t, err)
	assert.True(t, decoded.TxDate.IsZero())
	assert.True(t, decoded.CreatedAt.IsZero())
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := map[string]string{
		"not base64":  "%%%",
		"missing id":  base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z")),
		"empty id":    base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|")),
		"bad tx date": base64.URLEncoding.EncodeToString([]byte("yesterday|2023-05-15T00:00:00Z|id")),
		"bad created": base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|later|id")),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCursor(token)
			assert.Error(t, err)
		})
	}
}
