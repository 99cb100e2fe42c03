package photoprism

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/drummonds/gokiosk/internal/remote"
	"github.com/drummonds/gokiosk/internal/store"
	"github.com/drummonds/photoprism-go-api/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstJpeg(t *testing.T) {
	var files []api.EntityFile
	require.NoError(t, json.Unmarshal([]byte(`[
		{"Hash": "aaa", "Mime": "image/png"},
		{"Hash": "bbb", "Mime": "image/jpeg", "Orientation": 6},
		{"Hash": "ccc", "Mime": "image/jpeg"}
	]`), &files))

	f, ok := firstJpeg(files)
	require.True(t, ok)
	assert.Equal(t, "bbb", *f.Hash)
	assert.Equal(t, 6, *f.Orientation)

	_, ok = firstJpeg(files[:1])
	assert.False(t, ok)
	_, ok = firstJpeg(nil)
	assert.False(t, ok)
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, checkStatus("search", "album", &http.Response{StatusCode: 200}))

	err := checkStatus("download", "pq1", &http.Response{StatusCode: 404})
	var se *remote.HTTPStatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 404, se.StatusCode)
	assert.Equal(t, "download", se.Op)

	var ne *remote.NetworkError
	assert.True(t, errors.As(checkStatus("photo", "pq1", nil), &ne))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", "token", "album", nil)
	assert.Error(t, err)

	c, err := NewClient("http://photos.local:2342", "token", "album", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Orientation("unknown"))
}

func TestClientIsARepository(t *testing.T) {
	var repo store.Repository = &Client{}
	_, ok := repo.(store.Orienter)
	assert.True(t, ok)
}
