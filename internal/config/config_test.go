package config

import (
	"image"
	"io"
	"testing"
	"time"

	"github.com/drummonds/gokiosk/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	c, err := Parse(nil, env(nil), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.ServerURL)
	assert.Equal(t, SourceUploads, c.Source)
	assert.Equal(t, DisplayEbiten, c.Display)
	assert.Equal(t, 5*time.Second, c.Interval)
	assert.Equal(t, 30*time.Millisecond, c.FrameDelay)
	assert.Equal(t, 10*time.Second, c.FetchTimeout)
	assert.Equal(t, 5*time.Second, c.NotifyTimeout)
	assert.Equal(t, notify.ModeQueue, c.NotifyMode)
	assert.Equal(t, image.Pt(1000, 700), c.WindowSize)
	assert.True(t, c.Fullscreen)
	assert.True(t, c.HideCursor)
	assert.False(t, c.Autostart)
	assert.Empty(t, c.WebAddr)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	c, err := Parse([]string{"--server", "http://kiosk:9000", "--interval", "2s", "--notify-mode", "latest"},
		env(map[string]string{"KIOSK_SERVER": "http://other:5000", "KIOSK_INTERVAL": "7s", "KIOSK_AUTOSTART": "true"}),
		io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "http://kiosk:9000", c.ServerURL)
	assert.Equal(t, 2*time.Second, c.Interval)
	assert.Equal(t, notify.ModeLatest, c.NotifyMode)
	assert.True(t, c.Autostart)

	opts := c.NotifyOptions()
	assert.Equal(t, notify.ModeLatest, opts.Mode)
	assert.Equal(t, notify.DefaultQueueSize, opts.QueueSize)
}

func TestPhotoPrismSource(t *testing.T) {
	e := env(map[string]string{
		"PHOTOPRISM_DOMAIN": "https://photos.example.com",
		"PHOTOPRISM_TOKEN":  "secret",
		"ALBUM_UID":         "aq8i",
	})
	c, err := Parse([]string{"--source", "photoprism"}, e, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "https://photos.example.com", c.PhotoPrismDomain)
	assert.Equal(t, "secret", c.PhotoPrismToken)
	assert.Equal(t, "aq8i", c.AlbumUID)

	_, err = Parse([]string{"--source", "photoprism", "--album", ""}, e, io.Discard)
	assert.Error(t, err)
}

func TestInvalid(t *testing.T) {
	for name, args := range map[string][]string{
		"source":      {"--source", "ftp"},
		"display":     {"--display", "vga"},
		"server":      {"--server", "localhost:5000"},
		"interval":    {"--interval", "0s"},
		"frame delay": {"--frame-delay", "-1s"},
		"width":       {"--width", "0"},
		"notify mode": {"--notify-mode", "sometimes"},
		"unknown":     {"--colour", "red"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(args, env(nil), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestBadEnvironment(t *testing.T) {
	_, err := Parse(nil, env(map[string]string{"KIOSK_INTERVAL": "soon"}), io.Discard)
	assert.ErrorContains(t, err, "KIOSK_INTERVAL")

	_, err = Parse(nil, env(map[string]string{"KIOSK_FULLSCREEN": "maybe"}), io.Discard)
	assert.ErrorContains(t, err, "KIOSK_FULLSCREEN")
}
