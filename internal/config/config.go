// Package config reads the kiosk settings. Environment variables give the
// defaults and command line flags override them.
package config

import (
	"fmt"
	"image"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/drummonds/gokiosk/internal/frame"
	"github.com/drummonds/gokiosk/internal/notify"
	"github.com/drummonds/gokiosk/internal/presentation"
	"github.com/drummonds/gokiosk/internal/remote"
	"github.com/spf13/pflag"
)

const (
	SourceUploads    = "uploads"
	SourcePhotoPrism = "photoprism"

	DisplayEbiten = "ebiten"
	DisplayX11    = "x11"
	DisplayFB     = "fb"
)

type Config struct {
	ServerURL string
	Source    string

	PhotoPrismDomain string
	PhotoPrismToken  string
	AlbumUID         string

	Display    string
	FBDevice   string
	Fullscreen bool
	HideCursor bool
	WindowSize image.Point

	Interval      time.Duration
	FrameDelay    time.Duration
	FetchTimeout  time.Duration
	NotifyTimeout time.Duration
	NotifyMode    notify.Mode
	NotifyQueue   int

	WebAddr   string
	Autostart bool
}

func envString(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(getenv func(string) string, key string, def bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Parse builds a Config from args (without the program name) and the
// environment. Usage goes to out on error.
func Parse(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	c := &Config{}
	var err error
	var errs []error
	boolEnv := func(key string, def bool) bool {
		b, err := envBool(getenv, key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return b
	}
	durEnv := func(key string, def time.Duration) time.Duration {
		d, err := envDuration(getenv, key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}

	fs := pflag.NewFlagSet("gokiosk", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&c.ServerURL, "server", envString(getenv, "KIOSK_SERVER", "http://localhost:5000"), "upload server base url")
	fs.StringVar(&c.Source, "source", envString(getenv, "KIOSK_SOURCE", SourceUploads), "image source: uploads or photoprism")
	fs.StringVar(&c.PhotoPrismDomain, "photoprism", getenv("PHOTOPRISM_DOMAIN"), "PhotoPrism base url")
	fs.StringVar(&c.PhotoPrismToken, "photoprism-token", getenv("PHOTOPRISM_TOKEN"), "PhotoPrism app token")
	fs.StringVar(&c.AlbumUID, "album", getenv("ALBUM_UID"), "PhotoPrism album UID")

	fs.StringVar(&c.Display, "display", envString(getenv, "KIOSK_DISPLAY", DisplayEbiten), "display backend: ebiten, x11 or fb")
	fs.StringVar(&c.FBDevice, "fb", envString(getenv, "KIOSK_FB", "/dev/fb0"), "framebuffer device")
	fs.BoolVar(&c.Fullscreen, "fullscreen", boolEnv("KIOSK_FULLSCREEN", true), "run fullscreen")
	fs.BoolVar(&c.HideCursor, "hide-cursor", boolEnv("KIOSK_HIDE_CURSOR", true), "hide the mouse cursor")
	fs.IntVar(&c.WindowSize.X, "width", 1000, "window width when not fullscreen")
	fs.IntVar(&c.WindowSize.Y, "height", 700, "window height when not fullscreen")

	fs.DurationVar(&c.Interval, "interval", durEnv("KIOSK_INTERVAL", presentation.DefaultSlideInterval), "slideshow interval")
	fs.DurationVar(&c.FrameDelay, "frame-delay", frame.DefaultFrameDelay, "delay between frames")
	fs.DurationVar(&c.FetchTimeout, "fetch-timeout", durEnv("KIOSK_FETCH_TIMEOUT", remote.DefaultTimeout), "timeout for each image request")
	fs.DurationVar(&c.NotifyTimeout, "notify-timeout", durEnv("KIOSK_NOTIFY_TIMEOUT", notify.DefaultTimeout), "timeout for each selection notification")
	mode := fs.String("notify-mode", envString(getenv, "KIOSK_NOTIFY_MODE", string(notify.ModeQueue)), "notification delivery: queue (every change, in order) or latest")
	fs.IntVar(&c.NotifyQueue, "notify-queue", notify.DefaultQueueSize, "pending notifications per sink in queue mode")

	fs.StringVar(&c.WebAddr, "web", getenv("KIOSK_WEB"), "diagnostics web server address, e.g. :8080")
	fs.BoolVar(&c.Autostart, "autostart", boolEnv("KIOSK_AUTOSTART", false), "start the slideshow immediately")

	if len(errs) > 0 {
		return nil, errs[0]
	}
	if err = fs.Parse(args); err != nil {
		return nil, err
	}
	if c.NotifyMode, err = notify.ParseMode(*mode); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.Source {
	case SourceUploads:
		if err := checkURL("server", c.ServerURL); err != nil {
			return err
		}
	case SourcePhotoPrism:
		if err := checkURL("photoprism", c.PhotoPrismDomain); err != nil {
			return err
		}
		if c.AlbumUID == "" {
			return fmt.Errorf("album: ALBUM_UID is required for the photoprism source")
		}
	default:
		return fmt.Errorf("source: unknown source %q", c.Source)
	}
	switch c.Display {
	case DisplayEbiten, DisplayX11, DisplayFB:
	default:
		return fmt.Errorf("display: unknown display %q", c.Display)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval: must be positive, got %v", c.Interval)
	}
	if c.FrameDelay <= 0 {
		return fmt.Errorf("frame-delay: must be positive, got %v", c.FrameDelay)
	}
	if c.WindowSize.X <= 0 || c.WindowSize.Y <= 0 {
		return fmt.Errorf("window size %v: must be positive", c.WindowSize)
	}
	return nil
}

func checkURL(name, s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: %q is not an http url", name, s)
	}
	return nil
}

// NotifyOptions are the notifier settings.
func (c *Config) NotifyOptions() notify.Options {
	return notify.Options{Mode: c.NotifyMode, Timeout: c.NotifyTimeout, QueueSize: c.NotifyQueue}
}
