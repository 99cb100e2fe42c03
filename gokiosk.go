// Program gokiosk is a touch screen photo kiosk. It loads every image from
// an upload server (or a PhotoPrism album) at startup and shows them with a
// thumbnail carousel and a slideshow. Every change of the main image is
// sent to the server's display endpoint.
//
// The screen is an Ebitengine window, a plain X11 window, or the Linux
// frame buffer as on a Raspberry Pi.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drummonds/gokiosk/internal/config"
	"github.com/drummonds/gokiosk/internal/display"
	"github.com/drummonds/gokiosk/internal/display/ebitendisplay"
	"github.com/drummonds/gokiosk/internal/frame"
	"github.com/drummonds/gokiosk/internal/layout"
	"github.com/drummonds/gokiosk/internal/notify"
	"github.com/drummonds/gokiosk/internal/photoprism"
	"github.com/drummonds/gokiosk/internal/presentation"
	"github.com/drummonds/gokiosk/internal/remote"
	"github.com/drummonds/gokiosk/internal/store"
	"github.com/drummonds/gokiosk/internal/web"
	"github.com/spf13/pflag"
)

const title = "gokiosk"

// repository returns the image source. The display client is nil when
// there is no upload server to notify.
func repository(cfg *config.Config) (store.Repository, *remote.Client, error) {
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	switch cfg.Source {
	case config.SourcePhotoPrism:
		repo, err := photoprism.NewClient(cfg.PhotoPrismDomain, cfg.PhotoPrismToken, cfg.AlbumUID, httpClient)
		return repo, nil, err
	default:
		client, err := remote.NewClient(cfg.ServerURL, httpClient)
		return client, client, err
	}
}

func newDisplay(cfg *config.Config) (display.Display, func() error, error) {
	nothing := func() error { return nil }
	switch cfg.Display {
	case config.DisplayX11:
		x, err := display.NewX11(title, cfg.WindowSize)
		if err != nil {
			return nil, nothing, err
		}
		return &display.Loop{Screen: x, Delay: cfg.FrameDelay}, x.Close, nil
	case config.DisplayFB:
		f, err := display.OpenFrameBuffer(cfg.FBDevice)
		if err != nil {
			return nil, nothing, err
		}
		return &display.Loop{Screen: f, Delay: cfg.FrameDelay}, f.Close, nil
	default:
		return ebitendisplay.New(ebitendisplay.Options{
			Title:      title,
			Size:       cfg.WindowSize,
			Fullscreen: cfg.Fullscreen,
			HideCursor: cfg.HideCursor,
			FrameDelay: cfg.FrameDelay,
		}), nothing, nil
	}
}

func gokiosk(ctx context.Context, cfg *config.Config) error {
	repo, client, err := repository(cfg)
	if err != nil {
		return err
	}

	log.Printf("Loading images %s", time.Now().Format(time.RFC3339))
	images, err := store.Load(ctx, repo)
	if err != nil {
		return err
	}

	notifier := notify.New(cfg.NotifyOptions())
	if client != nil {
		notifier.Add(remote.DisplaySink{Client: client})
	}
	var server *web.Server
	if cfg.WebAddr != "" {
		hub := web.NewHub()
		notifier.Add(hub)
		server = web.NewServer(hub, cfg.FBDevice)
	}

	state, err := presentation.New(images, cfg.Interval, notifier)
	if err != nil {
		return err
	}
	if cfg.Autostart {
		state.StartSlideshow(time.Now())
	}
	engine := layout.NewEngine(layout.DefaultConfig(), images)
	pf := frame.NewPictureFrame(image.Rectangle{Max: cfg.WindowSize}, state, engine)

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		notifier.Wait()
	}()
	notifier.Start(ctx)

	if server != nil {
		pf.SetObserver(server)
		go func() {
			if err := server.ListenAndServe(ctx, cfg.WebAddr); err != nil {
				log.Printf("warning: web server: %v", err)
			}
		}()
	}

	disp, closeDisplay, err := newDisplay(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDisplay(); err != nil {
			log.Print(err)
		}
	}()

	log.Printf("Showing %d images on %s display", images.Len(), cfg.Display)
	return disp.Run(ctx, pf)
}

func main() {
	fmt.Printf("GoKiosk V0.3.0 2024-10-01\n")
	cfg, err := config.Parse(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	// Cancel the context instead of exiting the program:
	ctx, canc := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer canc()
	if err := gokiosk(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
