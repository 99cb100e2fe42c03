// Package web is the kiosk's diagnostics server. It shows the presentation
// state, the last rendered frame and the frame buffer settings, and streams
// selection changes over a websocket.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image"
	"image/draw"
	"image/png"
	"log"
	"net/http"
	_ "net/http/pprof"
	"strings"
	"sync"
	"time"

	"github.com/drummonds/gokiosk/internal/fb"
	"github.com/drummonds/gokiosk/internal/presentation"
	"github.com/gorilla/mux"
)

// content is our static web server content.
//
//go:embed template
var content embed.FS

var tmpl = template.Must(template.ParseFS(content, "template/base.html"))

// FrameInterval is how often the copy of the screen served at /frame.png
// is refreshed.
const FrameInterval = time.Second

type Page struct {
	Title string
	Body  template.HTML
}

type Server struct {
	Router *mux.Router
	hub    *Hub
	fbPath string

	mu      sync.RWMutex
	snap    presentation.Snapshot
	frame   *image.RGBA
	frameAt time.Time
	started time.Time
}

// NewServer serves the routes. fbPath is the frame buffer device shown on
// /diag.
func NewServer(hub *Hub, fbPath string) *Server {
	s := &Server{hub: hub, fbPath: fbPath, started: time.Now()}
	r := mux.NewRouter()
	r.HandleFunc("/", s.statusHandler).Methods(http.MethodGet)
	r.HandleFunc("/state", s.stateHandler).Methods(http.MethodGet)
	r.HandleFunc("/frame.png", s.frameHandler).Methods(http.MethodGet)
	r.HandleFunc("/diag", s.diagHandler).Methods(http.MethodGet)
	r.Handle("/ws", hub)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	s.Router = r
	return s
}

// Rendered is called by the render loop after every frame.
func (s *Server) Rendered(now time.Time, snap presentation.Snapshot, buffer *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	if s.frame != nil && now.Sub(s.frameAt) < FrameInterval {
		return
	}
	if s.frame == nil || s.frame.Bounds() != buffer.Bounds() {
		s.frame = image.NewRGBA(buffer.Bounds())
	}
	draw.Draw(s.frame, s.frame.Bounds(), buffer, buffer.Bounds().Min, draw.Src)
	s.frameAt = now
}

func (s *Server) Snapshot() presentation.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func render(w http.ResponseWriter, page *Page) {
	if err := tmpl.Execute(w, page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	var sb strings.Builder
	sb.WriteString("<h1>Hello from gokiosk</h1>")
	sb.WriteString("<ul>")
	sb.WriteString(fmt.Sprintf("<li>Showing: %s (%d of %d)</li>",
		template.HTMLEscapeString(snap.Identifier), snap.Current+1, snap.Count))
	sb.WriteString(fmt.Sprintf("<li>Carousel offset: %d</li>", snap.Offset))
	sb.WriteString(fmt.Sprintf("<li>Slideshow running: %t</li>", snap.SlideshowActive))
	sb.WriteString(fmt.Sprintf("<li>Websocket clients: %d</li>", s.hub.Clients()))
	sb.WriteString(fmt.Sprintf("<li>Up since: %s</li>", s.started.Format(time.RFC3339)))
	sb.WriteString("</ul>")
	sb.WriteString("<img src='/frame.png' alt='screen'>")
	sb.WriteString("<h2>Selections</h2><div id='log'></div>")
	sb.WriteString(`<script>
const log = document.getElementById('log');
const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.onmessage = (m) => {
  const ev = JSON.parse(m.data);
  const p = document.createElement('div');
  p.textContent = ev.at + ' ' + ev.index + ' ' + ev.identifier;
  log.prepend(p);
};
</script>`)
	render(w, &Page{Title: "gokiosk", Body: template.HTML(sb.String())})
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		log.Printf("warning: writing state: %v", err)
	}
}

func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frame == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, s.frame); err != nil {
		log.Printf("warning: encoding frame: %v", err)
	}
}

// Get the frame buffer and add info to the string builder
func addFrameBufferInfo(sb *strings.Builder, path string) {
	sb.WriteString("<hr><h2>Frame buffer " + template.HTMLEscapeString(path) + "</h2>")
	defer sb.WriteString("<hr>")

	d, err := fb.Open(path)
	if err != nil {
		sb.WriteString(fmt.Sprintf("<p>Error opening %s: %v</p>", template.HTMLEscapeString(path), err))
		return
	}
	defer d.Close()

	sb.WriteString("<ul>")
	sb.WriteString(fmt.Sprintf("<li>Id: %s</li>", template.HTMLEscapeString(strings.TrimRight(string(d.FInfo.Id[:]), "\x00"))))
	sb.WriteString(fmt.Sprintf("<li>Start of frame buffer memory: 0x%x</li>", d.FInfo.Smem_start))
	sb.WriteString(fmt.Sprintf("<li>Length of frame buffer memory: %d bytes</li>", d.FInfo.Smem_len))
	sb.WriteString(fmt.Sprintf("<li>Frame buffer type: %d</li>", d.FInfo.Type))
	sb.WriteString(fmt.Sprintf("<li>Visual: %d</li>", d.FInfo.Visual))
	sb.WriteString(fmt.Sprintf("<li>XPanStep: %d</li>", d.FInfo.Xpanstep))
	sb.WriteString(fmt.Sprintf("<li>YPanStep: %d</li>", d.FInfo.Ypanstep))
	sb.WriteString(fmt.Sprintf("<li>Line length: %d bytes</li>", d.FInfo.Line_length))
	sb.WriteString(fmt.Sprintf("<li>Accelerator: %d</li>", d.FInfo.Accel))
	sb.WriteString(fmt.Sprintf("<li>Capabilities: 0x%x</li>", d.FInfo.Capabilities))
	sb.WriteString("</ul>")

	info, err := d.VarScreeninfo()
	if err != nil {
		sb.WriteString(fmt.Sprintf("<p>Error getting screen info: %v</p>", err))
		return
	}
	sb.WriteString("<ul>")
	sb.WriteString(fmt.Sprintf("<li>Resolution: %dx%d (virtual %dx%d)</li>", info.Xres, info.Yres, info.Xres_virtual, info.Yres_virtual))
	sb.WriteString(fmt.Sprintf("<li>Bits per pixel: %d</li>", info.Bits_per_pixel))
	sb.WriteString(fmt.Sprintf("<li>Red: offset %d length %d</li>", info.Red.Offset, info.Red.Length))
	sb.WriteString(fmt.Sprintf("<li>Green: offset %d length %d</li>", info.Green.Offset, info.Green.Length))
	sb.WriteString(fmt.Sprintf("<li>Blue: offset %d length %d</li>", info.Blue.Offset, info.Blue.Length))
	sb.WriteString("</ul>")
}

func (s *Server) diagHandler(w http.ResponseWriter, r *http.Request) {
	var sb strings.Builder
	sb.WriteString("<h1>Diagnostics</h1>")
	addFrameBufferInfo(&sb, s.fbPath)
	render(w, &Page{Title: "FrameBuffer", Body: template.HTML(sb.String())})
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
		s.hub.Close()
	}()
	log.Printf("Starting web server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
