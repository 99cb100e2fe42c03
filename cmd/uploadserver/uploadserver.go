// Program uploadserver serves a directory of images with the upload server
// protocol the kiosk talks to. It is for development: selections sent to
// /manual_show are only logged.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
)

var imageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true,
}

type uploadServer struct {
	dir string

	mu      sync.Mutex
	showing string
}

func (u *uploadServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/uploads", u.listHandler).Methods(http.MethodGet)
	r.HandleFunc("/uploads/{name}", u.fileHandler).Methods(http.MethodGet)
	r.HandleFunc("/manual_show/{name}", u.showHandler).Methods(http.MethodPost)
	r.HandleFunc("/showing", u.showingHandler).Methods(http.MethodGet)
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: writing response: %v", err)
	}
}

func (u *uploadServer) listHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(u.dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	uploads := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") && imageExt[strings.ToLower(filepath.Ext(e.Name()))] {
			uploads = append(uploads, e.Name())
		}
	}
	writeJSON(w, map[string][]string{"uploads": uploads})
}

// path returns the file for name, or "" if there is none.
func (u *uploadServer) path(name string) string {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ""
	}
	p := filepath.Join(u.dir, name)
	if fi, err := os.Stat(p); err != nil || !fi.Mode().IsRegular() {
		return ""
	}
	return p
}

func (u *uploadServer) fileHandler(w http.ResponseWriter, r *http.Request) {
	p := u.path(mux.Vars(r)["name"])
	if p == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, p)
}

func (u *uploadServer) showHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if u.path(name) == "" {
		http.NotFound(w, r)
		return
	}
	u.mu.Lock()
	u.showing = name
	u.mu.Unlock()
	log.Printf("Showing %s", name)
	writeJSON(w, map[string]string{"status": "ok", "showing": name})
}

func (u *uploadServer) Showing() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.showing
}

func (u *uploadServer) showingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"showing": u.Showing()})
}

func main() {
	addr := pflag.String("addr", ":5000", "listen address")
	dir := pflag.String("dir", "uploads", "directory of images")
	pflag.Parse()

	u := &uploadServer{dir: *dir}
	log.Printf("Serving %s on %s", *dir, *addr)
	log.Fatal(http.ListenAndServe(*addr, u.routes()))
}
