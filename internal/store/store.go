// Package store holds the images being presented. They are fetched and
// decoded once at startup and never reloaded.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"

	"github.com/drummonds/gokiosk/internal/drawing"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Repository is the remote source of images.
type Repository interface {
	ListImages(ctx context.Context) ([]string, error)
	FetchImage(ctx context.Context, id string) ([]byte, error)
}

// Orienter is implemented by repositories that know the orientation of an
// image without reading its EXIF data.
type Orienter interface {
	Orientation(id string) int
}

type Record struct {
	Identifier string
	Pixels     image.Image
	Width      int
	Height     int
}

func NewRecord(id string, img image.Image) Record {
	b := img.Bounds()
	return Record{Identifier: id, Pixels: img, Width: b.Dx(), Height: b.Dy()}
}

// Store is an ordered, non-empty list of records in server order.
type Store struct {
	records []Record
}

var ErrNoImages = errors.New("no images found on server")

// StartupFailure means there is nothing to show and the kiosk must exit.
type StartupFailure struct {
	Err error
}

func (e *StartupFailure) Error() string { return "startup failed: " + e.Err.Error() }

func (e *StartupFailure) Unwrap() error { return e.Err }

// New builds a store directly from records.
func New(records []Record) (*Store, error) {
	if len(records) == 0 {
		return nil, &StartupFailure{Err: ErrNoImages}
	}
	return &Store{records: records}, nil
}

// Load lists the repository and fetches every image in order. Images that
// fail to fetch or decode are skipped with a warning.
func Load(ctx context.Context, repo Repository) (*Store, error) {
	ids, err := repo.ListImages(ctx)
	if err != nil {
		return nil, &StartupFailure{Err: fmt.Errorf("listing images: %w", err)}
	}
	if len(ids) == 0 {
		return nil, &StartupFailure{Err: ErrNoImages}
	}
	log.Printf("Loading %d images", len(ids))

	orienter, _ := repo.(Orienter)
	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, &StartupFailure{Err: err}
		}
		body, err := repo.FetchImage(ctx, id)
		if err != nil {
			log.Printf("warning: skipping %s: %v", id, err)
			continue
		}
		orientation := 0
		if orienter != nil {
			orientation = orienter.Orientation(id)
		}
		img, err := Decode(body, orientation)
		if err != nil {
			log.Printf("warning: skipping %s: %v", id, err)
			continue
		}
		records = append(records, NewRecord(id, img))
	}
	if len(records) == 0 {
		return nil, &StartupFailure{Err: fmt.Errorf("all %d image fetches failed: %w", len(ids), ErrNoImages)}
	}
	log.Printf("Loaded %d of %d images", len(records), len(ids))
	return &Store{records: records}, nil
}

// Decode decodes an image and rotates it upright. When orientation is zero
// it is read from the EXIF data, if there is any.
func Decode(body []byte, orientation int) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if orientation == 0 && format == "jpeg" {
		orientation = exifOrientation(body)
	}
	return drawing.Orient(img, orientation), nil
}

func exifOrientation(body []byte) int {
	x, err := exif.Decode(bytes.NewReader(body))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	o, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return o
}

func (s *Store) Len() int { return len(s.records) }

func (s *Store) Identifier(i int) string { return s.records[i].Identifier }

func (s *Store) Record(i int) Record { return s.records[i] }

func (s *Store) Image(i int) image.Image { return s.records[i].Pixels }

func (s *Store) Identifiers() []string {
	ids := make([]string, len(s.records))
	for i, r := range s.records {
		ids[i] = r.Identifier
	}
	return ids
}
