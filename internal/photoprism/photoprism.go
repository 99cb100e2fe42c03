// Package photoprism lists and downloads the photos of one PhotoPrism album.
package photoprism

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/drummonds/gokiosk/internal/remote"
	"github.com/drummonds/photoprism-go-api/api"
)

// PhotoPrism search results are paged. Only the first page of an album is
// shown.
const photoPageSize = 20

var ErrNoJpeg = errors.New("photo has no jpeg file")

type Client struct {
	api   *api.ClientWithResponses
	album string

	mu     sync.Mutex
	orient map[string]int
}

// NewClient authenticates with an app token. host is the PhotoPrism base
// url, album the UID of the album to show.
func NewClient(host, token, album string, httpClient *http.Client) (*Client, error) {
	if host == "" {
		return nil, errors.New("photoprism: no host set")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: remote.DefaultTimeout}
	}
	provider := api.NewXAuthProvider(token)
	nc, err := api.NewClientWithResponses(host,
		api.WithHTTPClient(httpClient),
		api.WithRequestEditorFn(provider.Intercept))
	if err != nil {
		return nil, fmt.Errorf("photoprism client: %w", err)
	}
	return &Client{api: nc, album: album, orient: make(map[string]int)}, nil
}

// ListImages returns the photo UIDs of the album in search order.
func (c *Client) ListImages(ctx context.Context) ([]string, error) {
	album := c.album
	params := api.SearchPhotosParams{Count: photoPageSize, S: &album}
	photos, err := c.api.SearchPhotosWithResponse(ctx, &params)
	if err != nil {
		return nil, &remote.NetworkError{Op: "search", URL: album, Err: err}
	}
	if err := checkStatus("search", album, photos.HTTPResponse); err != nil {
		return nil, err
	}
	if photos.JSON200 == nil {
		return nil, nil
	}
	ids := make([]string, 0, len(*photos.JSON200))
	for _, photo := range *photos.JSON200 {
		if photo.UID == nil {
			continue
		}
		if photo.OriginalName != nil {
			log.Printf("Original name %s", *photo.OriginalName)
		}
		ids = append(ids, *photo.UID)
	}
	return ids, nil
}

// FetchImage downloads the original of the photo's first jpeg file and
// remembers its orientation.
func (c *Client) FetchImage(ctx context.Context, uid string) ([]byte, error) {
	photo, err := c.api.GetPhotoWithResponse(ctx, uid)
	if err != nil {
		return nil, &remote.NetworkError{Op: "photo", URL: uid, Err: err}
	}
	if err := checkStatus("photo", uid, photo.HTTPResponse); err != nil {
		return nil, err
	}
	if photo.JSON200 == nil || photo.JSON200.Files == nil {
		return nil, fmt.Errorf("%s: %w", uid, ErrNoJpeg)
	}
	file, ok := firstJpeg(*photo.JSON200.Files)
	if !ok || file.Hash == nil {
		return nil, fmt.Errorf("%s: %w", uid, ErrNoJpeg)
	}
	if file.Orientation != nil {
		c.mu.Lock()
		c.orient[uid] = *file.Orientation
		c.mu.Unlock()
	}

	dl, err := c.api.GetDownloadWithResponse(ctx, *file.Hash)
	if err != nil {
		return nil, &remote.NetworkError{Op: "download", URL: uid, Err: err}
	}
	if err := checkStatus("download", uid, dl.HTTPResponse); err != nil {
		return nil, err
	}
	return dl.Body, nil
}

// Orientation is the EXIF orientation PhotoPrism reported for uid, or zero
// if the photo has not been fetched.
func (c *Client) Orientation(uid string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orient[uid]
}

func firstJpeg(files []api.EntityFile) (api.EntityFile, bool) {
	for _, file := range files {
		if file.Mime != nil && *file.Mime == "image/jpeg" {
			return file, true
		}
	}
	return api.EntityFile{}, false
}

func checkStatus(op, id string, resp *http.Response) error {
	if resp == nil {
		return &remote.NetworkError{Op: op, URL: id, Err: errors.New("no response")}
	}
	if resp.StatusCode != http.StatusOK {
		return &remote.HTTPStatusError{Op: op, URL: id, StatusCode: resp.StatusCode}
	}
	return nil
}
