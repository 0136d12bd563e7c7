// Package media turns CMS image references into CDN URLs.
package media

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/daviddao/folio/internal/types"
)

// CDNBase is the image CDN root.
const CDNBase = "https://cdn.sanity.io/images"

// Asset is a parsed image asset reference.
type Asset struct {
	ID     string
	Width  int
	Height int
	Format string
}

// ParseRef parses an asset reference of the form image-<id>-<w>x<h>-<format>.
func ParseRef(ref string) (Asset, bool) {
	rest, ok := strings.CutPrefix(ref, "image-")
	if !ok {
		return Asset{}, false
	}
	parts := strings.Split(rest, "-")
	if len(parts) < 3 {
		return Asset{}, false
	}
	format := parts[len(parts)-1]
	dims := parts[len(parts)-2]
	id := strings.Join(parts[:len(parts)-2], "-")

	ws, hs, ok := strings.Cut(dims, "x")
	if !ok || id == "" || format == "" {
		return Asset{}, false
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Asset{}, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Asset{}, false
	}
	return Asset{ID: id, Width: w, Height: h, Format: format}, true
}

// Option adds a transformation parameter to an image URL.
type Option func(url.Values)

// Width scales the image to w pixels wide.
func Width(w int) Option {
	return func(v url.Values) { v.Set("w", strconv.Itoa(w)) }
}

// Height scales the image to h pixels high.
func Height(h int) Option {
	return func(v url.Values) { v.Set("h", strconv.Itoa(h)) }
}

// Fit sets how the image is fitted into width and height (clip, crop, fill, max, min, scale).
func Fit(mode string) Option {
	return func(v url.Values) { v.Set("fit", mode) }
}

// Quality sets the compression quality, 0-100.
func Quality(q int) Option {
	return func(v url.Values) { v.Set("q", strconv.Itoa(q)) }
}

// AutoFormat lets the CDN pick the best format for the client.
func AutoFormat() Option {
	return func(v url.Values) { v.Set("auto", "format") }
}

// Resolver builds URLs for one project and dataset.
type Resolver struct {
	ProjectID string
	Dataset   string
}

// URL returns a fetchable URL for img, or "" when img has no valid asset.
func (r Resolver) URL(img types.Image, opts ...Option) string {
	if img.IsZero() || r.ProjectID == "" || r.Dataset == "" {
		return ""
	}
	a, ok := ParseRef(img.Asset.Ref)
	if !ok {
		return ""
	}

	u := CDNBase + "/" + r.ProjectID + "/" + r.Dataset + "/" + a.ID + "-" +
		strconv.Itoa(a.Width) + "x" + strconv.Itoa(a.Height) + "." + a.Format
	if len(opts) == 0 {
		return u
	}
	v := url.Values{}
	for _, opt := range opts {
		opt(v)
	}
	return u + "?" + v.Encode()
}
