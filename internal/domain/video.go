package domain

import (
	"mime"
	"path"
	"strings"
	"time"
)

// Rendition is one downloadable encoding of a video as reported by the API.
type Rendition struct {
	Type      string `json:"type"`
	Quality   string `json:"rendition"`
	Link      string `json:"link"`
	Size      int64  `json:"size"`
	SizeShort string `json:"size_short"`
}

// Extension derives a file extension from the rendition's media type.
// "video/mp4" yields ".mp4"; anything that is not a type/subtype pair
// falls back to ".bin".
func (r Rendition) Extension() string {
	mediaType, _, err := mime.ParseMediaType(r.Type)
	if err == nil {
		if parts := strings.SplitN(mediaType, "/", 2); len(parts) == 2 && parts[1] != "" {
			return "." + parts[1]
		}
	}
	return ".bin"
}

// Video is one video record returned by the list endpoint.
type Video struct {
	URI         string      `json:"uri"`
	Name        string      `json:"name"`
	ReleaseTime time.Time   `json:"release_time"`
	Download    []Rendition `json:"download"`
}

// ID returns the numeric video identifier from the API URI ("/videos/123").
func (v *Video) ID() string {
	if v.URI == "" {
		return ""
	}
	return path.Base(v.URI)
}

// BestRendition returns the rendition with the largest reported byte size.
// Ties keep the first occurrence. Returns false when the video offers no
// download renditions.
func (v *Video) BestRendition() (Rendition, bool) {
	if len(v.Download) == 0 {
		return Rendition{}, false
	}
	best := v.Download[0]
	for _, r := range v.Download[1:] {
		if r.Size > best.Size {
			best = r
		}
	}
	return best, true
}

// FileName builds the on-disk name for a rendition: the video's display name
// plus the rendition extension. The name is used as-is, so videos sharing a
// display name overwrite each other.
func (v *Video) FileName(r Rendition) string {
	return v.Name + r.Extension()
}

// Paging carries the API's pagination cursor for a page of results.
type Paging struct {
	Next string `json:"next"`
}

// VideoPage is one page of the account's video list.
type VideoPage struct {
	Data   []Video `json:"data"`
	Paging Paging  `json:"paging"`
}

// HasNext reports whether the API advertises a following page.
func (p *VideoPage) HasNext() bool {
	return p.Paging.Next != ""
}
