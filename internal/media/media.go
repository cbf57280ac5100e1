package media

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/newsroom/pkg"
)

const (
	TypeImage = "image"
	TypeVideo = "video"
)

var (
	ErrNotFound       = errors.New("media not found")
	ErrNameOrURLEmpty = errors.New("name and url are required")
	ErrBadType        = errors.New("type must be image or video")
	ErrBadSize        = errors.New("size must not be negative")
)

type Item struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Size      *int64    `json:"size"`
	MimeType  *string   `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func parseType(t string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case TypeImage:
		return TypeImage, true
	case TypeVideo:
		return TypeVideo, true
	}
	return "", false
}

// prepare validates a new item. A missing type is taken from the MIME type.
func (it *Item) prepare() error {
	it.Name = strings.TrimSpace(it.Name)
	it.URL = strings.TrimSpace(it.URL)
	if it.Name == "" || it.URL == "" {
		return ErrNameOrURLEmpty
	}
	it.MimeType = pkg.SanitizeOptionalString(it.MimeType)
	if it.Size != nil && *it.Size < 0 {
		return ErrBadSize
	}

	if strings.TrimSpace(it.Type) == "" {
		it.Type = TypeImage
		if it.MimeType != nil && strings.HasPrefix(*it.MimeType, "video/") {
			it.Type = TypeVideo
		}
		return nil
	}
	t, ok := parseType(it.Type)
	if !ok {
		return ErrBadType
	}
	it.Type = t
	return nil
}

type Update struct {
	Name     *string            `json:"name"`
	URL      *string            `json:"url"`
	Type     *string            `json:"type"`
	Size     *int64             `json:"size"`
	MimeType pkg.OptionalString `json:"mimeType"`
}

func (u *Update) set() ([]string, []any, error) {
	var cols []string
	var vals []any

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, nil, ErrNameOrURLEmpty
		}
		cols, vals = append(cols, "name"), append(vals, name)
	}
	if u.URL != nil {
		url := strings.TrimSpace(*u.URL)
		if url == "" {
			return nil, nil, ErrNameOrURLEmpty
		}
		cols, vals = append(cols, "url"), append(vals, url)
	}
	if u.Type != nil {
		t, ok := parseType(*u.Type)
		if !ok {
			return nil, nil, ErrBadType
		}
		cols, vals = append(cols, "type"), append(vals, t)
	}
	if u.Size != nil {
		if *u.Size < 0 {
			return nil, nil, ErrBadSize
		}
		cols, vals = append(cols, "size"), append(vals, *u.Size)
	}
	if u.MimeType.Set {
		cols, vals = append(cols, "mime_type"), append(vals, u.MimeType.Sanitized())
	}
	return cols, vals, nil
}
