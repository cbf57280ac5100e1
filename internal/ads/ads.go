package ads

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/newsroom/pkg"
)

var (
	ErrNotFound       = errors.New("advertisement not found")
	ErrTitleEmpty     = errors.New("title must not be empty")
	ErrBadPlacement   = errors.New("placement must be one of " + strings.Join(Placements, ", "))
	ErrInvalidLinkURL = errors.New("link URL must be a valid URL")
)

const DefaultPlacement = "banner"

// Placements are the slots a frontend can render an advertisement in.
var Placements = []string{
	"banner",
	"sidebar",
	"inline",
	"header",
	"footer",
	"ticker",
	"hero",
	"article",
}

type Advertisement struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Placement   string    `json:"placement"`
	MediaURL    *string   `json:"mediaUrl"`
	LinkURL     *string   `json:"linkUrl"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func knownPlacement(placement string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(placement))
	for _, p := range Placements {
		if p == normalized {
			return p, true
		}
	}
	return "", false
}

// NormalizePlacement lowercases placement, anything unknown or empty maps to the banner.
func NormalizePlacement(placement string) string {
	if p, ok := knownPlacement(placement); ok {
		return p
	}
	return DefaultPlacement
}

func validateLinkURL(link *string) error {
	if link == nil {
		return nil
	}
	u, err := url.ParseRequestURI(*link)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidLinkURL
	}
	return nil
}

type createRequest struct {
	Title       string  `json:"title"`
	Placement   string  `json:"placement"`
	MediaURL    *string `json:"mediaUrl"`
	LinkURL     *string `json:"linkUrl"`
	IsPublished *bool   `json:"isPublished"`
}

// toAdvertisement validates the request and applies the create defaults.
func (req *createRequest) toAdvertisement() (*Advertisement, error) {
	ad := &Advertisement{
		Title:       strings.TrimSpace(req.Title),
		Placement:   DefaultPlacement,
		MediaURL:    pkg.SanitizeOptionalString(req.MediaURL),
		LinkURL:     pkg.SanitizeOptionalString(req.LinkURL),
		IsPublished: true,
	}
	if ad.Title == "" {
		return nil, ErrTitleEmpty
	}
	if strings.TrimSpace(req.Placement) != "" {
		p, ok := knownPlacement(req.Placement)
		if !ok {
			return nil, ErrBadPlacement
		}
		ad.Placement = p
	}
	if err := validateLinkURL(ad.LinkURL); err != nil {
		return nil, err
	}
	if req.IsPublished != nil {
		ad.IsPublished = *req.IsPublished
	}
	return ad, nil
}

// Update is a partial update. Media and link URLs can be cleared by sending null or a blank string.
type Update struct {
	Title       *string            `json:"title"`
	Placement   *string            `json:"placement"`
	MediaURL    pkg.OptionalString `json:"mediaUrl"`
	LinkURL     pkg.OptionalString `json:"linkUrl"`
	IsPublished *bool              `json:"isPublished"`
}

// set validates the update and lists the touched columns with their values.
func (u *Update) set() ([]string, []any, error) {
	var cols []string
	var vals []any

	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, nil, ErrTitleEmpty
		}
		cols, vals = append(cols, "title"), append(vals, title)
	}
	if u.Placement != nil {
		p, ok := knownPlacement(*u.Placement)
		if !ok {
			return nil, nil, ErrBadPlacement
		}
		cols, vals = append(cols, "placement"), append(vals, p)
	}
	if u.MediaURL.Set {
		cols, vals = append(cols, "media_url"), append(vals, u.MediaURL.Sanitized())
	}
	if u.LinkURL.Set {
		link := u.LinkURL.Sanitized()
		if err := validateLinkURL(link); err != nil {
			return nil, nil, err
		}
		cols, vals = append(cols, "link_url"), append(vals, link)
	}
	if u.IsPublished != nil {
		cols, vals = append(cols, "is_published"), append(vals, *u.IsPublished)
	}
	return cols, vals, nil
}

// Filter narrows List, empty placement and nil IsPublished match everything.
type Filter struct {
	Placement   string
	IsPublished *bool
}
