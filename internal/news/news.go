package news

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/newsroom/internal/translate"
)

const (
	DefaultCategory      = "general"
	DefaultTrendingLimit = 5
	DefaultFeaturedLimit = 3
	MaxListLimit         = 100
)

var ErrNotFound = errors.New("news not found")

type Article struct {
	ID            int                `json:"id"`
	TitleEN       string             `json:"titleEN"`
	TitleRW       string             `json:"titleRW"`
	TitleFR       string             `json:"titleFR"`
	ExcerptEN     string             `json:"excerptEN"`
	ExcerptRW     string             `json:"excerptRW"`
	ExcerptFR     string             `json:"excerptFR"`
	ContentEN     string             `json:"contentEN"`
	ContentRW     string             `json:"contentRW"`
	ContentFR     string             `json:"contentFR"`
	Category      string             `json:"category"`
	Author        string             `json:"author"`
	Image         string             `json:"image"`
	Video         string             `json:"video"`
	Images        []string           `json:"images"`
	Videos        []string           `json:"videos"`
	ImageCaptions translate.Captions `json:"imageCaptions"`
	Featured      bool               `json:"featured"`
	Trending      bool               `json:"trending"`
	Views         int                `json:"views"`
	PublishedAt   time.Time          `json:"publishedAt"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func (a *Article) Titles() translate.Fields {
	return translate.Fields{translate.EN: a.TitleEN, translate.RW: a.TitleRW, translate.FR: a.TitleFR}
}

func (a *Article) Excerpts() translate.Fields {
	return translate.Fields{translate.EN: a.ExcerptEN, translate.RW: a.ExcerptRW, translate.FR: a.ExcerptFR}
}

func (a *Article) Contents() translate.Fields {
	return translate.Fields{translate.EN: a.ContentEN, translate.RW: a.ContentRW, translate.FR: a.ContentFR}
}

// normalize fills the defaults a new article is stored with.
func (a *Article) normalize() {
	a.Category = strings.TrimSpace(a.Category)
	if a.Category == "" {
		a.Category = DefaultCategory
	}
	if a.Images == nil {
		a.Images = []string{}
	}
	if a.Videos == nil {
		a.Videos = []string{}
	}
	if a.ImageCaptions == nil {
		a.ImageCaptions = translate.Captions{}
	}
}

// Filter narrows List. Nil pointers and zero values mean "any".
type Filter struct {
	Category string
	Featured *bool
	Trending *bool
	Limit    int
	Offset   int
}

// Update is a partial article update, only non nil fields are written.
type Update struct {
	TitleEN       *string             `json:"titleEN"`
	TitleRW       *string             `json:"titleRW"`
	TitleFR       *string             `json:"titleFR"`
	ExcerptEN     *string             `json:"excerptEN"`
	ExcerptRW     *string             `json:"excerptRW"`
	ExcerptFR     *string             `json:"excerptFR"`
	ContentEN     *string             `json:"contentEN"`
	ContentRW     *string             `json:"contentRW"`
	ContentFR     *string             `json:"contentFR"`
	Category      *string             `json:"category"`
	Author        *string             `json:"author"`
	Image         *string             `json:"image"`
	Video         *string             `json:"video"`
	Images        *[]string           `json:"images"`
	Videos        *[]string           `json:"videos"`
	ImageCaptions *translate.Captions `json:"imageCaptions"`
	Featured      *bool               `json:"featured"`
	Trending      *bool               `json:"trending"`
}

// set lists the columns touched by the update with their new values, in a stable order.
func (u *Update) set() ([]string, []any) {
	var cols []string
	var vals []any
	add := func(col string, v any) {
		cols = append(cols, col)
		vals = append(vals, v)
	}

	strs := []struct {
		col string
		v   *string
	}{
		{"title_en", u.TitleEN}, {"title_rw", u.TitleRW}, {"title_fr", u.TitleFR},
		{"excerpt_en", u.ExcerptEN}, {"excerpt_rw", u.ExcerptRW}, {"excerpt_fr", u.ExcerptFR},
		{"content_en", u.ContentEN}, {"content_rw", u.ContentRW}, {"content_fr", u.ContentFR},
		{"author", u.Author}, {"image", u.Image}, {"video", u.Video},
	}
	for _, s := range strs {
		if s.v != nil {
			add(s.col, *s.v)
		}
	}
	if u.Category != nil {
		category := strings.TrimSpace(*u.Category)
		if category == "" {
			category = DefaultCategory
		}
		add("category", category)
	}
	if u.Images != nil {
		add("images", nonNil(*u.Images))
	}
	if u.Videos != nil {
		add("videos", nonNil(*u.Videos))
	}
	if u.ImageCaptions != nil {
		captions := *u.ImageCaptions
		if captions == nil {
			captions = translate.Captions{}
		}
		add("image_captions", captions)
	}
	if u.Featured != nil {
		add("featured", *u.Featured)
	}
	if u.Trending != nil {
		add("trending", *u.Trending)
	}
	return cols, vals
}

// apply writes the update onto a, used by the in-memory repo.
func (u *Update) apply(a *Article) {
	cols, vals := u.set()
	for i, col := range cols {
		switch col {
		case "title_en":
			a.TitleEN = vals[i].(string)
		case "title_rw":
			a.TitleRW = vals[i].(string)
		case "title_fr":
			a.TitleFR = vals[i].(string)
		case "excerpt_en":
			a.ExcerptEN = vals[i].(string)
		case "excerpt_rw":
			a.ExcerptRW = vals[i].(string)
		case "excerpt_fr":
			a.ExcerptFR = vals[i].(string)
		case "content_en":
			a.ContentEN = vals[i].(string)
		case "content_rw":
			a.ContentRW = vals[i].(string)
		case "content_fr":
			a.ContentFR = vals[i].(string)
		case "author":
			a.Author = vals[i].(string)
		case "image":
			a.Image = vals[i].(string)
		case "video":
			a.Video = vals[i].(string)
		case "category":
			a.Category = vals[i].(string)
		case "images":
			a.Images = vals[i].([]string)
		case "videos":
			a.Videos = vals[i].([]string)
		case "image_captions":
			a.ImageCaptions = vals[i].(translate.Captions)
		case "featured":
			a.Featured = vals[i].(bool)
		case "trending":
			a.Trending = vals[i].(bool)
		}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// LocalizedArticle is an article rendered in a single language.
type LocalizedArticle struct {
	ID          int       `json:"id"`
	Language    string    `json:"language"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	Image       string    `json:"image"`
	Video       string    `json:"video"`
	Images      []string  `json:"images"`
	Videos      []string  `json:"videos"`
	Featured    bool      `json:"featured"`
	Trending    bool      `json:"trending"`
	Views       int       `json:"views"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListResult is the paginated list response.
type ListResult struct {
	Data  []*Article `json:"data"`
	Total int        `json:"total"`
}
