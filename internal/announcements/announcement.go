package announcements

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/newsroom/pkg"
)

var (
	ErrNotFound   = errors.New("announcement not found")
	ErrTitleEmpty = errors.New("a title is required in at least one language")
)

type Announcement struct {
	ID            int       `json:"id"`
	TitleEN       string    `json:"titleEN"`
	TitleRW       string    `json:"titleRW"`
	TitleFR       string    `json:"titleFR"`
	DescriptionEN string    `json:"descriptionEN"`
	DescriptionRW string    `json:"descriptionRW"`
	DescriptionFR string    `json:"descriptionFR"`
	Image         *string   `json:"image"`
	Video         *string   `json:"video"`
	File          *string   `json:"file"`
	FileName      *string   `json:"fileName"`
	FileType      *string   `json:"fileType"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (a *Announcement) validate() error {
	if strings.TrimSpace(a.TitleEN) == "" &&
		strings.TrimSpace(a.TitleRW) == "" &&
		strings.TrimSpace(a.TitleFR) == "" {
		return ErrTitleEmpty
	}
	return nil
}

// sanitize maps blank attachments to null.
func (a *Announcement) sanitize() {
	a.Image = pkg.SanitizeOptionalString(a.Image)
	a.Video = pkg.SanitizeOptionalString(a.Video)
	a.File = pkg.SanitizeOptionalString(a.File)
	a.FileName = pkg.SanitizeOptionalString(a.FileName)
	a.FileType = pkg.SanitizeOptionalString(a.FileType)
}

// Update is a partial update, attachments are cleared with null or a blank string.
type Update struct {
	TitleEN       *string            `json:"titleEN"`
	TitleRW       *string            `json:"titleRW"`
	TitleFR       *string            `json:"titleFR"`
	DescriptionEN *string            `json:"descriptionEN"`
	DescriptionRW *string            `json:"descriptionRW"`
	DescriptionFR *string            `json:"descriptionFR"`
	Image         pkg.OptionalString `json:"image"`
	Video         pkg.OptionalString `json:"video"`
	File          pkg.OptionalString `json:"file"`
	FileName      pkg.OptionalString `json:"fileName"`
	FileType      pkg.OptionalString `json:"fileType"`
}

func (u *Update) set() ([]string, []any) {
	var cols []string
	var vals []any
	for _, f := range []struct {
		col string
		v   *string
	}{
		{"title_en", u.TitleEN}, {"title_rw", u.TitleRW}, {"title_fr", u.TitleFR},
		{"description_en", u.DescriptionEN}, {"description_rw", u.DescriptionRW}, {"description_fr", u.DescriptionFR},
	} {
		if f.v != nil {
			cols, vals = append(cols, f.col), append(vals, *f.v)
		}
	}
	for _, f := range []struct {
		col string
		v   pkg.OptionalString
	}{
		{"image", u.Image}, {"video", u.Video}, {"file", u.File},
		{"file_name", u.FileName}, {"file_type", u.FileType},
	} {
		if f.v.Set {
			cols, vals = append(cols, f.col), append(vals, f.v.Sanitized())
		}
	}
	return cols, vals
}

// apply writes the update onto a, used by the in-memory repo.
func (u *Update) apply(a *Announcement) {
	cols, vals := u.set()
	for i, col := range cols {
		switch col {
		case "title_en":
			a.TitleEN = vals[i].(string)
		case "title_rw":
			a.TitleRW = vals[i].(string)
		case "title_fr":
			a.TitleFR = vals[i].(string)
		case "description_en":
			a.DescriptionEN = vals[i].(string)
		case "description_rw":
			a.DescriptionRW = vals[i].(string)
		case "description_fr":
			a.DescriptionFR = vals[i].(string)
		case "image":
			a.Image = vals[i].(*string)
		case "video":
			a.Video = vals[i].(*string)
		case "file":
			a.File = vals[i].(*string)
		case "file_name":
			a.FileName = vals[i].(*string)
		case "file_type":
			a.FileType = vals[i].(*string)
		}
	}
}
