package announcements

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_Set(t *testing.T) {
	var u Update
	require.NoError(t, json.Unmarshal([]byte(`{"titleRW":"Itangazo","video":"","file":" /uploads/a.pdf "}`), &u))

	cols, vals := u.set()
	assert.Equal(t, []string{"title_rw", "video", "file"}, cols)
	assert.Equal(t, "Itangazo", vals[0])
	assert.Nil(t, vals[1].(*string))
	assert.Equal(t, "/uploads/a.pdf", *vals[2].(*string))

	a := &Announcement{TitleEN: "keep", Video: strPtr("old.mp4")}
	u.apply(a)
	assert.Equal(t, "keep", a.TitleEN)
	assert.Equal(t, "Itangazo", a.TitleRW)
	assert.Nil(t, a.Video)

	cols, _ = (&Update{}).set()
	assert.Empty(t, cols)
}

func TestAnnouncement_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Announcement{TitleEN: " ", DescriptionEN: "x"}).validate(), ErrTitleEmpty)
	assert.NoError(t, (&Announcement{TitleFR: "Annonce"}).validate())
}

func strPtr(s string) *string {
	return &s
}
