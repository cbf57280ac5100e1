//go:build integration_test || all_tests

package news

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/newsroom/internal/translate"
	testingpkg "github.com/2beens/newsroom/pkg/testing"
)

func fakeArticle(category string) *Article {
	return &Article{
		TitleEN:   gofakeit.Sentence(5),
		TitleRW:   gofakeit.Sentence(5),
		ExcerptEN: gofakeit.Sentence(12),
		ContentEN: "<p>" + gofakeit.Paragraph(2, 3, 10, " ") + "</p>",
		Category:  category,
		Author:    gofakeit.Name(),
		Image:     gofakeit.UUID() + ".jpg",
	}
}

func TestRepo_CreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testingpkg.GetDBPool(t))

	before := time.Now().Add(-time.Minute)
	a := fakeArticle("")
	a.Images = []string{"a.jpg", "b.jpg"}
	a.ImageCaptions = translate.Captions{"a.jpg": {translate.EN: "first", translate.FR: "premier"}}
	require.NoError(t, repo.Create(ctx, a))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), a.ID) })

	assert.Positive(t, a.ID)
	assert.Equal(t, DefaultCategory, a.Category)
	assert.True(t, before.Before(a.CreatedAt))
	assert.True(t, before.Before(a.PublishedAt))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.TitleEN, got.TitleEN)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
	assert.Empty(t, got.Videos)
	assert.Equal(t, "premier", got.ImageCaptions["a.jpg"][translate.FR])

	require.NoError(t, repo.IncrementViews(ctx, a.ID))
	require.NoError(t, repo.IncrementViews(ctx, a.ID))

	newTitle := "updated title"
	featured := true
	noImages := []string{}
	updated, err := repo.Update(ctx, a.ID, &Update{TitleEN: &newTitle, Featured: &featured, Images: &noImages})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.TitleEN)
	assert.Equal(t, a.TitleRW, updated.TitleRW)
	assert.True(t, updated.Featured)
	assert.Empty(t, updated.Images)
	assert.Equal(t, 2, updated.Views)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	unchanged, err := repo.Update(ctx, a.ID, &Update{})
	require.NoError(t, err)
	assert.Equal(t, newTitle, unchanged.TitleEN)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)
	assert.ErrorIs(t, repo.IncrementViews(ctx, a.ID), ErrNotFound)
	_, err = repo.Update(ctx, a.ID, &Update{TitleEN: &newTitle})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepo_ListAndFlags(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testingpkg.GetDBPool(t))

	category := "it-" + gofakeit.LetterN(8)
	var ids []int
	for i := 0; i < 4; i++ {
		a := fakeArticle(category)
		a.Trending = i%2 == 0
		a.Featured = i == 3
		require.NoError(t, repo.Create(ctx, a))
		ids = append(ids, a.ID)
	}
	t.Cleanup(func() {
		for _, id := range ids {
			_ = repo.Delete(context.Background(), id)
		}
	})

	result, err := repo.List(ctx, Filter{Category: category, Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	require.Len(t, result.Data, 2)
	assert.Equal(t, ids[2], result.Data[0].ID)
	assert.Equal(t, ids[1], result.Data[1].ID)

	trending := true
	result, err = repo.List(ctx, Filter{Category: category, Trending: &trending})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	byCategory, err := repo.ByCategory(ctx, category, 0)
	require.NoError(t, err)
	require.Len(t, byCategory, 4)
	assert.Equal(t, ids[3], byCategory[0].ID)

	featuredArticles, err := repo.Featured(ctx, 100)
	require.NoError(t, err)
	found := false
	for _, a := range featuredArticles {
		assert.True(t, a.Featured)
		found = found || a.ID == ids[3]
	}
	assert.True(t, found)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 4)

	_, err = repo.TotalViews(ctx)
	require.NoError(t, err)
}
