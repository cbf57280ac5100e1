package news

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ newsRepo = (*RepoMock)(nil)

// RepoMock keeps articles in memory.
type RepoMock struct {
	mutex    sync.Mutex
	articles map[int]*Article
	nextID   int
	now      func() time.Time
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		articles: make(map[int]*Article),
		now:      time.Now,
	}
}

func (r *RepoMock) Create(_ context.Context, article *Article) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	article.normalize()
	r.nextID++
	article.ID = r.nextID
	// strictly increasing, so ordering by creation time is deterministic
	now := r.now().Add(time.Duration(r.nextID) * time.Millisecond)
	article.PublishedAt, article.CreatedAt, article.UpdatedAt = now, now, now
	stored := *article
	r.articles[article.ID] = &stored
	return nil
}

func (r *RepoMock) Get(_ context.Context, id int) (*Article, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	a, ok := r.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *RepoMock) IncrementViews(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	a, ok := r.articles[id]
	if !ok {
		return ErrNotFound
	}
	a.Views++
	return nil
}

func (r *RepoMock) filtered(filter Filter) []*Article {
	var matched []*Article
	for _, a := range r.articles {
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && a.Featured != *filter.Featured {
			continue
		}
		if filter.Trending != nil && a.Trending != *filter.Trending {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func paged(articles []*Article, limit, offset int) []*Article {
	if offset > 0 {
		if offset >= len(articles) {
			return []*Article{}
		}
		articles = articles[offset:]
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}
	if articles == nil {
		return []*Article{}
	}
	return articles
}

func (r *RepoMock) List(_ context.Context, filter Filter) (*ListResult, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	matched := r.filtered(filter)
	return &ListResult{
		Data:  paged(matched, filter.Limit, filter.Offset),
		Total: len(matched),
	}, nil
}

func (r *RepoMock) Trending(_ context.Context, limit int) ([]*Article, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	trending := true
	return paged(r.filtered(Filter{Trending: &trending}), limit, 0), nil
}

func (r *RepoMock) Featured(_ context.Context, limit int) ([]*Article, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	featured := true
	return paged(r.filtered(Filter{Featured: &featured}), limit, 0), nil
}

func (r *RepoMock) ByCategory(_ context.Context, category string, limit int) ([]*Article, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return paged(r.filtered(Filter{Category: category}), limit, 0), nil
}

func (r *RepoMock) Update(_ context.Context, id int, update *Update) (*Article, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	a, ok := r.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	if cols, _ := update.set(); len(cols) > 0 {
		update.apply(a)
		a.UpdatedAt = r.now()
	}
	cp := *a
	return &cp, nil
}

func (r *RepoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.articles[id]; !ok {
		return ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *RepoMock) Count(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.articles), nil
}

func (r *RepoMock) TotalViews(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	views := 0
	for _, a := range r.articles {
		views += a.Views
	}
	return views, nil
}
