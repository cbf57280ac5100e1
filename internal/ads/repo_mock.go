package ads

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ adsRepo = (*RepoMock)(nil)

type RepoMock struct {
	mutex  sync.Mutex
	ads    map[int]*Advertisement
	nextID int
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		ads: make(map[int]*Advertisement),
	}
}

func (r *RepoMock) Create(_ context.Context, ad *Advertisement) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextID++
	ad.ID = r.nextID
	ad.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	ad.UpdatedAt = ad.CreatedAt
	stored := *ad
	r.ads[ad.ID] = &stored
	return nil
}

func (r *RepoMock) Get(_ context.Context, id int) (*Advertisement, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ad, ok := r.ads[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ad
	return &cp, nil
}

func (r *RepoMock) List(_ context.Context, filter Filter) ([]*Advertisement, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ads := make([]*Advertisement, 0)
	for _, ad := range r.ads {
		if filter.Placement != "" && ad.Placement != filter.Placement {
			continue
		}
		if filter.IsPublished != nil && ad.IsPublished != *filter.IsPublished {
			continue
		}
		cp := *ad
		ads = append(ads, &cp)
	}
	sort.Slice(ads, func(i, j int) bool {
		return ads[i].CreatedAt.After(ads[j].CreatedAt)
	})
	return ads, nil
}

func (r *RepoMock) Update(_ context.Context, id int, cols []string, vals []any) (*Advertisement, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ad, ok := r.ads[id]
	if !ok {
		return nil, ErrNotFound
	}
	for i, col := range cols {
		switch col {
		case "title":
			ad.Title = vals[i].(string)
		case "placement":
			ad.Placement = vals[i].(string)
		case "media_url":
			ad.MediaURL = vals[i].(*string)
		case "link_url":
			ad.LinkURL = vals[i].(*string)
		case "is_published":
			ad.IsPublished = vals[i].(bool)
		}
	}
	if len(cols) > 0 {
		ad.UpdatedAt = time.Now()
	}
	cp := *ad
	return &cp, nil
}

func (r *RepoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.ads[id]; !ok {
		return ErrNotFound
	}
	delete(r.ads, id)
	return nil
}

func (r *RepoMock) Count(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.ads), nil
}
