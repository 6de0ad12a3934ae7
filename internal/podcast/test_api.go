package podcast

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TestApi is an in-memory implementation used in tests.
type TestApi struct {
	mutex    sync.RWMutex
	podcasts map[uuid.UUID]Podcast
}

func NewTestApi() *TestApi {
	return &TestApi{
		podcasts: make(map[uuid.UUID]Podcast),
	}
}

func (ta *TestApi) Add(_ context.Context, podcast *Podcast) (*Podcast, error) {
	ta.mutex.Lock()
	defer ta.mutex.Unlock()

	if podcast.ID == uuid.Nil {
		podcast.ID = uuid.New()
	}
	if _, ok := ta.podcasts[podcast.ID]; ok {
		return nil, ErrPodcastExists
	}

	now := time.Now()
	podcast.CreatedAt = now
	podcast.UpdatedAt = now
	ta.podcasts[podcast.ID] = *podcast

	return podcast, nil
}

func (ta *TestApi) Get(_ context.Context, id uuid.UUID) (*Podcast, error) {
	ta.mutex.RLock()
	defer ta.mutex.RUnlock()

	p, ok := ta.podcasts[id]
	if !ok {
		return nil, ErrPodcastNotFound
	}
	return &p, nil
}

func (ta *TestApi) Update(_ context.Context, podcast *Podcast) error {
	ta.mutex.Lock()
	defer ta.mutex.Unlock()

	existing, ok := ta.podcasts[podcast.ID]
	if !ok {
		return ErrPodcastNotFound
	}

	podcast.CreatedAt = existing.CreatedAt
	podcast.UpdatedAt = time.Now()
	ta.podcasts[podcast.ID] = *podcast
	return nil
}

func (ta *TestApi) Delete(_ context.Context, id uuid.UUID) error {
	ta.mutex.Lock()
	defer ta.mutex.Unlock()

	if _, ok := ta.podcasts[id]; !ok {
		return ErrPodcastNotFound
	}
	delete(ta.podcasts, id)
	return nil
}

func (ta *TestApi) List(_ context.Context) ([]Podcast, error) {
	ta.mutex.RLock()
	defer ta.mutex.RUnlock()

	podcasts := make([]Podcast, 0, len(ta.podcasts))
	for _, p := range ta.podcasts {
		podcasts = append(podcasts, p)
	}
	sort.Slice(podcasts, func(i, j int) bool {
		return podcasts[i].CreatedAt.After(podcasts[j].CreatedAt)
	})
	return podcasts, nil
}
