package podcast

import (
	"context"

	"github.com/google/uuid"
)

var _ Api = (*Repo)(nil)
var _ Api = (*TestApi)(nil)

type Api interface {
	Add(ctx context.Context, podcast *Podcast) (*Podcast, error)
	Get(ctx context.Context, id uuid.UUID) (*Podcast, error)
	Update(ctx context.Context, podcast *Podcast) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Podcast, error)
}
