package podcast

import (
	"time"

	"github.com/google/uuid"
)

// Podcast is one published audio episode.
type Podcast struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	AudioURL  string    `json:"audio_url"`
	Duration  int       `json:"duration"` // seconds
	FileSize  int64     `json:"file_size,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
