package models

import (
	"fmt"
	"strings"
	"time"
)

// Song is a single playlist entry. Artist and Title are always trimmed of
// surrounding whitespace; an entry extracted without an "Artist - Title"
// separator carries the sentinel artist "Unknown Artist".
type Song struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// String renders the song in the canonical "Artist - Title" form.
func (s Song) String() string {
	return s.Artist + " - " + s.Title
}

// Draft is the in-memory playlist produced by a pipeline run. It is created
// transiently per run and persisted only when a caller identity is available.
//
// Songs keeps extraction order. RawSongs holds the pre-split strings the
// structured entries were built from; they are the dedup keys for merging
// supplemental extraction passes.
type Draft struct {
	Title       string   `json:"title"`
	Songs       []Song   `json:"songs"`
	RawSongs    []string `json:"-"`
	SourceURL   string   `json:"sourceUrl"`
	SearchQuery string   `json:"searchQuery"`
}

// PersistedPlaylist is a saved playlist owned by a user.
type PersistedPlaylist struct {
	id          string
	sequence    int
	userID      string
	title       string
	searchQuery string
	sourceURL   string
	songs       []Song
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewPersistedPlaylist creates a playlist entity from a pipeline draft for the given owner.
func NewPersistedPlaylist(sequence int, userID string, draft Draft) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		sequence:    sequence,
		userID:      userID,
		title:       draft.Title,
		searchQuery: draft.SearchQuery,
		sourceURL:   draft.SourceURL,
		songs:       draft.Songs,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (p *PersistedPlaylist) ID() string           { return p.id }
func (p *PersistedPlaylist) Sequence() int        { return p.sequence }
func (p *PersistedPlaylist) UserID() string       { return p.userID }
func (p *PersistedPlaylist) Title() string        { return p.title }
func (p *PersistedPlaylist) SearchQuery() string  { return p.searchQuery }
func (p *PersistedPlaylist) SourceURL() string    { return p.sourceURL }
func (p *PersistedPlaylist) Songs() []Song        { return p.songs }
func (p *PersistedPlaylist) CreatedAt() time.Time { return p.createdAt }
func (p *PersistedPlaylist) UpdatedAt() time.Time { return p.updatedAt }
func (p *PersistedPlaylist) DeletedAt() *time.Time { return p.deletedAt }

func (p *PersistedPlaylist) SetID(id string)             { p.id = id }
func (p *PersistedPlaylist) SetSongs(songs []Song)       { p.songs = songs }
func (p *PersistedPlaylist) SetCreatedAt(t time.Time)    { p.createdAt = t }
func (p *PersistedPlaylist) SetUpdatedAt(t time.Time)    { p.updatedAt = t }
func (p *PersistedPlaylist) SetDeletedAt(t *time.Time)   { p.deletedAt = t }

// Validate checks playlist invariants before persistence. A playlist may have
// zero songs (a thin result is still a result) but never a blank title or
// missing owner.
func (p *PersistedPlaylist) Validate() error {
	if strings.TrimSpace(p.title) == "" {
		return fmt.Errorf("playlist title is required")
	}
	if p.userID == "" {
		return fmt.Errorf("playlist owner is required")
	}
	for i, song := range p.songs {
		if song.Title == "" {
			return fmt.Errorf("song %d has an empty title", i)
		}
	}
	return nil
}

// Draft converts the entity back into its DTO form.
func (p *PersistedPlaylist) Draft() Draft {
	return Draft{
		Title:       p.title,
		Songs:       p.songs,
		SourceURL:   p.sourceURL,
		SearchQuery: p.searchQuery,
	}
}
