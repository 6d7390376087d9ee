package services

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/memorylane/internal/server/access"
	"github.com/dmitrijs2005/memorylane/internal/server/models"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/repomanager"
)

// excerptLen is how much content list views carry before the ellipsis.
const excerptLen = 115

// MemoryInput carries the caller-settable fields of a memory. The owner is
// never part of the input; it always comes from the acting identity.
type MemoryInput struct {
	Content  string
	CoverURL string
	Date     *time.Time
	IsPublic bool
}

// MemoryExcerpt is the list-view projection of a memory.
type MemoryExcerpt struct {
	ID        string
	CoverURL  string
	Excerpt   string
	Date      *time.Time
	CreatedAt time.Time
}

// OwnerProfile is the public slice of a user shown above their feed.
type OwnerProfile struct {
	Name      string
	AvatarURL string
}

// PublicFeed bundles an owner profile with their public memories.
type PublicFeed struct {
	User     OwnerProfile
	Memories []MemoryExcerpt
}

// Memories implements the journal operations. Every read or write of an
// existing row confirms existence first, then consults the access policy;
// visibility is never evaluated for absent rows.
type Memories struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewMemories constructs the Memories service.
func NewMemories(db *sql.DB, m repomanager.RepositoryManager) *Memories {
	return &Memories{db: db, repomanager: m}
}

// Excerpt returns the first excerptLen runes of content with "..." appended.
// The suffix is unconditional, matching the list views of the original
// product even when the content is shorter than the cutoff.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) > excerptLen {
		runes := []rune(content)
		return string(runes[:excerptLen]) + "..."
	}
	return content + "..."
}

func toExcerpts(ms []*models.Memory) []MemoryExcerpt {
	out := make([]MemoryExcerpt, 0, len(ms))
	for _, m := range ms {
		out = append(out, MemoryExcerpt{
			ID:        m.ID,
			CoverURL:  m.CoverURL,
			Excerpt:   Excerpt(m.Content),
			Date:      m.Date,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

// ListOwn returns the actor's memories, oldest first, as excerpts.
func (s *Memories) ListOwn(ctx context.Context, actor access.Actor) ([]MemoryExcerpt, error) {
	ms, err := s.repomanager.Memories(s.db).ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toExcerpts(ms), nil
}

// GetPublicFeed returns another user's profile and public memories. An absent
// owner reports common.ErrorNotFound; an owner with no public memories is a
// success with an empty list.
func (s *Memories) GetPublicFeed(ctx context.Context, ownerID string) (*PublicFeed, error) {
	owner, err := s.repomanager.Users(s.db).GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ms, err := s.repomanager.Memories(s.db).ListPublicByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &PublicFeed{
		User:     OwnerProfile{Name: owner.Name, AvatarURL: owner.AvatarURL},
		Memories: toExcerpts(ms),
	}, nil
}

// Get returns the full record of one memory, policy-checked.
func (s *Memories) Get(ctx context.Context, actor access.Actor, id string) (*models.Memory, error) {
	m, err := s.repomanager.Memories(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanView(actor, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new memory owned by the actor. Whatever owner a request
// body might have carried never reaches this point.
func (s *Memories) Create(ctx context.Context, actor access.Actor, in MemoryInput) (*models.Memory, error) {
	return s.repomanager.Memories(s.db).Create(ctx, &models.Memory{
		UserID:   actor.UserID,
		Content:  in.Content,
		CoverURL: in.CoverURL,
		Date:     in.Date,
		IsPublic: in.IsPublic,
	})
}

// Update overwrites the mutable fields of a memory after the ownership check.
func (s *Memories) Update(ctx context.Context, actor access.Actor, id string, in MemoryInput) (*models.Memory, error) {
	repo := s.repomanager.Memories(s.db)

	m, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanMutate(actor, m); err != nil {
		return nil, err
	}

	return repo.Update(ctx, &models.Memory{
		ID:       id,
		Content:  in.Content,
		CoverURL: in.CoverURL,
		Date:     in.Date,
		IsPublic: in.IsPublic,
	})
}

// Delete removes a memory after the ownership check.
func (s *Memories) Delete(ctx context.Context, actor access.Actor, id string) error {
	repo := s.repomanager.Memories(s.db)

	m, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CanMutate(actor, m); err != nil {
		return err
	}

	return repo.Delete(ctx, id)
}
