package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/dbx"
	"github.com/dmitrijs2005/memorylane/internal/server/models"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/memories"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/users"
)

// fakeUsersRepo is an in-memory users.Repository keyed by github id.
type fakeUsersRepo struct {
	byID     map[string]*models.User
	byGithub map[int64]*models.User
	seq      int
	err      error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}, byGithub: map[int64]*models.User{}}
}

func (r *fakeUsersRepo) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if existing, ok := r.byGithub[user.GithubID]; ok {
		return existing, nil
	}
	r.seq++
	u := *user
	u.ID = fmt.Sprintf("u-%d", r.seq)
	u.CreatedAt = time.Now()
	r.byID[u.ID] = &u
	r.byGithub[u.GithubID] = &u
	return &u, nil
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

// fakeMemoriesRepo is an in-memory memories.Repository preserving insertion
// order, which doubles as creation order.
type fakeMemoriesRepo struct {
	rows []*models.Memory
	seq  int
	err  error
}

func (r *fakeMemoriesRepo) Create(ctx context.Context, m *models.Memory) (*models.Memory, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.seq++
	stored := *m
	stored.ID = fmt.Sprintf("m-%d", r.seq)
	stored.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Hour)
	r.rows = append(r.rows, &stored)
	out := stored
	return &out, nil
}

func (r *fakeMemoriesRepo) GetByID(ctx context.Context, id string) (*models.Memory, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, m := range r.rows {
		if m.ID == id {
			out := *m
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeMemoriesRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Memory, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Memory
	for _, m := range r.rows {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemoriesRepo) ListPublicByOwner(ctx context.Context, userID string) ([]*models.Memory, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Memory
	for _, m := range r.rows {
		if m.UserID == userID && m.IsPublic {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemoriesRepo) Update(ctx context.Context, m *models.Memory) (*models.Memory, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, row := range r.rows {
		if row.ID == m.ID {
			row.Content = m.Content
			row.CoverURL = m.CoverURL
			row.Date = m.Date
			row.IsPublic = m.IsPublic
			out := *row
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeMemoriesRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// fakeRepoManager vends the fakes regardless of the DBTX handed in.
type fakeRepoManager struct {
	users    *fakeUsersRepo
	memories *fakeMemoriesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newFakeUsersRepo(), memories: &fakeMemoriesRepo{}}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoManager) Memories(db dbx.DBTX) memories.Repository { return m.memories }
