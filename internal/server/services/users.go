// Package services contains server-side business logic. This file implements
// the Users service, which turns a GitHub authorization code into a local
// user plus a signed access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/dbx"
	"github.com/dmitrijs2005/memorylane/internal/server/auth"
	"github.com/dmitrijs2005/memorylane/internal/server/config"
	"github.com/dmitrijs2005/memorylane/internal/server/github"
	"github.com/dmitrijs2005/memorylane/internal/server/models"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/repomanager"
)

// Users resolves external identities into local accounts and issues tokens.
type Users struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	identity                    github.IdentityProvider
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUsers constructs the Users service.
func NewUsers(db *sql.DB, m repomanager.RepositoryManager, identity github.IdentityProvider, cfg *config.Config) *Users {
	return &Users{
		db:                          db,
		repomanager:                 m,
		identity:                    identity,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register exchanges the authorization code with the identity provider,
// upserts the local user keyed by the external id, and returns the user
// together with a signed access token. A code the provider rejects yields
// common.ErrorUnauthorized.
func (s *Users) Register(ctx context.Context, code string) (*models.User, string, error) {
	identity, err := s.identity.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", fmt.Errorf("resolving identity: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		var upsertErr error
		user, upsertErr = repo.Upsert(ctx, &models.User{
			GithubID:  identity.GithubID,
			Login:     identity.Login,
			Name:      identity.Name,
			AvatarURL: identity.AvatarURL,
		})
		return upsertErr
	})
	if err != nil {
		return nil, "", fmt.Errorf("error upserting user: %v", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetByID returns the local user with the given id.
func (s *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}
