// Package seed creates demo data for local development
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/collabhub/internal/app/models"
	appRepos "github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/auth"
	"github.com/yigit/collabhub/internal/pkg/helpers"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "Password123!"

type demoUser struct {
	username string
	name     string
	email    string
}

var demoUsers = []demoUser{
	{"alice", "Alice Doe", "alice@example.com"},
	{"bob", "Bob Roe", "bob@example.com"},
}

// CreateDefaultData creates demo users and a project looking for contributors.
// Existing rows are left untouched so the command can be run repeatedly.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data...")

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	var finalErr error
	users := make(map[string]*appModels.User, len(demoUsers))
	for _, du := range demoUsers {
		user, err := ensureUser(ctx, repos.UserRepository, du, hash)
		if err != nil {
			lgr.Error().Err(err).Str("username", du.username).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		users[du.username] = user
	}

	owner, ok := users["alice"]
	if !ok {
		return finalErr
	}

	title := "Campus Ride Share"
	_, err = repos.ProjectRepository.FindBySlug(ctx, owner.ID, helpers.Slugify(title))
	switch {
	case err == nil:
		lgr.Info().Msg("Demo project already exists")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		ts := time.Now().UTC()
		project := &appModels.Project{
			ID:                     uuid.New(),
			OwnerID:                owner.ID,
			Title:                  title,
			Slug:                   helpers.Slugify(title),
			Description:            "Match students commuting to campus so they can share rides.",
			Domain:                 "Mobility",
			TechStack:              []string{"Go", "PostgreSQL", "React"},
			Status:                 appModels.ProjectStatusOngoing,
			LookingForContributors: true,
			CreatedAt:              ts,
			UpdatedAt:              ts,
		}
		if err := repos.ProjectRepository.Create(ctx, project); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo project")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("slug", project.Slug).Msg("Demo project created")
		}
	default:
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func ensureUser(ctx context.Context, users *appRepos.UserRepository, du demoUser, hash string) (*appModels.User, error) {
	existing, err := users.FindByUsername(ctx, du.username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	ts := time.Now().UTC()
	user := &appModels.User{
		ID:           uuid.New(),
		Username:     du.username,
		Name:         du.name,
		Email:        du.email,
		PasswordHash: &hash,
		AuthProvider: appModels.AuthProviderLocal,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
