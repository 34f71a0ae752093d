// Package services holds the CLI's client-side workflows: the persisted
// session, the assistant requests built from the caller's journal and the
// reminder subscription toggle.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/client/models"
	"github.com/dmitrijs2005/learnjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/dbx"
)

// Metadata keys of the session.
const (
	keyEmail        = "email"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// SessionAPI is the part of the API client the session needs.
type SessionAPI interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (models.TokenPair, error)
	Logout(ctx context.Context) error
	SetTokens(pair models.TokenPair)
}

// AuthService keeps the server session and its local copy in step.
type AuthService struct {
	api SessionAPI
	db  *sql.DB
}

func NewAuthService(api SessionAPI, db *sql.DB) *AuthService {
	return &AuthService{api: api, db: db}
}

func (a *AuthService) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *AuthService) Register(ctx context.Context, email string, password []byte) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return common.NewValidationError("email", "invalid email")
	}
	return a.api.Register(ctx, email, string(password))
}

// Login authenticates and records the e-mail. The tokens themselves are
// written by SaveTokens, which the API client calls for every pair it
// receives.
func (a *AuthService) Login(ctx context.Context, email string, password []byte) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := a.api.Login(ctx, email, string(password)); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.repo(a.db).Set(ctx, keyEmail, []byte(email)); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// SaveTokens persists a token pair in one transaction.
func (a *AuthService) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := a.repo(tx)
		if err := r.Set(ctx, keyAccessToken, []byte(pair.AccessToken)); err != nil {
			return err
		}
		return r.Set(ctx, keyRefreshToken, []byte(pair.RefreshToken))
	})
}

// Restore loads a saved session into the API client and returns the
// e-mail it belongs to. An empty e-mail means nobody is logged in.
func (a *AuthService) Restore(ctx context.Context) (string, error) {
	r := a.repo(a.db)
	at, err := r.Get(ctx, keyAccessToken)
	if err != nil {
		return "", err
	}
	rt, err := r.Get(ctx, keyRefreshToken)
	if err != nil {
		return "", err
	}
	if len(at) == 0 && len(rt) == 0 {
		return "", nil
	}
	email, err := r.Get(ctx, keyEmail)
	if err != nil {
		return "", err
	}
	a.api.SetTokens(models.TokenPair{AccessToken: string(at), RefreshToken: string(rt)})
	return string(email), nil
}

// Logout revokes the session server-side and always forgets it locally,
// even when the server could not be reached.
func (a *AuthService) Logout(ctx context.Context) error {
	apiErr := a.api.Logout(ctx)
	if err := a.repo(a.db).Delete(ctx, keyEmail, keyAccessToken, keyRefreshToken); err != nil {
		return err
	}
	return apiErr
}
