package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// AccountService handles registration, sign-in and profile changes.
type AccountService struct {
	store  RecordStore
	logger *log.Logger
}

func NewAccountService(st RecordStore, logger *log.Logger) *AccountService {
	return &AccountService{store: st, logger: shared.WithLogger(logger, "service", "accounts")}
}

// Register creates a user and signs them in. Emails are unique, compared exactly.
func (a *AccountService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: email, username and password are required", shared.ErrMissingArgument)
	}

	if _, err := a.store.UserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrEmailTaken, email)
	} else if !errors.Is(err, shared.ErrUserNotFound) {
		return nil, err
	}

	u := models.NewUser(shared.GenerateID(), email, username, password)
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := a.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	if err := a.store.SetCurrentUser(ctx, u); err != nil {
		return nil, err
	}

	a.logger.Info("registered user", "id", u.ID, "email", u.Email)
	return u.Redacted(), nil
}

// Login signs in the user with exactly matching credentials.
func (a *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := a.store.FindUser(ctx, strings.TrimSpace(email), password)
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := a.store.SetCurrentUser(ctx, u); err != nil {
		return nil, err
	}
	a.logger.Info("signed in", "id", u.ID)
	return u.Redacted(), nil
}

// ResetPassword sets a new password for the account registered with email. It does not sign in.
func (a *AccountService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password", shared.ErrMissingArgument)
	}

	u, err := a.store.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	if _, err := a.store.UpdateUser(ctx, u.ID, models.UserPatch{Password: &newPassword}); err != nil {
		return err
	}
	a.logger.Info("password reset", "id", u.ID)
	return nil
}

// Logout clears the session slot.
func (a *AccountService) Logout(ctx context.Context) error {
	return a.store.SetCurrentUser(ctx, nil)
}

// Current returns the signed-in user without a password.
func (a *AccountService) Current(ctx context.Context) (*models.User, error) {
	return session(ctx, a.store)
}

// UpdateProfile changes the signed-in user's email and password. Empty values leave the field unchanged.
func (a *AccountService) UpdateProfile(ctx context.Context, email, password string) (*models.User, error) {
	current, err := session(ctx, a.store)
	if err != nil {
		return nil, err
	}

	var patch models.UserPatch
	if email = strings.TrimSpace(email); email != "" && email != current.Email {
		other, err := a.store.UserByEmail(ctx, email)
		switch {
		case err == nil && other.ID != current.ID:
			return nil, fmt.Errorf("%w: %s", shared.ErrEmailTaken, email)
		case err != nil && !errors.Is(err, shared.ErrUserNotFound):
			return nil, err
		}
		if err := models.ValidateEmail(email); err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if password != "" {
		patch.Password = &password
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := a.store.UpdateUser(ctx, current.ID, patch)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetCurrentUser(ctx, updated); err != nil {
		return nil, err
	}
	a.logger.Info("profile updated", "id", updated.ID)
	return updated.Redacted(), nil
}
