package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account and stores it in the session slot.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	u, err := svc.Accounts.Register(ctx, cmd.String("email"), cmd.String("username"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Registered and signed in as %s <%s>\n", u.Username, u.Email)
}

// AuthLogin signs in with an email and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	u, err := svc.Accounts.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s\n", u.Username)
}

// AuthLogout clears the session slot.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if err := svc.Accounts.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthReset replaces the password of the account with the given email.
func (r *Runner) AuthReset(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	if err := svc.Accounts.ResetPassword(ctx, cmd.String("email"), cmd.String("password")); err != nil {
		return err
	}
	return r.writePlain("✓ Password updated, sign in with 'kedoo auth login'\n")
}

// AuthWhoami prints the signed-in user.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	u, err := svc.Accounts.Current(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(u.Redacted(), cmd.Bool("pretty"))
	}

	r.writePlain("[%s] %s\n", u.Initial(), u.Username)
	r.writePlain("Email: %s\n", u.Email)
	r.writePlain("ID:    %s\n", u.ID)
	return nil
}

// AuthProfile changes the signed-in user's email and/or password.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	if !cmd.IsSet("email") && !cmd.IsSet("password") {
		return fmt.Errorf("%w: --email or --password", shared.ErrMissingArgument)
	}

	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	u, err := svc.Accounts.UpdateProfile(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Profile updated for %s <%s>\n", u.Username, u.Email)
}
