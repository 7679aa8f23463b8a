package main

import (
	"context"

	"github.com/desertthunder/sonora/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in, exchanging credentials for an API token when the API supports it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authStore()
	if err != nil {
		return err
	}

	user, err := auth.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	if auth.Token() == nil {
		r.logger.Info("signed in with a local session", "email", user.Email)
	}
	return r.writePlain("✓ Signed in as %s <%s>\n", user.Name, user.Email)
}

// AuthSignup creates a local account.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authStore()
	if err != nil {
		return err
	}

	user, err := auth.Signup(ctx, cmd.String("name"), cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Welcome, %s\n", user.Name)
}

// AuthLogout clears the session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authStore()
	if err != nil {
		return err
	}
	if err := auth.Logout(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami prints the signed-in user.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authStore()
	if err != nil {
		return err
	}

	st := auth.State()
	if !st.Authenticated || st.User == nil {
		return shared.ErrNotAuthenticated
	}
	if cmd.Bool("json") {
		return r.writeJSON(st.User, cmd.Bool("pretty"))
	}
	return r.writePlain("%s <%s> (%s)\n", st.User.Name, st.User.Email, st.User.ID)
}
