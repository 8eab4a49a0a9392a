package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// AuthLogin runs the delegated authorization flow for the given handle.
//
// Starts a local HTTP server, opens a browser for user authorization on the
// PDS, and exchanges the auth code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	handle := cmd.StringArg("handle")

	r.logger.Info("starting sign-in", "handle", handle)

	session, err := r.sessions.BeginInteractiveSignIn(ctx, handle)
	if err != nil {
		return err
	}

	r.writePlain("✓ Signed in as %s\n", session.Handle)
	r.writePlain("DID: %s\n", session.DID)

	return nil
}

// AuthLogout signs out and discards the saved session. Revocation is
// best-effort; local state is cleared regardless.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.sessions.Current() == nil {
		r.sessions.InitOrRestore(ctx)
	}

	if r.sessions.Current() == nil {
		return r.writePlain("Not signed in\n")
	}

	r.sessions.SignOut(ctx)
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami shows the signed-in account, if any.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	if r.sessions.Current() == nil {
		r.sessions.InitOrRestore(ctx)
	}

	session := r.sessions.Current()
	if session == nil {
		if useJSON {
			return r.writeJSON(map[string]any{"signed_in": false}, true)
		}
		return r.writePlain("✗ Not signed in\n")
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"signed_in": true,
			"handle":    session.Handle,
			"did":       session.DID,
		}, true)
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Handle: %s\n", session.Handle)
	r.writePlain("DID: %s\n", session.DID)
	r.writePlain("Host: %s\n", r.client.Host())

	return nil
}
