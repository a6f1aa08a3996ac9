package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/repositories"
	"github.com/duskrunner/vibemix/internal/shared"
	"github.com/urfave/cli/v3"
)

// UserCreate creates a user and prints their generated API token.
//
// The token is shown once; it is how HTTP callers identify themselves.
func (r *Runner) UserCreate(ctx context.Context, cmd *cli.Command) error {
	email := strings.TrimSpace(cmd.String("email"))
	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		name = email
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	user := models.NewUser(0, email, name, shared.GenerateID())
	if err := repositories.NewUserRepository(db).Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.writePlain("created user %s\n", user.ID())
	r.writePlain("api token: %s\n", user.APIToken())
	return nil
}

// UserList lists users.
func (r *Runner) UserList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := repositories.NewUserRepository(db).List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, 0, len(users))
		for _, u := range users {
			out = append(out, map[string]any{
				"id":    u.ID(),
				"email": u.Email(),
				"name":  u.Name(),
			})
		}
		return r.writeJSON(map[string]any{"users": out}, false)
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		r.writePlain("%s  %-30s  %s\n", u.ID(), u.Email(), u.Name())
	}
	return nil
}
