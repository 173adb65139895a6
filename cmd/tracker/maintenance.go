package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/educationaltr/study-tracker/internal/application/command"
	"github.com/educationaltr/study-tracker/internal/infrastructure/auth"
)

func newMigrateCommand() *cobra.Command {
	var rollback bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if rollback {
				if err := a.store.Rollback(cmd.Context()); err != nil {
					return fmt.Errorf("failed to roll back: %w", err)
				}
				color.Yellow("rolled back the latest migration on %s", a.store.Driver)
				return nil
			}

			ran, err := a.store.Migrate(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			if ran == 0 {
				fmt.Println("schema is up to date")
				return nil
			}
			color.Green("applied %d migration(s) on %s", ran, a.store.Driver)
			return nil
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "revert the most recent migration (postgres only)")
	return cmd
}

func newSeedAdminCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the default admin account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			created, err := a.seedAdmin(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				color.Green("admin %q created", a.cfg.Auth.AdminUsername)
			} else {
				fmt.Printf("admin %q already exists\n", a.cfg.Auth.AdminUsername)
			}
			return nil
		},
	}
}

func (a *app) seedAdmin(ctx context.Context) (bool, error) {
	handler := command.NewSeedAdminHandler(a.store.Students, auth.NewBcryptHasher(a.cfg.Auth.BcryptCost), a.log)
	created, err := handler.Handle(ctx, command.SeedAdminCommand{
		Username: a.cfg.Auth.AdminUsername,
		Password: a.cfg.Auth.AdminPassword,
		FullName: a.cfg.Auth.AdminFullName,
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	return created, nil
}
