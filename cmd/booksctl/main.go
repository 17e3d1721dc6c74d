// booksctl is the operator CLI: schema migrations and partner account
// management. Partner accounts are created here, out of band; the API has
// no signup surface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bathingculture/books/internal/config"
	"github.com/bathingculture/books/internal/database"
	"github.com/bathingculture/books/internal/user"
	userStore "github.com/bathingculture/books/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "booksctl",
		Short:         "Operator tooling for the books service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd(), createUserCmd(), setPasswordCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if err := database.Migrate(cfg.ConnectionString()); err != nil {
				return err
			}

			fmt.Println("migrations applied")

			return nil
		},
	}
}

func userService() (*user.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, err
	}

	return user.NewService(userStore.New(db)), func() { db.Close() }, nil
}

func createUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-user <username> <password>",
		Short: "Create a partner account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := userService()
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := svc.Create(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("created user %s (id %d)\n", u.Username, u.ID)

			return nil
		},
	}
}

func setPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password <user-id> <password>",
		Short: "Reset a partner's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			svc, cleanup, err := userService()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.ChangePassword(cmd.Context(), id, args[1]); err != nil {
				return err
			}

			fmt.Println("password updated")

			return nil
		},
	}
}
