package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-legalist/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema and seed the administrator
account named by ADMIN_EMAIL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Migrate(context.Background()); err != nil {
			return err
		}
		fmt.Println("Schema up to date.")
		return nil
	},
}

var (
	seedEmail    string
	seedPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account if no user with that email exists.
An existing account is left unchanged.

Examples:
  legalctl seed-admin --email admin@firm.example --password 's3cret-pass'`,
	Args: cobra.NoArgs,
	RunE: runSeedAdmin,
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "", "admin email (default ADMIN_EMAIL)")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "admin password (default ADMIN_PASSWORD)")
}

func runSeedAdmin(cmd *cobra.Command, args []string) error {
	email, password := seedEmail, seedPassword
	if email == "" {
		email = cfg.AdminEmail
	}
	if password == "" {
		password = cfg.AdminPassword
	}
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	if err := database.Migrate(application.DB); err != nil {
		return err
	}
	user, created, err := application.AuthService.SeedAdmin(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		fmt.Printf("Created admin %s (id %d)\n", user.Email, user.ID)
	} else {
		fmt.Printf("User %s already exists (id %d)\n", user.Email, user.ID)
	}
	return nil
}
