package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"devfolio/internal/config"
	"devfolio/internal/database"
	"devfolio/internal/store"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin console accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an admin console account. The portfolio is single-operator
by convention, but additional accounts are allowed.

Example:
  devfolio admin create --email you@example.com --password 'pick-a-long-one' --name "Your Name"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdminCreate()
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Account email (required)")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Account password (required)")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	adminCreateCmd.MarkFlagRequired("email")
	adminCreateCmd.MarkFlagRequired("password")
}

func runAdminCreate() error {
	if len(adminPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	users := store.NewUserStore(db)
	if existing, err := users.FindByEmail(adminEmail); err != nil {
		return fmt.Errorf("lookup account: %w", err)
	} else if existing != nil {
		return fmt.Errorf("an account with email %s already exists", adminEmail)
	}

	name := adminName
	if name == "" {
		name = adminEmail
	}

	user, err := users.Create(adminEmail, adminPassword, name)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	slog.Info("admin account created", "id", user.ID, "email", user.Email)
	return nil
}
