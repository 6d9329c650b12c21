package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/users"
)

// newGrantRoleCommand bootstraps the first admin, which no HTTP route can do.
func newGrantRoleCommand() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "grant-role <email>",
		Short: "Set the role of an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := models.Role(strings.ToLower(strings.TrimSpace(role)))
			if !target.IsValid() {
				return fmt.Errorf("invalid role %q: must be one of user, manager, admin", role)
			}
			if config.AppEnv.MongoURI == "" {
				return fmt.Errorf("missing required settings: MONGO_URI")
			}

			client, err := database.Connect(config.AppEnv.MongoURI)
			if err != nil {
				return fmt.Errorf("connect mongo: %w", err)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			svc := users.NewService(client.Database(config.AppEnv.DBName), config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL)
			user, err := svc.GrantRole(ctx, args[0], target)
			if err != nil {
				return err
			}
			cmd.Printf("%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "Role to grant (user, manager, admin)")
	return cmd
}
