package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/database"
)

func newIndexesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.AppEnv.MongoURI == "" {
				return fmt.Errorf("missing required settings: MONGO_URI")
			}

			client, err := database.Connect(config.AppEnv.MongoURI)
			if err != nil {
				return fmt.Errorf("connect mongo: %w", err)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			if err := database.EnsureIndexes(client.Database(config.AppEnv.DBName)); err != nil {
				return err
			}
			log.Println("[DB] [INFO] indexes ready")
			return nil
		},
	}
}
