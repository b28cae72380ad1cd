package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roundtable-dev/roundtable/internal/config"
	"github.com/roundtable-dev/roundtable/internal/models"
	"github.com/roundtable-dev/roundtable/internal/openrouter"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the free models available for debate agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := mergeFlags(cmd, cfg); err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("API key required: set --api-key flag or OPENROUTER_API_KEY env var")
			}

			client := openrouter.NewClient(cfg.APIKey)
			allModels, err := client.ListModels(cmd.Context())
			if err != nil {
				fmt.Printf("Warning: could not fetch models: %v. Using defaults.\n", err)
				allModels = models.DefaultFreeModels()
			}

			registry := models.NewRegistry(allModels)
			free := registry.FreeModels()
			if len(free) == 0 {
				free = models.DefaultFreeModels()
			}
			for _, m := range free {
				fmt.Printf("%-45s %s\n", m.ID, m.Name)
			}
			return nil
		},
	}
}
