package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/querygate-io/querygate/internal/api"
	"github.com/querygate-io/querygate/internal/config"
	"github.com/querygate-io/querygate/internal/query"
	"github.com/querygate-io/querygate/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API",
	Long: `Serve the query API for every model declared in querygate.yaml.

Examples:
  querygate serve
  querygate serve --debug`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.Connect(context.Background(), cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	server := api.NewServer(cfg, db, query.NewRegistry())
	for _, mc := range cfg.Models {
		server.RegisterModel(modelFromConfig(mc))
		log.Info().Str("table", mc.Table).Msg("Registered model")
	}
	return server.Listen()
}

func modelFromConfig(mc config.ModelConfig) *query.Model {
	fields := make([]query.Field, 0, len(mc.Fields))
	for _, fc := range mc.Fields {
		fields = append(fields, query.Field{
			Name:   fc.Name,
			Type:   query.ColumnType(fc.Type),
			Unique: fc.Unique,
		})
	}
	return &query.Model{
		Schema:      mc.Schema,
		Table:       mc.Table,
		Fields:      fields,
		Exposed:     mc.Exposed,
		OwnerColumn: mc.OwnerColumn,
		PrimaryKey:  mc.PrimaryKey,
	}
}
