package main

import (
	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/transport"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctr, err := ctx.ensureContainer()
			if err != nil {
				return err
			}
			return transport.Serve(cmd.Context(), cfg, ctr.Handler())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides config)")

	return cmd
}
