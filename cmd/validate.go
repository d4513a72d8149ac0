package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.infratographer.com/haproxy-diagram/internal/converter"
)

// validateCmd parses an haproxy config and cross-checks it against the haproxytech parser
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "parses an haproxy config and cross-checks its sections with the haproxytech parser",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validate(cmd.Context(), viper.GetViper())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validate(ctx context.Context, v *viper.Viper) error {
	path := v.GetString("haproxy.config")
	if path == "" {
		return ErrHAProxyConfigPathRequired
	}

	conv := &converter.Converter{
		Logger: logger,
		Source: converter.FileSource{Path: path},
	}

	cfg, err := conv.Parse(ctx)
	if err != nil {
		return err
	}

	if err := converter.CrossCheck(path, cfg); err != nil {
		return err
	}

	logger.Infow("haproxy config is valid",
		"file", path,
		"defaults", len(cfg.Defaults()),
		"frontends", len(cfg.Frontends()),
		"backends", len(cfg.Backends()),
	)

	return nil
}
