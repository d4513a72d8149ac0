package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"go.infratographer.com/haproxy-diagram/internal/converter"
)

// dumpCmd prints the parsed haproxy config model as yaml
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "prints the parsed haproxy config as yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dump(cmd.Context(), viper.GetViper())
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func dump(ctx context.Context, v *viper.Viper) error {
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

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)

	if err := enc.Encode(cfg); err != nil {
		return err
	}

	return enc.Close()
}
