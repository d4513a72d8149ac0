package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.infratographer.com/x/viperx"

	"go.infratographer.com/haproxy-diagram/internal/config"
	"go.infratographer.com/haproxy-diagram/internal/converter"
	"go.infratographer.com/haproxy-diagram/internal/dataplaneapi"
)

const defaultOutputFile = "haproxy_diagram.puml"

// renderCmd converts an haproxy config into a PlantUML diagram
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "renders an haproxy config as a PlantUML diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd.Context(), viper.GetViper())
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.PersistentFlags().String("frontend", "", "render only this frontend and its routes")
	viperx.MustBindFlag(viper.GetViper(), "filter.frontend", renderCmd.PersistentFlags().Lookup("frontend"))

	renderCmd.PersistentFlags().String("backend", "", "render only this backend and the routes to it")
	viperx.MustBindFlag(viper.GetViper(), "filter.backend", renderCmd.PersistentFlags().Lookup("backend"))

	renderCmd.PersistentFlags().String("output", defaultOutputFile, "file the diagram is written to")
	viperx.MustBindFlag(viper.GetViper(), "output.file", renderCmd.PersistentFlags().Lookup("output"))
}

func render(ctx context.Context, v *viper.Viper) error {
	if err := validateRenderFlags(v); err != nil {
		return err
	}

	conv := &converter.Converter{
		Logger:         logger,
		Source:         newSource(v),
		FrontendFilter: config.AppConfig.Filter.Frontend,
		BackendFilter:  config.AppConfig.Filter.Backend,
	}

	logger.Debugw("rendering diagram",
		"source", conv.Source.String(),
		"frontend", conv.FrontendFilter,
		"backend", conv.BackendFilter,
	)

	diagram, err := conv.ConvertTo(ctx, v.GetString("output.file"))
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, diagram)

	return nil
}

// newSource picks the dataplane api when a url is set, the config file otherwise
func newSource(v *viper.Viper) converter.Source {
	if url := v.GetString("dataplane.url"); url != "" {
		return converter.DataplaneSource{
			Client: dataplaneapi.NewClient(url, dataplaneapi.WithLogger(logger)),
			URL:    url,
		}
	}

	return converter.FileSource{Path: v.GetString("haproxy.config")}
}

// validateRenderFlags collects the mandatory flag validation
func validateRenderFlags(v *viper.Viper) error {
	errs := []error{}

	path, url := v.GetString("haproxy.config"), v.GetString("dataplane.url")

	switch {
	case path == "" && url == "":
		errs = append(errs, ErrHAProxyConfigRequired)
	case path != "" && url != "":
		errs = append(errs, ErrConflictingSources)
	}

	if v.GetString("output.file") == "" {
		errs = append(errs, ErrOutputFileRequired)
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(errs...) //nolint:goerr113
}
