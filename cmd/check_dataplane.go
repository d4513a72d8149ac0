package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.infratographer.com/x/viperx"

	"go.infratographer.com/haproxy-diagram/internal/dataplaneapi"
)

// checkDataplaneCmd checks the connection to the dataplaneapi
var checkDataplaneCmd = &cobra.Command{
	Use:   "check_dataplane",
	Short: "checks the connection to the dataplaneapi used by render --dataplane-url",
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkDataPlane(cmd.Context(), viper.GetViper())
	},
}

const (
	defaultRetryLimit    = 3
	defaultRetryInterval = 1 * time.Second
)

func init() {
	rootCmd.AddCommand(checkDataplaneCmd)

	checkDataplaneCmd.PersistentFlags().Int("retries", defaultRetryLimit, "Number of attempts to verify connection to DataplaneAPI")
	viperx.MustBindFlag(viper.GetViper(), "retries", checkDataplaneCmd.PersistentFlags().Lookup("retries"))

	checkDataplaneCmd.PersistentFlags().Duration("retry-interval", defaultRetryInterval, "Interval between checks")
	viperx.MustBindFlag(viper.GetViper(), "retry-interval", checkDataplaneCmd.PersistentFlags().Lookup("retry-interval"))
}

func checkDataPlane(ctx context.Context, v *viper.Viper) error {
	if v.GetString("dataplane.url") == "" {
		return ErrDataplaneURLRequired
	}

	client := dataplaneapi.NewClient(v.GetString("dataplane.url"), dataplaneapi.WithLogger(logger))

	if err := client.WaitForDataPlaneReady(
		ctx,
		v.GetInt("retries"),
		v.GetDuration("retry-interval"),
	); err != nil {
		logger.Errorw("dataplane api is not ready", "error", err)
		return err
	}

	return nil
}
