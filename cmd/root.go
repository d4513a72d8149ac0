// Package cmd is our cobra/viper cli implementation
package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"go.infratographer.com/x/loggingx"
	"go.infratographer.com/x/versionx"
	"go.infratographer.com/x/viperx"

	"go.infratographer.com/haproxy-diagram/internal/config"
)

const appName = "haproxy-diagram"

var (
	cfgFile string
	logger  *zap.SugaredLogger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Draws haproxy configurations as PlantUML diagrams",
	Long: `haproxy-diagram reads an haproxy configuration and renders its global,
defaults, frontend and backend sections, and the routing between frontends
and backends, as a PlantUML class diagram.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/."+appName+".yaml)")

	rootCmd.PersistentFlags().String("haproxy-config", "", "path to the haproxy config file")
	viperx.MustBindFlag(viper.GetViper(), "haproxy.config", rootCmd.PersistentFlags().Lookup("haproxy-config"))

	rootCmd.PersistentFlags().String("dataplane-url", "", "DataplaneAPI base url, e.g. http://127.0.0.1:5555/v2/")
	viperx.MustBindFlag(viper.GetViper(), "dataplane.url", rootCmd.PersistentFlags().Lookup("dataplane-url"))

	rootCmd.PersistentFlags().String("dataplane-user-name", "haproxy", "DataplaneAPI user name")
	viperx.MustBindFlag(viper.GetViper(), "dataplane.user.name", rootCmd.PersistentFlags().Lookup("dataplane-user-name"))

	rootCmd.PersistentFlags().String("dataplane-user-pwd", "adminpwd", "DataplaneAPI user password")
	viperx.MustBindFlag(viper.GetViper(), "dataplane.user.pwd", rootCmd.PersistentFlags().Lookup("dataplane-user-pwd"))

	// Logging flags
	loggingx.MustViperFlags(viper.GetViper(), rootCmd.PersistentFlags())

	// Register version command
	versionx.RegisterCobraCommand(rootCmd, func() { versionx.PrintVersion(logger) })
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".haproxy-diagram" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName("." + appName)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.SetEnvPrefix("haproxy_diagram")

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	cfgErr := viper.ReadInConfig()

	setupAppConfig()

	logger = loggingx.InitLogger(appName, config.AppConfig.Logging)

	if cfgErr == nil {
		logger.Debugw("using config file",
			"file", viper.ConfigFileUsed(),
		)
	}
}

// setupAppConfig loads our config.AppConfig struct with the values bound by
// viper. Then, anywhere we need these values, we can just return to AppConfig
// instead of performing viper.GetString(...), viper.GetBool(...), etc.
func setupAppConfig() {
	err := viper.Unmarshal(&config.AppConfig)
	if err != nil {
		fmt.Printf("unable to decode app config: %s", err)
		os.Exit(1)
	}
}
