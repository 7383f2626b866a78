package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/duytnguyendtn/astroquery/internal/config"
	"github.com/duytnguyendtn/astroquery/internal/mast"
)

// Global configuration and client, shared by all subcommands.
var (
	cfg    *config.Config
	client *mast.Client
)

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunClientE(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Override the server endpoint from the flag
	server, err := cmd.Flags().GetString("server")
	if err == nil && len(server) > 0 {
		cfg.Server.Endpoint = server
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	client, err = mast.New(mast.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create MAST client: %w", err)
	}

	return nil
}

var rootCmd = &cobra.Command{
	Use:   "mastquery",
	Short: "Query the MAST archive for astronomical observations and catalogs",
	Long: `mastquery is a client for the Mikulski Archive for Space Telescopes (MAST).

It resolves object names to sky positions, runs portal and service API
queries, manages MAST token authentication, and can redirect public
data downloads to the STScI open-data S3 bucket.`,
	PersistentPreRunE: preRunClientE,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/mastquery/config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "Override the MAST server URL (e.g. https://masttest.stsci.edu)")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorStyle.Render("Error: ")+err.Error())
		return err
	}
	return nil
}
