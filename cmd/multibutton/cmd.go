package main

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "config.yaml"

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "multibutton",
		Short:        "Turns GPIO buttons into click sequence and long press events",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Lookup("debug").Changed {
				log.SetLevel(log.DebugLevel)
			}
			if cmd.Flags().Lookup("trace").Changed {
				log.SetLevel(log.TraceLevel)
			}
		},
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.PersistentFlags().Bool("debug", false, "Turn on debug logging.")
	rootCmd.PersistentFlags().Bool("trace", false, "Turn on trace logging, including timer arming.")

	return rootCmd
}

var (
	buildTime    = "unknown"
	buildVersion = "dev"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s (built: %s)\n", buildVersion, buildTime)
		},
	}
}

func newStartCmd() *cobra.Command {
	configFile := defaultConfigFile
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Starts listening for button events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := readConfig(configFile)
			if err != nil {
				return err
			}
			return startServer(conf)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", defaultConfigFile, "Configuration file to use.")

	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <filename>",
		Short: "Validate a configuration file and print what it sets up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := readConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), conf.Summary())
			return nil
		},
	}
}
