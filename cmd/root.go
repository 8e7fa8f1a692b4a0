// Root of command-line argument parsing.
// This file was based off the standard cobra template, see
// https://github.com/spf13/cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsmgr"
)

var cfgFile string
var verbose bool

var mgr *awsmgr.Manager

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ascli",
	Short: "Client for the storage, queue and attribute-store services",
	Long:  `Command line client for the object storage, message queue and attribute store service family.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		mgrArgs := map[string]interface{}{"logger": logger}
		if cfgFile != "" {
			mgrArgs["config-file"] = cfgFile
		}

		var err error
		mgr, err = awsmgr.NewManager(mgrArgs)
		if err != nil {
			fmt.Printf("Failed to initialize client manager: %v\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main(). It only needs to happen once to
// the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if mgr == nil || mgr.Logger == nil {
			fmt.Printf("%v\n", err)
		} else {
			mgr.Logger.Error(err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/services.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log signing and dispatch details")
}
