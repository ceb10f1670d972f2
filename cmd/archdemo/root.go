package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "archdemo",
	Short: "Exercise the warehouse entity store from the command line",
	Long: `archdemo builds a small warehouse storage, populates it with a few
archetypes, and runs queries and handle-allocation demos over it so the
library's behavior can be eyeballed without writing a test.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.archdemo.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "print debug-level log output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".archdemo")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ARCHDEMO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "archdemo: using config file", viper.ConfigFileUsed())
	}
}
