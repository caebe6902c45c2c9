package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/mcauth/mcauth/internals/cmdlog"
	"github.com/mcauth/mcauth/internals/credentials"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set by goreleaser
var Version = "dev"

// TODO: this logger is not so great – also: it should not be global
var logger *cmdlog.Logger = cmdlog.New()

var (
	cfgFile       string
	globalDir     = "/tmp"
	credStore     *credentials.Store
	disableColors bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: Version,
	Use:     "mcauth",
	Short:   "Minecraft account sign-in at your service.",
	Long:    "Sign in to Minecraft with a Microsoft, Yggdrasil or Unified-Pass account",

	Example: `
  mcauth login
  mcauth login yggdrasil --server https://littleskin.cn/api/yggdrasil
  mcauth refresh`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	globalDir = filepath.Join(home, ".mcauth")

	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&disableColors, "no-color", "", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mcauth.toml)")
	rootCmd.PersistentFlags().String("client-id", "", "Azure OAuth app client id used for Microsoft sign-in")
	viper.BindPFlag("client-id", rootCmd.PersistentFlags().Lookup("client-id"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if disableColors || os.Getenv("CI") != "" {
		color.Disable()
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".mcauth" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".mcauth")
	}

	viper.SetEnvPrefix("mcauth")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Log("Using config file: " + viper.ConfigFileUsed())
	}

	store, err := credentials.New(globalDir)
	if err != nil {
		logger.Fail("Could not read stored credentials: " + err.Error())
	}
	credStore = store
}
