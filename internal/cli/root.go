// Package cli wires the pipeline stages into the gutensent command.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gutensent",
	Short: "Gutensent - sentiment of Project Gutenberg books around the First World War",
	Long: `Gutensent builds a dataset of Project Gutenberg books, resolves each
book's original publication year, scores the tone of its text, and tests
whether the war years left a measurable mark on literary sentiment.

The pipeline runs in four stages, each resumable:

  metadata   seed the catalog and scrape bibliographic records
  content    download the plain-text ebooks
  sentiment  score each book's polarity
  analyze    run the statistics and emit the report

Publication years come from Project Gutenberg itself, falling back to
the Library of Congress and then Wikipedia.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gutensent v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.gutensent/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file, a local .env, and GUTENSENT_* env vars
func initConfig() {
	// Credentials (WIKIMEDIA_*, OPENAI_API_KEY) often live in a .env
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.gutensent")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("GUTENSENT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
