package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/copycode/internal/config"
	"github.com/pders01/copycode/internal/diag"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "copycode",
	Short: "Add copy-to-clipboard buttons to code blocks of a static site",
	Long: `copycode post-processes the HTML output of a documentation site:
  - finds every rendered code block (pre code, .highlight code, .codehilite code)
  - wraps it in a div.code-block-wrapper
  - appends a button.copy-button labelled "Copy"

Running it again over the same output changes nothing, so it can be part of
every build. The copy command activates a button from the terminal and puts
the block's text on the system clipboard.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/copycode/config.toml)")
}

// configDir is where init writes and initConfig looks for config.toml
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "copycode"), nil
}

func initConfig() {
	// A missing .env is the normal case
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(dir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("copycode")
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the diagnostic logger for a command run
func newLogger() *diag.Logger {
	return diag.NewConsoleLogger(os.Stderr, config.GetLogLevel())
}

// commandContext tolerates the nil command handed in by tests
func commandContext(cmd *cobra.Command) context.Context {
	if cmd == nil || cmd.Context() == nil {
		return context.Background()
	}
	return cmd.Context()
}
