// Copyright (c) 2025 Valentin Lobstein (Chocapikk) <balgogan@protonmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Chocapikk/wpaudit/internal/config"
	"github.com/Chocapikk/wpaudit/internal/logger"
)

// Version is set at build time with -ldflags "-X github.com/Chocapikk/wpaudit/cmd.Version=...".
var Version = "dev"

var (
	cfgFile   string
	logFormat string
	verbose   bool
	v         = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "wpaudit",
	Short: "Detect WordPress and audit its core, themes and plugins for outdated versions",
	Long: `wpaudit checks whether a site runs WordPress, identifies the core version,
themes and plugins it exposes, and compares them with the latest versions
published on WordPress.org.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.DefaultLogger.Verbose = verbose
		switch strings.ToLower(logFormat) {
		case "", "text":
			logger.DefaultLogger.SetJSON(false)
		case "json":
			logger.DefaultLogger.SetJSON(true)
		default:
			return fmt.Errorf("unknown log format %q (valid: text, json)", logFormat)
		}

		if err := config.ReadFile(v, cfgFile); err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			logger.DefaultLogger.Debug("Using config file " + used)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.DefaultLogger.Warning("Interrupted")
		} else {
			logger.DefaultLogger.Error(err.Error())
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/wpaudit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// bindFlags maps command flags onto their config keys so that flags override
// the config file and environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper, keys map[string]string) {
	for flag, key := range keys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}
