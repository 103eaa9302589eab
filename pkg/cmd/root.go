package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (yaml or toml)")
}

var rootContext context.Context

var rootCmd = &cobra.Command{
	Use:   "sbi",
	Short: "sbi",
	Long:  "sbi serves the nsmf-pdusession and nnrf-disc service based interfaces",
}

func Execute(ctx context.Context) {
	SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetContext(ctx context.Context) {
	rootContext = ctx
}
