package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rm-hull/photo-editor/cmd"
	"github.com/rm-hull/photo-editor/internal"
	"github.com/spf13/cobra"
)

func main() {
	var apiCfg cmd.ApiServerConfig
	var batchCfg cmd.BatchConfig
	var recipePath, inputPath, outputPath, format string

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:  "photo-editor",
		Long: `Raster photo editor: filters, cropping, undo history and export`,
	}

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--ttl <duration>] [--max-upload <bytes>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.ApiServer(apiCfg)
		},
	}

	apiServerCmd.Flags().IntVar(&apiCfg.Port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&apiCfg.Debug, "debug", false, "Enable debugging (pprof) - WARING: do not enable in production")
	apiServerCmd.Flags().DurationVar(&apiCfg.SessionTTL, "ttl", envDuration("EDITOR_SESSION_TTL", 30*time.Minute), "Evict sessions idle for longer than this (0 disables)")
	apiServerCmd.Flags().Int64Var(&apiCfg.MaxUpload, "max-upload", envInt64("EDITOR_MAX_UPLOAD_BYTES", internal.DefaultMaxImageBytes), "Largest accepted image upload in bytes")

	applyCmd := &cobra.Command{
		Use:   "apply --recipe <file> --input <image> --output <image> [--format <format>]",
		Short: "Apply a recipe to a single image",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Apply(recipePath, inputPath, outputPath, format)
		},
	}

	applyCmd.Flags().StringVar(&recipePath, "recipe", "recipe.yaml", "Path to recipe file")
	applyCmd.Flags().StringVar(&inputPath, "input", "", "Image to edit")
	applyCmd.Flags().StringVar(&outputPath, "output", "", "Where to write the edited image")
	applyCmd.Flags().StringVar(&format, "format", "", "Output format: png, jpeg, bmp or gif (default: from output name)")

	batchCmd := &cobra.Command{
		Use:   "batch --recipe <file> --input <dir> --output <dir> [--schedule <cron>]",
		Short: "Apply a recipe to every image in a directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Batch(batchCfg)
		},
	}

	batchCmd.Flags().StringVar(&batchCfg.RecipePath, "recipe", "recipe.yaml", "Path to recipe file")
	batchCmd.Flags().StringVar(&batchCfg.InputDir, "input", "./data/in", "Directory of images to edit")
	batchCmd.Flags().StringVar(&batchCfg.OutputDir, "output", "./data/out", "Directory to write edited images to")
	batchCmd.Flags().StringVar(&batchCfg.Format, "format", "", "Output format (default: same as input)")
	batchCmd.Flags().IntVar(&batchCfg.Workers, "workers", 4, "Number of images processed concurrently")
	batchCmd.Flags().StringVar(&batchCfg.Schedule, "schedule", "", "Cron schedule to re-run on, e.g. \"*/5 * * * *\"")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(internal.Version())
		},
	}

	rootCmd.AddCommand(apiServerCmd, applyCmd, batchCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Ignoring %s=%q: %v", key, v, err)
			return fallback
		}
		return d
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("Ignoring %s=%q: %v", key, v, err)
			return fallback
		}
		return n
	}
	return fallback
}
