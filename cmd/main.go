// Package main provides the CLI entrypoint for the contract scanner.
// It wires subcommands (scan, interactive, platforms, agent), loads
// configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"contractscanner/internal/config"
	"contractscanner/internal/scanner"
	"contractscanner/pkg/logger"
	"contractscanner/pkg/metrics"
	"contractscanner/pkg/solidityscan"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newScanner builds the scanning service client and the orchestrator on top
// of it. The recorder is returned so the agent can expose it.
func newScanner(cfg *config.Config) (scanner.Scanner, *metrics.Recorder) {
	client := solidityscan.New(nil, solidityscan.Options{
		BaseURL:        cfg.SolidityScan.BaseURL,
		Token:          cfg.SolidityScan.APIKey,
		Timeout:        cfg.SolidityScan.Timeout,
		MaxAttempts:    cfg.SolidityScan.MaxAttempts,
		InitialBackoff: cfg.SolidityScan.InitialBackoff,
	})
	rec := metrics.NewRecorder()

	return scanner.New(client, rec), rec
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:           "contractscanner",
		Short:         "Scan deployed smart contracts with SolidityScan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("c", "config.yml", "The config file path")
	_ = fs.Parse(configArgs(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config: ", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		scanCommand(cfg),
		interactiveCommand(cfg),
		platformsCommand(),
		agentCommand(cfg),
	)

	err = rootCmd.Execute()
	logger.Sync(ctx)
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs extracts the -c/--config flag from args so the standard flag
// package does not choke on subcommand flags.
func configArgs(args []string) []string {
	for i, a := range args {
		switch {
		case a == "-c" || a == "--config" || a == "-config":
			if i+1 < len(args) {
				return []string{"-c", args[i+1]}
			}
		case strings.HasPrefix(a, "-c="):
			return []string{a}
		case strings.HasPrefix(a, "--config="):
			return []string{"-c=" + strings.TrimPrefix(a, "--config=")}
		}
	}

	return nil
}
