package main

import (
	"context"
	"os/signal"
	"syscall"

	"contractscanner/internal/config"
	"contractscanner/pkg/domain"
	"contractscanner/pkg/logger"
	"contractscanner/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func scanCommand(cfg *config.Config) *cobra.Command {
	var (
		scanType string
		req      domain.ScanRequest
		asJSON   bool
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Runs one scan and prints the result",
		Example: "  contractscanner scan --type vulnerability --platform 1 --chain 1 " +
			"--address 0xdAC17F958D2ee523a2206206994597C13D831ec7",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
			t, err := domain.ParseScanType(scanType)
			if err != nil {
				return err
			}

			sc, _ := newScanner(cfg)
			res := sc.Scan(ctx, t, req)
			logger.Debug(ctx, "scan finished", zap.String("status", string(res.Status)))

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, res); err != nil {
					return err
				}
			} else {
				p := printer{w: out}
				p.result(res)
				if raw && res.OK() {
					p.raw(res)
				}
			}

			if !res.OK() {
				return serrors.With(serrors.ErrUpstream, "%s", res.Message)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&scanType, "type", "t", string(domain.ScanTypeVulnerability),
		"Scan type: vulnerability, threat or combined")
	cmd.Flags().StringVarP(&req.PlatformID, "platform", "p", "", "Platform id, see the platforms command")
	cmd.Flags().StringVar(&req.ChainID, "chain", "", "Chain id of the platform")
	cmd.Flags().StringVarP(&req.ContractAddress, "address", "a", "", "Contract address, starting with 0x")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Also print the raw response of the scanning service")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}
