package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"meta-swap/config"
)

// cfg is loaded once before any command runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "meta-swap",
	Short: "Compare swap and bridge quotes across aggregators",
	Long: `meta-swap asks several swap and bridge aggregators (LI.FI, Squid, Socket,
KyberSwap, 1inch, 0x, ParaSwap, NEAR Intents 1Click) for the same conversion
and returns the best executable transaction.

Examples:
  meta-swap quote 1000 USDC@optimism to DAI@arbitrum --payer 0x...
  meta-swap quote 1 ETH@1 to USDC --payer 0x... --all --providers kyberswap,1inch,0x
  meta-swap calldata 1000 USDC@10 to DAI@42161 --payer 0x...
  meta-swap status 0x<tx-hash> --from-chain 10 --to-chain 42161 --watch
  meta-swap routers lifi --chain 10
  meta-swap serve --addr :8080`,
	Version:           "0.1.0",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	verbose, _ := cmd.Flags().GetBool("verbose")
	level := cfg.LogLevel
	switch {
	case verbose:
		level = logrus.DebugLevel
	case cmd.Name() != serveCmd.Name() && level > logrus.WarnLevel:
		// keep the terminal for results, the server logs at the configured level
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
}
