package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"meta-swap/pkg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quotes over HTTP",
	Long: `Start the HTTP API. Quotes are served under /api/v1, Prometheus metrics
under /metrics.

Examples:
  meta-swap serve
  meta-swap serve --addr :9000`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServerAddr
	}

	agg, registry, closeFn := newAggregator()
	defer closeFn()

	srv := server.New(agg, registry, logrus.WithField("component", "server"))
	if err := srv.Run(cmd.Context(), addr); err != nil {
		printError(err)
		os.Exit(1)
	}
}
