package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/therealmvp/server"
)

var (
	flagAddr  string
	flagOpen  bool
	flagCache string
)

const (
	flagAddrName  = "addr"
	flagOpenName  = "open"
	flagCacheName = "cache"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, flagAddrName, ":8080", "listen address")
	serveCmd.Flags().BoolVar(&flagOpen, flagOpenName, false, "open the dashboard in the default browser")
	serveCmd.Flags().StringVar(&flagCache, flagCacheName, "none", "dataset cache backend: none, file, redis or sqlite")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx, appConfig)
}
