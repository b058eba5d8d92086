package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/internal/server"
	"github.com/msto63/ember/pkg/core/version"
)

var (
	serveHost      string
	servePort      int
	serveNoCache   bool
	shutdownPeriod = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den Parse-Service (gRPC)",
	Long: `Startet den ember Parse-Service.

Der Service bietet die Methoden /ember.v1.Parser/Parse und
/ember.v1.Parser/Tokenize sowie den Standard-Health-Check
(grpc.health.v1) und, falls aktiviert, Server-Reflection.

Ist der Cache in der Config aktiviert, werden Ergebnisse in einer
SQLite-Datenbank abgelegt und zwischen Neustarts wiederverwendet.

Beispiele:
  ember serve
  ember serve --port 9171
  ember parse --remote localhost:9170 main.em`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host (default aus der Config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port (default aus der Config)")
	serveCmd.Flags().BoolVar(&serveNoCache, "no-cache", false, "Parse-Cache deaktivieren")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.DefaultConfig()
	cfg.GRPC.Host = appConfig.Server.Host
	cfg.GRPC.Port = appConfig.Server.Port
	cfg.GRPC.EnableReflection = appConfig.Server.EnableReflection
	cfg.GRPC.KeepaliveInterval = appConfig.Server.KeepaliveInterval.Duration
	cfg.GRPC.KeepaliveTimeout = appConfig.Server.KeepaliveTimeout.Duration
	cfg.MaxInputLength = appConfig.Parser.MaxInputLength
	cfg.MaxDepth = appConfig.Parser.MaxDepth
	if serveHost != "" {
		cfg.GRPC.Host = serveHost
	}
	if servePort != 0 {
		cfg.GRPC.Port = servePort
	}

	cacheCfg := appConfig.Cache
	if serveNoCache {
		cacheCfg.Enabled = false
	}
	tiered, closeCache, err := openCache(cacheCfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()
	if tiered != nil {
		cfg.Cache = tiered
	}

	logger.Debug("build", mdwlog.Fields{"info": version.Info()})
	srv := server.New(cfg, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := srv.Listen(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "%s Parse-Service auf %s\n", okStyle.Render(iconOK), srv.Address())
	fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Drücke Ctrl+C zum Beenden"))

	select {
	case sig := <-sigCh:
		logger.Info("shutdown requested", mdwlog.Fields{"signal": sig.String()})
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()
	srv.Stop(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), "Parse-Service gestoppt")
	return nil
}
