package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/backtest"
	"github.com/quantarc/tradegate/internal/broker"
	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/coordinator"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/services"
	"github.com/quantarc/tradegate/internal/store"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/internal/version"
)

// serveAction wires both backends behind the coordinator, connects to the
// live venue and blocks until interrupted.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	lg, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Sync()

	db, err := store.NewDuckDB(cfg.Backtest.DatabasePath, lg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return err
	}

	sim := backtest.NewSimulator(cfg.Backtest, db, db, types.Session("serve"), lg)
	client := broker.NewClient(cfg.Connection, broker.DialWebsocket, lg)

	coord := coordinator.New(cfg.Coordinator, lg)
	coord.RegisterBacktest(sim.Backend())
	coord.RegisterLive(client.Backend())

	if cmd.Bool("live") {
		coord.UseLive()
		client.Connect()
		defer client.Disconnect()
	}

	coord.Start()
	defer coord.Shutdown(cfg.Coordinator.ShutdownGrace.Std())

	lg.Info("gateway started",
		zap.String("mode", string(coord.Mode())),
		zap.String("host", cfg.Connection.Host),
		zap.Int("port", cfg.Connection.Port),
	)

	if cmd.Bool("live") {
		summary, err := coord.Execute(ctx, cfg.Connection.RequestTimeout.Std(),
			func(ctx context.Context, backend services.Backend) (any, error) {
				return backend.Account.GetAccountSummary(ctx, nil)
			})
		if err != nil {
			lg.Warn("initial account summary failed", zap.Error(err))
		} else if values, ok := summary.([]types.AccountValue); ok {
			for _, value := range values {
				lg.Info("account value",
					zap.String("tag", value.Tag),
					zap.String("value", value.Value),
					zap.String("currency", value.Currency),
				)
			}
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		lg.Info("interrupt received, shutting down")
	case <-ctx.Done():
	}

	return nil
}

// schemaAction prints the JSON schema of the configuration file.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}

	return config.Load(path)
}

func main() {
	cmd := &cli.Command{
		Name:    "tradegate",
		Usage:   "Broker gateway with live venue and deterministic backtest backends",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the gateway",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the YAML configuration file",
					},
					&cli.BoolFlag{
						Name:  "live",
						Usage: "Start in live mode and connect to the venue",
					},
				},
				Action: serveAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the configuration JSON schema",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
