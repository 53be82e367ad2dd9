// Command fishctl records sales and manages stock against a running server.
//
//	fishctl [-addr URL | -grpc HOST:PORT] [-token JWT] <command> [flags]
//
// Commands: summary, stock list|add|update|delete, sale list|add|toggle|delete.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/fishstock/internal/adapter/client"
	"github.com/rl1809/fishstock/internal/core/store"
	"github.com/rl1809/fishstock/internal/logging"
	"github.com/rl1809/fishstock/internal/port"
)

func main() {
	addr := flag.String("addr", envOr("FISHSTOCK_ADDR", "http://localhost:8080"), "HTTP base URL of the server")
	grpcAddr := flag.String("grpc", os.Getenv("FISHSTOCK_GRPC"), "gRPC address; takes precedence over -addr")
	token := flag.String("token", os.Getenv("FISHSTOCK_TOKEN"), "bearer token for mutations")
	timeout := flag.Duration("timeout", 10*time.Second, "per-command timeout")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	logger := logging.NewWithOutput(*logLevel, "text", os.Stderr)

	var boundary port.SyncBoundary
	if *grpcAddr != "" {
		conn, err := client.Dial(*grpcAddr)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect")
		}
		defer conn.Close()
		boundary = client.NewGRPCClient(conn, *token)
	} else {
		boundary = client.NewHTTPClient(*addr, *token, nil)
	}

	s := store.New(boundary, store.WithNotifier(store.NotifierFunc(func(n store.Notice) {
		logger.WithFields(logrus.Fields{
			"kind":      n.Kind,
			"item":      n.Item,
			"requested": n.Requested,
			"available": n.Available,
		}).Warn(n.Message)
	})))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := s.Load(ctx); err != nil {
		logger.WithError(err).Fatal("failed to load collections")
	}

	if err := run(ctx, s, os.Stdout, flag.Args()); err != nil {
		logger.WithError(err).Error("command failed")
		cancel()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: fishctl [global flags] <command> [flags]

commands:
  summary                                  totals and revenue per item
  stock list   [-q name]
  stock add    -name N -qty Q -price P
  stock update -id ID [-name N] [-qty Q] [-price P]
  stock delete -id ID
  sale list    [-status Paid|Waiting] [-date YYYY-MM-DD] [-q item]
  sale add     -item N -qty Q -price P [-status Paid|Waiting] [-date YYYY-MM-DD]
  sale toggle  -id ID
  sale delete  -id ID

global flags:
`)
	flag.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
