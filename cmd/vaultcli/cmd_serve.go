package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/vault/api"
	"github.com/iov-one/vault/metrics"
)

func cmdServe(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Serve a read-only JSON API of the vault state over HTTP, together with
Prometheus metrics at /metrics. The server runs until interrupted.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = registerNodeFlags(fl)
		httpFl = fl.String("http", env("VAULTCLI_HTTP", ":8000"), "Address the HTTP server listens on.")
	)
	fl.Parse(args)

	n, err := openNode(nodeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("cannot register metrics: %s", err)
	}
	if err := m.Listen(n.Events); err != nil {
		return fmt.Errorf("cannot subscribe metrics: %s", err)
	}

	srv := &http.Server{
		Addr:         *httpFl,
		Handler:      api.NewRouter(n, n.Ledger, m, n.logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, srv, output)
}

// serve runs the server until ctx is done and shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, output io.Writer) error {
	errc := make(chan error, 1)
	go func() {
		fmt.Fprintf(output, "listening on %s\n", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %s", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %s", err)
	}
	return nil
}
