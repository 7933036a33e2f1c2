package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	api "github.com/hashicorp-forge/employee-api/internal/api/v1"
	"github.com/hashicorp-forge/employee-api/internal/cmd/base"
	"github.com/hashicorp-forge/employee-api/internal/metrics"
	"github.com/hashicorp-forge/employee-api/internal/server"
	"github.com/hashicorp-forge/employee-api/internal/version"
	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

type Command struct {
	*base.Command

	// FS is the filesystem configuration files are read from. Defaults to
	// the OS filesystem.
	FS afero.Fs

	configFlags base.ConfigFlags
	flagAddr    string

	// onListen is called with the bound address once the server accepts
	// connections.
	onListen func(addr string)
}

func (c *Command) Synopsis() string {
	return "Run the employee API server"
}

func (c *Command) Help() string {
	return `Usage: employee-api serve [options]

  Run the HTTP server that exposes the employee API on top of the upstream
  employee service. Rate-limited upstream calls are retried with a linear
  backoff. The server shuts down gracefully on SIGINT or SIGTERM.

  Configuration is read, in increasing order of precedence, from built-in
  defaults, the -config file, the env file, EMPLOYEE_API_* environment
  variables and flags.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("serve", flag.ContinueOnError))

	c.configFlags.Register(f)
	f.StringVar(
		&c.flagAddr, "addr", "",
		"[EMPLOYEE_API_ADDRESS] Listen address (default: 127.0.0.1:8080)",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.run(ctx, args)
}

func (c *Command) run(ctx context.Context, args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	fs := c.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	cfg, err := c.configFlags.Load(fs)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}
	if c.flagAddr != "" {
		cfg.Server.Address = c.flagAddr
	}
	c.ConfigureLogger(cfg, "employee-api", nil)
	log := c.Log

	m := metrics.New()
	agg, err := c.NewAggregator(cfg, upstream.WithObserver(m))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating upstream client: %v", err))
		return 1
	}

	srv := server.Server{
		Employees: agg,
		Config:    cfg,
		Logger:    log.Named("api"),
		Metrics:   m,
	}

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listening on %s: %v", cfg.Server.Address, err))
		return 1
	}

	httpSrv := &http.Server{
		Handler:           api.NewHandler(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	addr := ln.Addr().String()
	c.printBanner(addr, cfg.Upstream.BaseURL)
	log.Info("listening", "address", addr, "upstream", cfg.Upstream.BaseURL)
	if c.onListen != nil {
		c.onListen(addr)
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
		log.Info("received shutdown signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down server", "error", err)
		return 1
	}

	log.Info("server stopped gracefully")
	return 0
}

func (c *Command) printBanner(addr, upstreamURL string) {
	c.UI.Output(fmt.Sprintf(`employee-api %s

  API:      http://%s/api/v1/employee
  Health:   http://%s/health
  Metrics:  http://%s/metrics
  Upstream: %s
`, version.Version, addr, addr, addr, upstreamURL))
}
