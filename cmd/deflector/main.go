// cmd/deflector/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tamzrod/deflector-control/internal/api"
	"github.com/tamzrod/deflector-control/internal/config"
	"github.com/tamzrod/deflector-control/internal/deflector"
	"github.com/tamzrod/deflector-control/internal/logging"
	plcmodbus "github.com/tamzrod/deflector-control/internal/plc/modbus"
	"github.com/tamzrod/deflector-control/internal/poller"
	"github.com/tamzrod/deflector-control/internal/publish"
	"github.com/tamzrod/deflector-control/internal/status"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `usage: deflector [-config file] <command>

commands:
  status          read AUTO/MANUAL coils
  auto            switch deflector to AUTO and verify
  manual          switch deflector to MANUAL and verify
  pulse <button>  press a configured button
  watch           poll status, log and publish changes
  serve           run the HTTP API
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type app struct {
	cfg *config.Config
	svc *deflector.Service
	log *zap.SugaredLogger
	out io.Writer

	// verifyWait sleeps between a mode change and its read-back.
	verifyWait func(time.Duration)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("deflector", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	cfgPath := fs.String("config", "deflector.yaml", "config file (.yaml or .toml)")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return exitUsage
	}
	cmd := fs.Arg(0)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config load failed: %v\n", err)
		return exitFail
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "config validation failed: %v\n", err)
		return exitFail
	}
	config.Normalize(cfg)

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "logger init failed: %v\n", err)
		return exitFail
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	// --------------------
	// Wire PLC access
	// --------------------

	dial := plcmodbus.Dialer(plcmodbus.Config{
		Endpoint: cfg.PLC.Endpoint(),
		UnitID:   *cfg.PLC.UnitID,
		Timeout:  cfg.PLC.Timeout(),
		Logger:   logging.FrameLogger(logger),
	})
	ctl := deflector.NewController(deflector.ConfigFrom(cfg), log.Named("deflector"))

	a := &app{
		cfg:        cfg,
		svc:        deflector.NewService(dial, ctl),
		log:        log,
		out:        stdout,
		verifyWait: time.Sleep,
	}

	switch cmd {
	case "status":
		return a.status()
	case "auto":
		return a.setMode(status.ModeAuto)
	case "manual":
		return a.setMode(status.ModeManual)
	case "pulse":
		if fs.NArg() < 2 {
			fmt.Fprintf(stderr, "pulse: button name required (configured: %v)\n", a.svc.ButtonNames())
			return exitUsage
		}
		return a.pulse(fs.Arg(1))
	case "watch":
		return a.watch(ctx)
	case "serve":
		return a.serve(ctx)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

func (a *app) status() int {
	st, err := a.svc.ReadStatus()
	if err != nil {
		printUnavailable(a.out, "status", err)
		return exitFail
	}
	printStatus(a.out, "status", st)
	return exitOK
}

func (a *app) setMode(want status.Mode) int {
	if before, err := a.svc.ReadStatus(); err != nil {
		printUnavailable(a.out, "before", err)
	} else {
		printStatus(a.out, "before", before)
	}

	op := a.svc.SetAutoMode
	if want == status.ModeManual {
		op = a.svc.SetManualMode
	}
	err := op()
	printOutcome(a.out, "set "+want.String(), err)
	if err != nil {
		return exitFail
	}

	a.verifyWait(a.cfg.Deflector.VerifyDelay())

	got, err := a.svc.VerifyMode(want)
	printVerify(a.out, want, got, err)
	return exitOK
}

func (a *app) pulse(name string) int {
	err := a.svc.PressButton(name)
	printOutcome(a.out, "press "+name, err)
	if err != nil {
		return exitFail
	}
	return exitOK
}

func (a *app) watch(ctx context.Context) int {
	p, err := poller.Build(a.cfg.Watch, a.svc)
	if err != nil {
		a.log.Errorw("poller build failed", "error", err)
		return exitFail
	}

	var sink poller.Sink
	if a.cfg.MQTT != nil {
		pub, err := publish.Connect(*a.cfg.MQTT, a.log.Named("mqtt"))
		if err != nil {
			a.log.Errorw("mqtt connect failed", "broker", a.cfg.MQTT.Broker, "error", err)
			return exitFail
		}
		defer func() { _ = pub.Close() }()
		sink = pub
	}

	a.log.Infow("watching deflector", "endpoint", a.cfg.PLC.Endpoint(), "interval", a.cfg.Watch.Interval())

	out := make(chan poller.PollResult)
	go p.Run(ctx, out)
	poller.Watch(ctx, out, sink, a.log.Named("watch"))
	return exitOK
}

func (a *app) serve(ctx context.Context) int {
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Listen,
		Handler:           api.New(a.svc, a.log.Named("api")).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infow("http api listening", "listen", srv.Addr, "plc", a.cfg.PLC.Endpoint())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			a.log.Errorw("http server failed", "error", err)
			return exitFail
		}
		return exitOK
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Errorw("http shutdown failed", "error", err)
		return exitFail
	}
	return exitOK
}
