package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"

	"github.com/ezrec/nbasync/bridge"
	"github.com/ezrec/nbasync/config"
	"github.com/ezrec/nbasync/driver"
	"github.com/ezrec/nbasync/executor"
	"github.com/ezrec/nbasync/periph"
	"github.com/ezrec/nbasync/script"
)

func main() {
	var configPath string
	var scriptPath string
	var verbose bool

	flag.StringVar(&configPath, "c", "", ".yaml peripheral configuration")
	flag.StringVar(&scriptPath, "s", "", ".star scenario to run instead of the demo")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := config.Default()
	if len(configPath) != 0 {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("%v: %v", configPath, err)
		}
	}

	if verbose {
		cfg.Uart.Verbose = true
		cfg.Spi.Verbose = true
		cfg.Executor.Verbose = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ex := &executor.Executor{
		Verbose:  cfg.Executor.Verbose,
		Strict:   cfg.Executor.Strict,
		MaxPolls: cfg.Executor.MaxPolls,
	}

	if len(scriptPath) != 0 {
		sc := &script.Scenario{Verbose: verbose, Executor: ex}
		sc.Attach("uart", periph.NewUart(cfg.Uart))
		sc.Attach("spi", periph.NewSpi(cfg.Spi))

		_, err := sc.Run(ctx, scriptPath, nil)
		if err != nil {
			log.Fatal(err)
		}
		slog.Info("scenario complete", "script", scriptPath, "polls", ex.Polls)
		return
	}

	err := demo(ctx, cfg, ex, verbose)
	if err != nil {
		log.Fatal(err)
	}
}

// demo greets over the UART while checking the SPI loopback, then shows a
// transmit fault.
func demo(ctx context.Context, cfg *config.Config, ex *executor.Executor, verbose bool) (err error) {
	uart := periph.NewUart(cfg.Uart)
	spi := periph.NewSpi(cfg.Spi)

	uartPort := bridge.NewPort("uart", uart)
	uartPort.Verbose = verbose
	spiPort := bridge.NewPort("spi", spi)
	spiPort.Verbose = verbose

	hello := &driver.Hello{Writer: &driver.Newline{Inner: uartPort}}
	executor.Spawn(ex, "hello", hello.SendHello(), func(_ struct{}, err error) {
		slog.Info("hello", "sent", string(uart.Transmitted()), "polls", uartPort.Polls, "err", err)
	})

	loopback := &driver.Loopback{Link: spiPort}
	executor.Spawn(ex, "loopback", loopback.Check(), func(_ struct{}, err error) {
		slog.Info("loopback", "polls", spiPort.Polls, "err", err)
	})

	err = ex.Run(ctx)
	if err != nil {
		return
	}

	uart.Reset()
	_, polls, err := executor.Drive(ctx, ex, uartPort.AsyncWrite([]byte{'o', 'k', 0xff, '!'}))
	var fault *periph.ErrFault
	if !errors.As(err, &fault) {
		return
	}
	slog.Info("fault", "sent", string(uart.Transmitted()), "polls", polls, "value", fault.Value, "err", err)

	err = nil
	return
}
