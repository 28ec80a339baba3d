package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/vilterp/treelog/pkg"
	"github.com/vilterp/treelog/pkg/config"
	clog "github.com/vilterp/treelog/pkg/log"
	"go.uber.org/zap"
)

var configPath = flag.String("config", "treelog.yaml", "YAML config file; missing is fine")
var port = flag.Int("port", 9000, "port to listen on")
var host = flag.String("host", "0.0.0.0", "host to listen on")
var dataFile = flag.String("data-file", "", "bolt file to keep facts in; empty keeps them in memory")
var logLevel = flag.String("log-level", "info", "debug, info, warn or error")

func main() {
	// get cmdline flags
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}
	// Flags given explicitly win over the file and the environment.
	if flag.CommandLine.Changed("port") {
		cfg.Port = *port
	}
	if flag.CommandLine.Changed("host") {
		cfg.Host = *host
	}
	if flag.CommandLine.Changed("data-file") {
		cfg.DataFile = *dataFile
	}
	if flag.CommandLine.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "bad config:", err)
		os.Exit(1)
	}
	if err := clog.Init(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clog.Sync()

	fmt.Println("treelog server")

	server, err := treelog.NewServer(cfg.DataFile, cfg.Host, cfg.Port)
	if err != nil {
		clog.L().Fatal("error starting", zap.Error(err))
	}

	// graceful shutdown on Ctrl-C
	ctrlCChan := make(chan os.Signal, 1)
	signal.Notify(ctrlCChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlCChan
		if err := server.Close(); err != nil {
			clog.L().Error("error closing", zap.Error(err))
		}
		clog.Sync()
		os.Exit(0)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		clog.L().Fatal("error listening", zap.Error(err))
	}
}
