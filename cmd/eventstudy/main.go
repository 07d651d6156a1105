/*
- @Author: aztec
- @Date: 2024-02-08 16:40:27
- @Description: 事件研究命令行入口
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/aztecqt/eventstudy/common"
	"github.com/aztecqt/eventstudy/studylib"
	"github.com/phuslu/log"
)

func initLogger(level string) {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "2006-01-02 15:04:05",
		Writer:     &log.ConsoleWriter{ColorOutput: true},
	}

	common.Init(
		func(format string, args ...interface{}) { log.Info().Msgf(format, args...) },
		func(format string, args ...interface{}) { log.Error().Msgf(format, args...) })
}

func main() {
	configPath := flag.String("config", "eventstudy.toml", "config file (toml)")
	only := flag.String("only", "", "event types to run, comma separated, e.g. media,cdp2021")
	dryRun := flag.Bool("dry-run", false, "load and prepare datasets only")
	flag.Parse()

	initLogger("info")

	lc, err := studylib.LoadLaunchConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	initLogger(lc.LogLevel)

	ets, err := studylib.ParseEventTypes(*only)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := studylib.NewStudyLib(ctx, lc)
	if err != nil {
		log.Fatal().Err(err).Msg("create study lib failed")
	}

	err = s.Run(ctx, ets, *dryRun)
	s.Close()
	if err != nil {
		log.Error().Err(err).Str("run_id", s.RunId()).Msg("study failed")
		os.Exit(1)
	}
	log.Info().Str("run_id", s.RunId()).Msg("study finished")
}
