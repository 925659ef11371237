// Command pixiled-layout writes the Open Pixel Control layout file for a rig
// configuration.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/owlpinetech/pixiled"
)

var (
	configPath = flag.String("config", "conf/conf.json", "rig configuration file")
	outPath    = flag.String("out", "layout.json", "layout file to write")
	verbose    = flag.Bool("v", false, "log debug details")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	pixiled.SetLogger(logger)

	conf, err := pixiled.LoadConfig(*configPath)
	if err != nil {
		logger.Error("loading config", slog.Any("err", err))
		os.Exit(1)
	}
	fixtures, err := conf.BuildFixtures()
	if err != nil {
		logger.Error("building fixtures", slog.Any("err", err))
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Error("creating layout file", slog.Any("err", err))
		os.Exit(1)
	}
	defer out.Close()

	if err := pixiled.WriteLayout(out, fixtures...); err != nil {
		logger.Error("writing layout", slog.Any("err", err))
		os.Exit(1)
	}

	pixels := 0
	for _, f := range fixtures {
		pixels += f.Len()
	}
	logger.Info("layout written", slog.String("file", *outPath), slog.Int("fixtures", len(fixtures)), slog.Int("pixels", pixels))
}
