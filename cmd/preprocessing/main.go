package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"sync"
	"syscall"

	"github.com/lintang-b-s/streetmap/pkg/config"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/kv"
	"github.com/lintang-b-s/streetmap/pkg/logger"
	"github.com/lintang-b-s/streetmap/pkg/osmparser"
	"github.com/lintang-b-s/streetmap/pkg/storage"
	"go.uber.org/zap"
)

var (
	mapFile    = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap file (.osm.pbf or .osm) to build the street network from")
	configFile = flag.String("config", "config.yaml", "config file")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	if *cpuprofile != "" {
		// ./bin/streetmap-preprocessing -cpuprofile=streetmapcpu.prof -memprofile=streetmapmem.mprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			lg.Fatal("create cpu profile", zap.Error(err))
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("preprocessing failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, lg *zap.Logger) error {
	lg.Info("reading osm file", zap.String("file", *mapFile))
	network, err := osmparser.NewOSMParser(lg).Parse(ctx, *mapFile)
	if err != nil {
		return err
	}
	components := datastructure.NewComponents(network)
	lg.Info("street network built", zap.String("network", network.String()),
		zap.Int("strongly_connected_components", components.Count()),
		zap.Int32("largest_component", components.Size(components.Largest())))
	recordMemProfile(memprofile, "parsing_osm_data")

	store, err := storage.OpenNetworkStore(cfg.Storage.PebbleDir, lg)
	if err != nil {
		return err
	}
	defer store.Close()

	kvDB, err := kv.OpenKVDB(cfg.Storage.BadgerDir, lg)
	if err != nil {
		return err
	}
	defer kvDB.Close()

	var (
		wg       sync.WaitGroup
		indexErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		indexErr = kvDB.BuildH3IndexedIntersections(ctx, network)
	}()

	lg.Info("saving street network snapshot...", zap.String("dir", cfg.Storage.PebbleDir))
	saveErr := store.Save(ctx, network)

	wg.Wait()
	if saveErr != nil {
		return saveErr
	}
	if indexErr != nil {
		return fmt.Errorf("build h3 index: %w", indexErr)
	}
	recordMemProfile(memprofile, "finish_preprocessing")

	lg.Info("street network ready", zap.String("snapshot", cfg.Storage.PebbleDir), zap.String("h3_index", cfg.Storage.BadgerDir))
	return nil
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		path := strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(path)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
