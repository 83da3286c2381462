package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/streetmap/pkg/config"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/courier"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/streetmap/pkg/logger"
	"github.com/lintang-b-s/streetmap/pkg/storage"
	"go.uber.org/zap"
)

var (
	problemFile = flag.String("p", "courier.yaml", "courier problem: depots, delivery requests, optional capacity and turn penalties")
	configFile  = flag.String("config", "config.yaml", "config file")
	geojsonFile = flag.String("geojson", "", "also write the route as a geojson feature collection to this file")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("courier routing failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, lg *zap.Logger) error {
	f, err := os.Open(*problemFile)
	if err != nil {
		return fmt.Errorf("open courier problem: %w", err)
	}
	p, err := decodeProblem(f)
	f.Close()
	if err != nil {
		return err
	}

	store, err := storage.OpenNetworkStore(cfg.Storage.PebbleDir, lg)
	if err != nil {
		return err
	}
	network, err := store.Load(ctx)
	store.Close()
	if err != nil {
		return fmt.Errorf("load street network: %w", err)
	}

	penalty := routingalgorithm.NewTurnPenalty(cfg.Routing.RightTurnPenalty, cfg.Routing.LeftTurnPenalty)
	if p.RightTurnPenalty != nil {
		penalty.Right = *p.RightTurnPenalty
	}
	if p.LeftTurnPenalty != nil {
		penalty.Left = *p.LeftTurnPenalty
	}
	capacity := cfg.Courier.TruckCapacity
	if p.TruckCapacity != nil {
		capacity = *p.TruckCapacity
	}

	rt := routingalgorithm.NewRouteAlgorithm(network, lg, routingalgorithm.WithWorkers(cfg.Routing.Workers),
		routingalgorithm.WithReachability(datastructure.NewComponents(network)))
	route, err := courier.NewRouter(rt, lg, cfg.Routing.Workers).SolveCourierRouting(ctx, p.Requests, p.Depots, penalty, capacity)
	if err != nil {
		return err
	}
	if err := courier.ValidateRoute(network, route, p.Requests, p.Depots, capacity); err != nil {
		return err
	}
	if route.IsEmpty() {
		lg.Warn("no depot can serve every delivery request", zap.Int("requests", len(p.Requests)), zap.Int("depots", len(p.Depots)))
	} else if *geojsonFile != "" {
		data, err := routeGeoJSON(network, route)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*geojsonFile, data, 0o644); err != nil {
			return fmt.Errorf("write route geojson: %w", err)
		}
		lg.Info("route geojson written", zap.String("file", *geojsonFile))
	}

	return encodeSummary(os.Stdout, summarize(route))
}
