package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	_ "github.com/lintang-b-s/streetmap/docs"
	"github.com/lintang-b-s/streetmap/pkg/config"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/courier"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/streetmap/pkg/guidance"
	"github.com/lintang-b-s/streetmap/pkg/kv"
	"github.com/lintang-b-s/streetmap/pkg/logger"
	"github.com/lintang-b-s/streetmap/pkg/server/rest"
	"github.com/lintang-b-s/streetmap/pkg/server/rest/service"
	"github.com/lintang-b-s/streetmap/pkg/snap"
	"github.com/lintang-b-s/streetmap/pkg/storage"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr = flag.String("listenaddr", "", "server listen address, overrides server.listen_addr")
	configFile = flag.String("config", "config.yaml", "config file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

//	@title			streetmap API
//	@version		1.0
//	@description	openstreetmap street routing engine in go. A* with turn penalties, many-to-many travel times and a capacitated pickup and delivery courier router

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	lg, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("engine stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, lg *zap.Logger) error {
	store, err := storage.OpenNetworkStore(cfg.Storage.PebbleDir, lg)
	if err != nil {
		return err
	}
	network, err := store.Load(ctx)
	store.Close()
	if err != nil {
		return fmt.Errorf("load street network (run streetmap-preprocessing first): %w", err)
	}
	lg.Info("street network loaded", zap.String("network", network.String()))
	recordMemProfile(memprofile, "load_street_network")

	kvDB, err := kv.OpenKVDB(cfg.Storage.BadgerDir, lg)
	if err != nil {
		return err
	}
	defer kvDB.Close()

	snapper := snap.NewIntersectionSnapper(network, lg)
	snapper.BuildSnapper()

	components := datastructure.NewComponents(network)
	lg.Info("strongly connected components", zap.Int("count", components.Count()),
		zap.Int32("largest", components.Size(components.Largest())))

	routingAlgorithm := routingalgorithm.NewRouteAlgorithm(network, lg, routingalgorithm.WithWorkers(cfg.Routing.Workers),
		routingalgorithm.WithReachability(components))
	courierRouter := courier.NewRouter(routingAlgorithm, lg, cfg.Routing.Workers)

	navigatorSvc, err := service.NewNavigationService(routingAlgorithm, courierRouter, kvDB, snapper,
		guidance.NewTurnClassifier(network),
		routingalgorithm.NewTurnPenalty(cfg.Routing.RightTurnPenalty, cfg.Routing.LeftTurnPenalty),
		cfg.Courier.TruckCapacity, cfg.Server.CacheSize, lg)
	if err != nil {
		return err
	}
	recordMemProfile(memprofile, "service_init")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost%s/swagger/doc.json", cfg.Server.ListenAddr)),
	))

	rest.NavigatorRouter(r, navigatorSvc, lg)

	srv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		lg.Info("server started", zap.String("addr", cfg.Server.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	lg.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
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
