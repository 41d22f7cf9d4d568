// Command orderstore loads orders into a memopt store and reports how
// compactly they are held.
//
// Orders are read as JSON values from stdin, or generated with -generate:
//
//	orderstore -generate 1000000 -users 50000 -metrics-addr :2112
//	orderstore -config store.yaml < orders.jsonl
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	memopt "github.com/romanmarkunas-com/0010-memory-optimization"
	"github.com/romanmarkunas-com/0010-memory-optimization/promstats"
	"github.com/romanmarkunas-com/0010-memory-optimization/testutil"
)

var (
	configPath  = flag.String("config", "", "YAML store configuration")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	generate    = flag.Int("generate", 0, "Generate this many orders instead of reading stdin")
	users       = flag.Int("users", 10_000, "Distinct users for generated orders")
	addresses   = flag.Int("addresses", 1_000, "Distinct addresses for generated orders")
	seed        = flag.Int64("seed", 42, "Seed for generated orders")
	qps         = flag.Int("qps", 0, "Insert rate limit; zero means unlimited")
	statsEvery  = flag.Duration("stats-every", 5*time.Second, "Interval between stats log lines")
	logLevel    = flag.String("log-level", "", "Override the configured log level")
)

type source interface {
	Next() (memopt.Order, error)
}

type generated struct {
	gen  *testutil.OrderGenerator
	left int
}

func (g *generated) Next() (memopt.Order, error) {
	if g.left == 0 {
		return memopt.Order{}, io.EOF
	}
	g.left--
	return g.gen.Next(), nil
}

// wireOrder carries the user as text rather than base64.
type wireOrder struct {
	memopt.Order
	User string `json:"user"`
}

type jsonStream struct {
	dec *json.Decoder
}

func (j jsonStream) Next() (memopt.Order, error) {
	var w wireOrder
	if err := j.dec.Decode(&w); err != nil {
		return memopt.Order{}, err
	}
	o := w.Order
	o.User = []byte(w.User)
	return o, nil
}

func main() {
	flag.Parse()

	cfg, logger, err := setup()
	if err != nil {
		memopt.NewTextLogger(slog.LevelError).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("orderstore failed", "error", err)
		os.Exit(1)
	}
}

func setup() (memopt.Config, *memopt.Logger, error) {
	cfg := memopt.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = memopt.LoadConfig(*configPath); err != nil {
			return cfg, nil, err
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger, err := cfg.Logger()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func run(cfg memopt.Config, logger *memopt.Logger) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts = append(opts, memopt.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector *promstats.Collector
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		if collector, err = promstats.New(reg); err != nil {
			return err
		}
		opts = append(opts, memopt.WithMetricsCollector(collector))

		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	store, err := memopt.New(opts...)
	if err != nil {
		return err
	}
	defer store.Close()

	var src source = jsonStream{dec: json.NewDecoder(os.Stdin)}
	if *generate > 0 {
		rng := testutil.NewRNG(*seed)
		src = &generated{
			gen:  testutil.NewOrderGenerator(rng, rng.Addresses(*addresses), *users),
			left: *generate,
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if *qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(*qps), 1)
	}
	report := rate.Sometimes{Interval: *statsEvery}
	publish := func() {
		st := store.Stats()
		logger.LogStats(ctx, st)
		if collector != nil {
			collector.Observe(st)
		}
	}

	start := time.Now()
	loaded, rejected := 0, 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		o, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read order %d: %w", loaded+rejected, err)
		}

		if _, err := store.Insert(o); err != nil {
			if errors.Is(err, memopt.ErrCapacityExhausted) {
				logger.Warn("store full", "loaded", loaded, "error", err)
				break
			}
			rejected++
			continue
		}
		loaded++
		report.Do(publish)
	}
	publish()

	st := store.Stats()
	elapsed := time.Since(start)
	fmt.Printf("loaded %d orders (%d rejected) in %v\n", loaded, rejected, elapsed.Round(time.Millisecond))
	fmt.Printf("pool: %d values, %d bytes, %d slots\n", st.PooledValues, st.PooledBytes, st.PoolCapacity)
	fmt.Printf("slabs: %d x %d records, %d bytes\n", st.Slabs, st.SlotsPerSlab, st.SlabBytes)
	fmt.Printf("memory: %d bytes used, %d peak\n", st.MemoryUsed, st.MemoryPeak)
	if st.Records > 0 {
		fmt.Printf("%.1f bytes per order\n", float64(st.MemoryUsed)/float64(st.Records))
	}
	return nil
}
