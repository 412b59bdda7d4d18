// Package app wires the configuration into a running recommendation service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	apirecommend "github.com/evnav/evnav/api/recommend"
	"github.com/evnav/evnav/config"
	"github.com/evnav/evnav/core/energy"
	"github.com/evnav/evnav/core/eta"
	"github.com/evnav/evnav/core/events"
	"github.com/evnav/evnav/core/recommend"
	"github.com/evnav/evnav/core/scoring"
	"github.com/evnav/evnav/infra/cities"
	"github.com/evnav/evnav/infra/logger"
	"github.com/evnav/evnav/infra/metrics"
	"github.com/evnav/evnav/infra/mqtt"
	"github.com/evnav/evnav/infra/routing"
	"github.com/evnav/evnav/infra/stations"
	"github.com/evnav/evnav/internal/eventbus"
)

// Service bundles the recommendation engine with its HTTP surface and feeds.
type Service struct {
	Orchestrator *recommend.Orchestrator
	Registry     *stations.Registry
	Cities       *cities.Lookup

	server      *http.Server
	subscriber  *mqtt.Subscriber
	bus         eventbus.EventBus[events.Event]
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	registry, err := stations.NewFromFile(cfg.Stations.File)
	if err != nil {
		return nil, fmt.Errorf("station registry: %w", err)
	}
	lookup := cities.NewFromTable(cfg.Cities.Extra)

	sink, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New[events.Event]()
	orch, err := recommend.New(
		registry,
		lookup,
		energy.New(cfg.Energy),
		eta.New(cfg.ETA),
		scoring.NewEngine(cfg.Scoring),
		cfg.Recommend,
		sink,
		bus,
		logger.New("recommend"),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	var sub *mqtt.Subscriber
	if cfg.MQTT.Enabled {
		sub, err = mqtt.NewSubscriber(cfg.MQTT, registry)
		if err != nil {
			return nil, fmt.Errorf("mqtt subscriber: %w", err)
		}
	}

	planner := routing.New(cfg.Routing)
	mux := http.NewServeMux()
	mux.Handle("/api/recommendations", apirecommend.NewRecommendationsHandler(orch, planner, lookup))
	mux.Handle("/api/cities", apirecommend.NewCitiesHandler(lookup))
	mux.Handle("/api/route", apirecommend.NewRouteHandler(planner))

	server := &http.Server{
		Addr:         cfg.API.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.API.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.API.WriteTimeoutSeconds) * time.Second,
	}

	return &Service{
		Orchestrator: orch,
		Registry:     registry,
		Cities:       lookup,
		server:       server,
		subscriber:   sub,
		bus:          bus,
		log:          logg,
		promEnabled:  cfg.Metrics.PrometheusEnabled,
		promPort:     cfg.Metrics.PrometheusPort,
	}, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		addr := s.promPort
		if !strings.Contains(addr, ":") {
			addr = ":" + addr
		}
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go s.consumeEvents(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("HTTP API listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("http shutdown: %v", err)
	}
	return nil
}

// consumeEvents logs engine events from the bus.
func (s *Service) consumeEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case events.RequestEvent:
				s.log.Debugf("request %s urgency=%s battery=%.0f", e.RequestID, e.Context.Urgency, e.Context.BatteryPct)
			case events.ResultEvent:
				s.log.Infof("result %s returned=%d top=%.3f fallback=%t in %s", e.RequestID, e.Returned, e.TopScore, e.FallbackUsed, e.ProcessingTime)
			case events.FallbackEvent:
				s.log.Warnf("fallback for %s: %s", e.RequestID, e.Reason)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.subscriber != nil {
		s.subscriber.Disconnect()
	}
	s.bus.Close()
	return nil
}
