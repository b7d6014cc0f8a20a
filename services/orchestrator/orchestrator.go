// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package orchestrator provides the HTTP service wrapping the
// verification engine.
//
// This package contains the main Orchestrator type that coordinates all
// components of the service: HTTP routing, the verification engine, the
// embedding backend, and observability infrastructure.
//
// # Enterprise Integration
//
// The orchestrator supports dependency injection via
// extensions.AuthProvider, enabling enterprise builds to supply custom
// authentication (JWT, API keys). The open source build uses the no-op
// provider, which accepts every request.
//
// # Usage
//
// Open source (no-op auth):
//
//	cfg := orchestrator.Config{Port: 12230}
//	svc, err := orchestrator.New(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc.Run()
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AleutianVerify/pkg/extensions"
	"github.com/AleutianAI/AleutianVerify/services/engine"
	"github.com/AleutianAI/AleutianVerify/services/engine/evidence"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
	"github.com/AleutianAI/AleutianVerify/services/orchestrator/routes"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the verification service.
//
// # Description
//
// Service abstracts the orchestrator lifecycle, enabling testing and
// alternative implementations. The interface follows the minimal surface
// area principle - only essential lifecycle methods are exposed.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	//
	// # Assumptions
	//
	//   - Caller will not modify the router
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds orchestrator configuration options.
//
// # Description
//
// Config centralizes all configuration for the verification service.
// Values can be populated from environment variables, config files,
// or programmatically for testing.
//
// # Required Fields
//
// None - all fields have sensible defaults.
//
// # Examples
//
//	// Minimal config (uses all defaults)
//	cfg := Config{}
//
//	// Custom port and embedding backend
//	cfg := Config{
//	    Port:             8080,
//	    EmbeddingBackend: "openai",
//	}
type Config struct {
	// Port is the HTTP server port. Default: 12230
	Port int

	// EmbeddingBackend selects the semantic matching backend.
	// Valid values: "none", "http", "openai"
	// Default: "none" (verification degrades to fuzzy matching)
	EmbeddingBackend string

	// EmbeddingURL is the base URL of the HTTP embedding service.
	// Required when EmbeddingBackend is "http".
	EmbeddingURL string

	// OpenAIAPIKey authenticates against the OpenAI embeddings API.
	// Falls back to the OPENAI_API_KEY env var when empty.
	OpenAIAPIKey string

	// Jurisdiction is the default compliance regime for evaluations
	// that do not specify one. Valid values: "RTI", "UK_GDPR",
	// "EU_AI_ACT". Default: "RTI"
	Jurisdiction string

	// Strict enables strict verification mode: any HIGH severity
	// hallucination caps the verification score at 30.
	Strict bool

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "aleutian-otel-collector:4317"
	OTelEndpoint string

	// EnableMetrics enables the Prometheus metrics endpoint.
	// Default: true
	EnableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	GinMode string
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Description
//
// service is the main implementation that coordinates:
//   - HTTP routing via Gin
//   - The verification engine and its embedding backend
//   - OpenTelemetry tracing
//   - Prometheus metrics
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	auth          extensions.AuthProvider
	audit         extensions.AuditLogger
	router        *gin.Engine
	engine        *engine.Engine
	embedder      evidence.Embedder
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new verification Service with the given configuration.
//
// # Description
//
// New initializes all service components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing and metrics
//  3. Creates the embedding backend
//  4. Creates the verification engine
//  5. Sets up HTTP routes
//
// If auth is nil, the no-op provider is used.
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//   - auth: Authentication provider. May be nil.
//
// # Outputs
//
//   - Service: Ready-to-run verification service
//   - error: Non-nil if initialization fails
//
// # Limitations
//
//   - Tracer initialization requires a reachable OTel collector
//
// # Assumptions
//
//   - Environment variables are set for the chosen embedding backend
func New(cfg Config, auth extensions.AuthProvider) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
		auth:   auth,
	}
	if s.auth == nil {
		s.auth = &extensions.NopAuthProvider{}
	}
	s.audit = &extensions.NopAuditLogger{}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	if s.config.EnableMetrics {
		if err := initMeterProvider(); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		slog.Info("Initialized Prometheus metrics exporter")
	}

	if err := s.initEmbedder(); err != nil {
		return nil, err
	}

	s.engine = engine.New(s.embedder, engine.Config{
		Strict:              s.config.Strict,
		DefaultJurisdiction: types.ParseJurisdiction(s.config.Jurisdiction),
		Weights:             types.DefaultWeights(),
	})

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting verification server",
		"port", s.config.Port,
		"embedding_backend", s.config.EmbeddingBackend,
		"jurisdiction", s.config.Jurisdiction,
		"strict", s.config.Strict,
	)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12230
	}
	if cfg.EmbeddingBackend == "" {
		cfg.EmbeddingBackend = "none"
	}
	if cfg.Jurisdiction == "" {
		cfg.Jurisdiction = string(types.JurisdictionRTI)
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "aleutian-otel-collector:4317"
	}
	cfg.EnableMetrics = true

	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Description
//
// Sets up OTLP trace exporter to send spans to the configured collector.
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown
//   - error: Non-nil if tracer setup fails
//
// # Limitations
//
//   - Uses insecure gRPC connection (appropriate for internal networks)
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("verify-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initMeterProvider wires the OTel metrics SDK to the default
// Prometheus registry, so the engine's instruments show up on /metrics.
func initMeterProvider() error {
	exporter, err := otelprom.New()
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter)))
	return nil
}

// initEmbedder creates the semantic matching backend.
//
// # Description
//
// Selects the embedding backend from configuration. With backend "none"
// the engine still works: the matcher skips the semantic tier and falls
// through to fuzzy and lexical matching.
//
// # Outputs
//
//   - error: Non-nil for an unknown backend or missing settings
func (s *service) initEmbedder() error {
	switch s.config.EmbeddingBackend {
	case "none":
		slog.Info("No embedding backend configured, semantic matching disabled")
		return nil
	case "http":
		if s.config.EmbeddingURL == "" {
			return fmt.Errorf("embedding backend %q requires EmbeddingURL", "http")
		}
		s.embedder = evidence.NewHTTPEmbedder(s.config.EmbeddingURL)
		slog.Info("Using HTTP embedding backend", "url", s.config.EmbeddingURL)
		return nil
	case "openai":
		apiKey := s.config.OpenAIAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("embedding backend %q requires an API key", "openai")
		}
		s.embedder = evidence.NewOpenAIEmbedder(apiKey, evidence.DefaultOpenAIEmbedderConfig())
		slog.Info("Using OpenAI embedding backend")
		return nil
	default:
		return fmt.Errorf("unknown embedding backend: %q", s.config.EmbeddingBackend)
	}
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("verify-service"))

	checks := map[string]func() error{}
	if hc, ok := s.embedder.(*evidence.HTTPEmbedder); ok {
		checks["embedding"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return hc.Health(ctx)
		}
	}

	routes.SetupRoutes(s.router, s.engine, s.auth, s.audit, checks)
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
