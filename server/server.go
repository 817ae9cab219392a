package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	config "github.com/agentic-mesh/a2a/server/config"
	middlewares "github.com/agentic-mesh/a2a/server/middlewares"
	otel "github.com/agentic-mesh/a2a/server/otel"
	types "github.com/agentic-mesh/a2a/types"
	gin "github.com/gin-gonic/gin"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	zap "go.uber.org/zap"
)

// A2AServer defines the interface for an A2A-compatible agent server
type A2AServer interface {
	// Start starts the A2A server on the configured port
	Start(ctx context.Context) error

	// Stop gracefully stops the A2A server
	Stop(ctx context.Context) error

	// GetAgentInfo returns the agent's discovery record
	// Returns nil if no agent info has been set
	GetAgentInfo() *types.AgentInfo

	// SetAgentInfo sets the discovery record served on /info
	SetAgentInfo(info types.AgentInfo)

	// SetMessageHandler binds the handler invoked for every inbound message
	SetMessageHandler(handler MessageHandler)

	// GetMessageHandler returns the bound message handler
	GetMessageHandler() MessageHandler
}

// A2AServerImpl is the gin-backed implementation of A2AServer. It holds no
// cross-request mutable state beyond the immutable agent info and the bound
// handler reference, so any degree of request parallelism is safe as long as
// the handler itself is.
type A2AServerImpl struct {
	cfg    *config.Config
	logger *zap.Logger
	otel   otel.OpenTelemetry

	httpServer    *http.Server
	metricsServer *http.Server

	agentInfo *types.AgentInfo
	handler   MessageHandler
}

var _ A2AServer = (*A2AServerImpl)(nil)

// NewA2AServer creates a new A2A server with the provided configuration and logger
func NewA2AServer(cfg *config.Config, logger *zap.Logger, telemetry otel.OpenTelemetry) *A2AServerImpl {
	return &A2AServerImpl{
		cfg:    cfg,
		logger: logger,
		otel:   telemetry,
	}
}

// NewDefaultA2AServer creates an A2A server with environment-loaded
// configuration, a zap logger, and telemetry when enabled. Startup is
// fail-fast: configuration or logger errors terminate the process.
func NewDefaultA2AServer(cfg *config.Config) *A2AServerImpl {
	finalCfg, err := config.Load(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if finalCfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	var telemetryInstance otel.OpenTelemetry
	if finalCfg.TelemetryConfig.Enable {
		telemetryInstance, err = otel.NewOpenTelemetry(finalCfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize telemetry", zap.Error(err))
		}
		metricsAddr := finalCfg.TelemetryConfig.MetricsConfig.Host + ":" + finalCfg.TelemetryConfig.MetricsConfig.Port
		logger.Info("telemetry enabled - metrics will be available", zap.String("metrics_url", metricsAddr+"/metrics"))
	}

	return NewA2AServer(finalCfg, logger, telemetryInstance)
}

// SetAgentInfo sets the discovery record served on /info
func (s *A2AServerImpl) SetAgentInfo(info types.AgentInfo) {
	if info.Status == "" {
		info.Status = types.AgentStatusActive
	}
	s.agentInfo = &info
}

// GetAgentInfo returns the agent's discovery record
// Returns nil if no agent info has been set
func (s *A2AServerImpl) GetAgentInfo() *types.AgentInfo {
	return s.agentInfo
}

// SetMessageHandler binds the handler invoked for every inbound message
func (s *A2AServerImpl) SetMessageHandler(handler MessageHandler) {
	s.handler = handler
}

// GetMessageHandler returns the bound message handler
func (s *A2AServerImpl) GetMessageHandler() MessageHandler {
	return s.handler
}

// setupRouter configures the HTTP router with the A2A endpoints
func (s *A2AServerImpl) setupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.LoggingMiddleware(s.logger, cfg.ServerConfig.DisableHealthcheckLog))

	r.GET("/health", s.handleHealth)
	r.GET("/info", s.handleAgentInfo)

	var telemetryMiddleware gin.HandlerFunc
	if s.cfg.TelemetryConfig.Enable && s.otel != nil {
		telemetryMw, err := middlewares.NewTelemetryMiddleware(*s.cfg, s.otel, s.logger)
		if err != nil {
			s.logger.Error("failed to create telemetry middleware", zap.Error(err))
		} else {
			telemetryMiddleware = telemetryMw.Middleware()
		}
	}

	if telemetryMiddleware != nil {
		r.POST("/message", telemetryMiddleware, s.handleMessage)
	} else {
		r.POST("/message", s.handleMessage)
	}

	return r
}

// Start starts the A2A server
func (s *A2AServerImpl) Start(ctx context.Context) error {
	if s.agentInfo == nil {
		return NewNoAgentInfoConfiguredError()
	}
	if s.handler == nil {
		return NewNoHandlerConfiguredError()
	}

	router := s.setupRouter(s.cfg)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.cfg.ServerConfig.Port),
		Handler:      router,
		ReadTimeout:  s.cfg.ServerConfig.ReadTimeout,
		WriteTimeout: s.cfg.ServerConfig.WriteTimeout,
		IdleTimeout:  s.cfg.ServerConfig.IdleTimeout,
	}

	s.logger.Info("starting A2A server",
		zap.String("port", s.cfg.ServerConfig.Port),
		zap.String("agent_id", s.agentInfo.AgentID),
		zap.String("endpoint", s.agentInfo.Endpoint))

	if s.cfg.TelemetryConfig.Enable && s.otel != nil {
		go s.startMetricsServer()
	}

	return s.httpServer.ListenAndServe()
}

// startMetricsServer serves prometheus metrics on a dedicated port
func (s *A2AServerImpl) startMetricsServer() {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsAddr := s.cfg.TelemetryConfig.MetricsConfig.Host + ":" + s.cfg.TelemetryConfig.MetricsConfig.Port
	s.metricsServer = &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  s.cfg.TelemetryConfig.MetricsConfig.ReadTimeout,
		WriteTimeout: s.cfg.TelemetryConfig.MetricsConfig.WriteTimeout,
		IdleTimeout:  s.cfg.TelemetryConfig.MetricsConfig.IdleTimeout,
	}

	s.logger.Info("starting metrics server", zap.String("port", s.cfg.TelemetryConfig.MetricsConfig.Port))
	if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("metrics server failed", zap.Error(err))
	}
}

// Stop gracefully stops the A2A server
func (s *A2AServerImpl) Stop(ctx context.Context) error {
	s.logger.Info("stopping A2A server")

	var err error

	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("error stopping HTTP server", zap.Error(shutdownErr))
			err = shutdownErr
		}
	}

	if s.metricsServer != nil {
		if shutdownErr := s.metricsServer.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("error stopping metrics server", zap.Error(shutdownErr))
			if err == nil {
				err = shutdownErr
			}
		}
	}

	if s.otel != nil {
		if shutdownErr := s.otel.ShutDown(ctx); shutdownErr != nil {
			s.logger.Error("error shutting down telemetry", zap.Error(shutdownErr))
			if err == nil {
				err = shutdownErr
			}
		}
	}

	defer func() {
		if syncErr := s.logger.Sync(); syncErr != nil {
			s.logger.Error("failed to sync logger on shutdown", zap.Error(syncErr))
		}
	}()

	return err
}

// handleHealth returns the liveness probe response
func (s *A2AServerImpl) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": types.HealthStatusHealthy,
		"agent":  s.agentInfo.AgentID,
	})
}

// handleAgentInfo returns the agent's discovery record
func (s *A2AServerImpl) handleAgentInfo(c *gin.Context) {
	s.logger.Debug("agent info requested")
	c.JSON(http.StatusOK, *s.agentInfo)
}

// handleMessage processes one inbound A2A message: decode, invoke the bound
// handler, and wrap the result in a response or error envelope. Decode
// failures and handler errors both surface as structured error envelopes;
// neither crashes the process.
func (s *A2AServerImpl) handleMessage(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.logger.Error("failed to read request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, s.malformedErrorMessage(nil, "failed to read request body"))
		return
	}

	var message types.Message
	if err := json.Unmarshal(body, &message); err != nil {
		s.logger.Error("failed to decode message", zap.Error(err))
		c.JSON(http.StatusBadRequest, s.malformedErrorMessage(body, err.Error()))
		return
	}

	s.logger.Info("received message",
		zap.String("message_id", message.MessageID),
		zap.String("from_agent", message.FromAgent))

	result, err := s.handler.HandleMessage(c.Request.Context(), &message)
	if err != nil {
		s.logger.Error("message handler failed",
			zap.Error(err),
			zap.String("message_id", message.MessageID),
			zap.String("from_agent", message.FromAgent))
		c.JSON(http.StatusInternalServerError, types.NewErrorMessage(s.agentInfo.AgentID, &message, err.Error()))
		return
	}

	c.JSON(http.StatusOK, types.NewResponse(s.agentInfo.AgentID, &message, result))
}

// malformedErrorMessage builds a best-effort error envelope for a body that
// did not decode. The sender's from_agent and message_id are recovered from
// the raw JSON when possible, otherwise placeholders are used.
func (s *A2AServerImpl) malformedErrorMessage(body []byte, reason string) *types.Message {
	request := &types.Message{
		MessageID: "",
		FromAgent: "unknown",
	}

	if len(body) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err == nil {
			if fromAgent, ok := raw["from_agent"].(string); ok && fromAgent != "" {
				request.FromAgent = fromAgent
			}
			if messageID, ok := raw["message_id"].(string); ok {
				request.MessageID = messageID
			}
		}
	}

	return types.NewErrorMessage(s.agentInfo.AgentID, request, reason)
}
