// Package httpserver implements C6, the HTTP serving layer that fronts
// an agent's tools with a JSON-RPC-style endpoint plus the operational
// endpoints of spec §4.6, built on github.com/gin-gonic/gin — the
// teacher's HTTP framework (internal/registry/server.go).
package httpserver

import (
	"context"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"mcp-mesh-agent/src/core/injector"
	"mcp-mesh-agent/src/core/logger"
)

// ToolTable is the routing table the /mcp handler dispatches through:
// tool name -> the (possibly dependency-injected) callable.
type ToolTable map[string]injector.CallFunc

// Server wraps a gin.Engine with the agent's tool table and lifespan
// management (spec §4.6 "Lifespan contract").
type Server struct {
	engine    *gin.Engine
	agentID   string
	startedAt time.Time

	mu    sync.RWMutex
	tools ToolTable

	httpServer *http.Server
	listener   net.Listener

	heartbeatCancel context.CancelFunc
	heartbeatDone   chan struct{}

	log *logger.Logger
}

// New builds the server and registers all its routes (spec §4.6).
func New(agentID string, tools ToolTable) *Server {
	gin.SetMode(gin.ReleaseMode)
	if os.Getenv("MCP_MESH_LOG_LEVEL") == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		agentID:   agentID,
		startedAt: time.Now().UTC(),
		tools:     tools,
		log:       logger.New("httpserver"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.POST("/mcp", s.handleMCP)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/livez", s.handleHealth)
	s.engine.GET("/ready", s.handleReady)
	s.engine.GET("/metrics", s.handleMetrics)
	s.engine.GET("/openapi.json", s.handleOpenAPI)
	s.engine.GET("/docs", s.handleDocs)
	s.engine.GET("/redoc", s.handleRedoc)
}

// SetTools replaces the tool routing table, used when the startup
// pipeline finishes discovering decorated tools.
func (s *Server) SetTools(tools ToolTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = tools
}

func (s *Server) toolCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tools)
}

// Listen binds the server to host:port, resolving port 0 to an
// OS-assigned port (spec §4.6, §8 "http_port = 0 binds to an
// OS-assigned port").
func (s *Server) Listen(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Port returns the effective bound port, valid after Listen succeeds.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve starts accepting connections on the listener established by
// Listen. Blocks until Shutdown is called or the listener errors.
func (s *Server) Serve() error {
	s.httpServer = &http.Server{Handler: s.engine}
	err := s.httpServer.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops accepting new connections, then cancels and
// awaits the background loop started by StartBackgroundLoop, bounded by
// a 2s grace period regardless of the caller's own deadline (spec §4.6
// "Lifespan contract": "cancel the heartbeat task and await it with a
// 2s timeout").
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	if s.httpServer != nil {
		shutdownErr = s.httpServer.Shutdown(ctx)
	}

	if s.heartbeatCancel != nil {
		s.heartbeatCancel()
		graceCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		select {
		case <-s.heartbeatDone:
		case <-graceCtx.Done():
			s.log.Warning("background loop did not stop within grace period")
		}
	}

	return shutdownErr
}

// StartBackgroundLoop starts loop in its own goroutine, supplying it a
// context that Shutdown cancels. loop is expected to return promptly
// once its context is done (spec §4.6 lifespan contract, startup half:
// the orchestrator's heartbeat loop runs for the lifetime of the
// server process).
func (s *Server) StartBackgroundLoop(loop func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	s.heartbeatCancel = cancel
	s.heartbeatDone = make(chan struct{})

	go func() {
		defer close(s.heartbeatDone)
		loop(ctx)
	}()
}

