// Package config loads agent runtime configuration from the environment.
//
// Configuration file parsing is explicitly out of scope (see spec §1);
// every value here comes from an environment variable or a built-in
// default, matching the precedence rule of spec §4.7 step 2: environment
// takes precedence over decorator-declared values, which take precedence
// over these defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AgentConfig is the runtime configuration resolved during the
// Configuration startup step (spec §4.7 step 2).
type AgentConfig struct {
	AgentName         string
	Version           string
	Tags              []string
	HTTPEnabled       bool
	HTTPHost          string
	HTTPPort          int
	HTTPEndpoint      string
	RegistryURL       string
	HeartbeatInterval time.Duration
	DebounceDelay     time.Duration
	DebugExit         bool
	LogLevel          string
}

// FromEnv resolves configuration purely from environment variables and
// built-in defaults. Decorator-declared values are merged on top by the
// startup pipeline's Configuration step, which knows about agent metadata;
// this function only knows about spec §6's environment variable table.
func FromEnv() *AgentConfig {
	return &AgentConfig{
		AgentName:         getEnvString("MCP_MESH_AGENT_NAME", ""),
		Version:           getEnvString("MCP_MESH_AGENT_VERSION", "1.0.0"),
		HTTPEnabled:       getEnvBool("MCP_MESH_HTTP_ENABLED", true),
		HTTPHost:          getEnvString("MCP_MESH_HTTP_HOST", ""),
		HTTPPort:          getEnvInt("MCP_MESH_HTTP_PORT", 8080),
		HTTPEndpoint:      getEnvString("MCP_MESH_HTTP_ENDPOINT", ""),
		RegistryURL:       getEnvString("MCP_MESH_REGISTRY_URL", "http://localhost:8000"),
		HeartbeatInterval: time.Duration(getEnvInt("MCP_MESH_HEARTBEAT_INTERVAL", 30)) * time.Second,
		DebounceDelay:     time.Duration(getEnvFloatMillis("MCP_MESH_DEBOUNCE_DELAY", 1.0)) * time.Millisecond,
		DebugExit:         getEnvBool("MCP_MESH_DEBUG_EXIT", false),
		LogLevel:          getEnvString("MCP_MESH_LOG_LEVEL", "INFO"),
	}
}

// BindHost is the local interface the HTTP server listens on, distinct
// from the (possibly different) host advertised to the registry.
func BindHost() string {
	return getEnvString("HOST", "0.0.0.0")
}

// PodIP returns POD_IP if set, used as a fallback advertisement host.
func PodIP() string {
	return os.Getenv("POD_IP")
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloatMillis(key string, defaultSeconds float64) int {
	seconds := defaultSeconds
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			seconds = f
		}
	}
	return int(seconds * 1000)
}

// ShouldLogAtLevel reports whether messages at level should be emitted
// given the configured LogLevel.
func (c *AgentConfig) ShouldLogAtLevel(level string) bool {
	priority := map[string]int{"DEBUG": 0, "INFO": 1, "WARNING": 2, "ERROR": 3, "CRITICAL": 4}
	cur, ok := priority[strings.ToUpper(c.LogLevel)]
	if !ok {
		cur = priority["INFO"]
	}
	check, ok := priority[strings.ToUpper(level)]
	if !ok {
		return false
	}
	return check >= cur
}
