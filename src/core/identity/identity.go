// Package identity generates and holds the process-wide agent identity
// described in spec §3: "{name}-{8-hex}" when MCP_MESH_AGENT_NAME is set,
// else "agent-{8-hex}", generated lazily on first use and constant for
// the process lifetime thereafter.
package identity

import (
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	once sync.Once
	id   string
)

// Current returns the process-wide agent identity, generating it on the
// first call and returning the same value on every subsequent call.
func Current() string {
	once.Do(func() {
		prefix := os.Getenv("MCP_MESH_AGENT_NAME")
		if prefix == "" {
			prefix = "agent"
		}
		id = prefix + "-" + shortHex()
	})
	return id
}

// shortHex derives an 8-hex-character suffix from a fresh UUID, avoiding
// a hand-rolled random-hex generator in favor of the pack's existing
// github.com/google/uuid dependency.
func shortHex() string {
	u := uuid.New().String()
	return strings.ReplaceAll(u, "-", "")[:8]
}

// reset is for test harnesses only, mirroring the decorator registry's
// sanctioned clear() escape hatch (spec §5 "Shared resources").
func reset() {
	once = sync.Once{}
	id = ""
}

// ResetForTest clears the cached identity so tests can exercise
// generation under different MCP_MESH_AGENT_NAME values. Production code
// must never call this.
func ResetForTest() {
	reset()
}
