package identity

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent_UsesAgentPrefixWhenNameUnset(t *testing.T) {
	ResetForTest()
	orig, had := os.LookupEnv("MCP_MESH_AGENT_NAME")
	os.Unsetenv("MCP_MESH_AGENT_NAME")
	defer func() {
		if had {
			os.Setenv("MCP_MESH_AGENT_NAME", orig)
		}
		ResetForTest()
	}()

	id := Current()
	assert.Regexp(t, regexp.MustCompile(`^agent-[0-9a-f]{8}$`), id)
}

func TestCurrent_UsesConfiguredNameAsPrefix(t *testing.T) {
	ResetForTest()
	orig, had := os.LookupEnv("MCP_MESH_AGENT_NAME")
	os.Setenv("MCP_MESH_AGENT_NAME", "billing")
	defer func() {
		if had {
			os.Setenv("MCP_MESH_AGENT_NAME", orig)
		} else {
			os.Unsetenv("MCP_MESH_AGENT_NAME")
		}
		ResetForTest()
	}()

	id := Current()
	assert.Regexp(t, regexp.MustCompile(`^billing-[0-9a-f]{8}$`), id)
}

func TestCurrent_StableAcrossRepeatedCalls(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	first := Current()
	second := Current()
	assert.Equal(t, first, second)
}

func TestResetForTest_GeneratesNewIdentityOnNextCall(t *testing.T) {
	ResetForTest()
	first := Current()
	ResetForTest()
	second := Current()

	assert.NotEqual(t, first, second, "reset must allow a fresh identity to be generated")
}
