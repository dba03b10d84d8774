package orchestrator

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-mesh-agent/src/core/pipeline"
)

func withEnv(t *testing.T, key, value string) {
	t.Helper()
	orig, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, orig)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestRecordCycleResult_DegradesAfterThreeConsecutiveFailures(t *testing.T) {
	o := New("test-agent", time.Millisecond)

	failed := pipeline.Result{Status: pipeline.StatusFailed}
	o.recordCycleResult(failed)
	assert.Equal(t, "healthy", o.statusString())

	o.recordCycleResult(failed)
	assert.Equal(t, "healthy", o.statusString())

	o.recordCycleResult(failed)
	assert.Equal(t, "degraded", o.statusString())
}

func TestRecordCycleResult_SuccessResetsFailureCount(t *testing.T) {
	o := New("test-agent", time.Millisecond)

	failed := pipeline.Result{Status: pipeline.StatusFailed}
	o.recordCycleResult(failed)
	o.recordCycleResult(failed)

	ok := pipeline.Result{Status: pipeline.StatusSuccess}
	o.recordCycleResult(ok)

	assert.Equal(t, 0, o.consecutiveFailures)
	assert.Equal(t, "healthy", o.statusString())
}

func TestRecordCycleResult_RecoversFromDegradedOnSuccess(t *testing.T) {
	o := New("test-agent", time.Millisecond)

	failed := pipeline.Result{Status: pipeline.StatusFailed}
	o.recordCycleResult(failed)
	o.recordCycleResult(failed)
	o.recordCycleResult(failed)
	require.Equal(t, "degraded", o.statusString())

	o.recordCycleResult(pipeline.Result{Status: pipeline.StatusSuccess})
	assert.Equal(t, "healthy", o.statusString())
}

func TestRecordCycleResult_ErrorsWithoutFailedStatusStillCounts(t *testing.T) {
	o := New("test-agent", time.Millisecond)

	withErrors := pipeline.Result{Status: pipeline.StatusSuccess, Errors: []string{"partial"}}
	o.recordCycleResult(withErrors)
	o.recordCycleResult(withErrors)
	o.recordCycleResult(withErrors)

	assert.Equal(t, "degraded", o.statusString())
}

func TestProcessOnce_RunsStartupPipelineWithoutHTTP(t *testing.T) {
	withEnv(t, "MCP_MESH_HTTP_ENABLED", "false")
	withEnv(t, "MCP_MESH_REGISTRY_URL", "")

	o := New("test-agent", time.Millisecond)
	result, err := o.ProcessOnce(context.Background())

	require.NoError(t, err)
	assert.NotEqual(t, pipeline.StatusFailed, result.Status)
	assert.Nil(t, o.server)
}

func TestStartService_ReturnsPromptlyWithNoHTTPServer(t *testing.T) {
	withEnv(t, "MCP_MESH_HTTP_ENABLED", "false")

	o := New("test-agent", time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := o.StartService(ctx, nil)
	assert.NoError(t, err)
}
