package injector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-mesh-agent/src/core/proxy"
	"mcp-mesh-agent/src/core/registryclient"
)

type fakeProxy struct {
	closed bool
	value  any
}

func (f *fakeProxy) Call(ctx context.Context, args map[string]any) (any, error) {
	return f.value, nil
}
func (f *fakeProxy) Chain(parts ...string) proxy.Proxy { return f }
func (f *fakeProxy) Close() error                      { f.closed = true; return nil }

func TestRegisterUnregister_RoundTrip(t *testing.T) {
	inj := New()
	p := &fakeProxy{value: "v1"}

	inj.Register("cap", p)
	assert.Equal(t, 1, inj.Count())
	assert.Same(t, proxy.Proxy(p), inj.Get("cap"))

	inj.Unregister("cap")
	assert.Equal(t, 0, inj.Count())
	assert.Nil(t, inj.Get("cap"))
	assert.True(t, p.closed)
}

func TestRegister_ReplacingClosesOldProxy(t *testing.T) {
	inj := New()
	old := &fakeProxy{value: "old"}
	newP := &fakeProxy{value: "new"}

	inj.Register("cap", old)
	inj.Register("cap", newP)

	assert.True(t, old.closed)
	assert.False(t, newP.closed)
	assert.Equal(t, 1, inj.Count())
}

func TestWrap_InjectsCurrentBindingWhenArgMissing(t *testing.T) {
	inj := New()
	inj.Register("cap", &fakeProxy{value: "bound"})

	var seen any
	wrapped := inj.Wrap("fn", func(ctx context.Context, args map[string]any) (any, error) {
		seen = args["cap"]
		return nil, nil
	}, []string{"cap"})

	_, err := wrapped(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.NotNil(t, seen)
}

func TestWrap_PassesNilForUnboundDependency(t *testing.T) {
	inj := New()

	var seen any
	seenSet := false
	wrapped := inj.Wrap("fn", func(ctx context.Context, args map[string]any) (any, error) {
		seen = args["cap"]
		seenSet = true
		return nil, nil
	}, []string{"cap"})

	_, err := wrapped(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.True(t, seenSet)
	assert.Nil(t, seen)
}

func TestWrap_ExplicitArgOverridesInjectedBinding(t *testing.T) {
	inj := New()
	inj.Register("cap", &fakeProxy{value: "bound"})

	var seen any
	wrapped := inj.Wrap("fn", func(ctx context.Context, args map[string]any) (any, error) {
		seen = args["cap"]
		return nil, nil
	}, []string{"cap"})

	_, err := wrapped(context.Background(), map[string]any{"cap": "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", seen)
}

func TestFingerprint_StableAcrossMapIterationOrder(t *testing.T) {
	r1 := Resolution{
		"f1": {"capA": {Status: "available"}, "capB": {Status: "available"}},
	}
	r2 := Resolution{
		"f1": {"capB": {Status: "available"}, "capA": {Status: "available"}},
	}
	assert.Equal(t, Fingerprint(r1), Fingerprint(r2))
}

func TestFingerprint_ChangesWhenStatusChanges(t *testing.T) {
	r1 := Resolution{"f1": {"capA": {Status: "available"}}}
	r2 := Resolution{"f1": {"capA": {Status: "unavailable"}}}
	assert.NotEqual(t, Fingerprint(r1), Fingerprint(r2))
}

func TestRewire_EmptyResolutionUnwiresEverything(t *testing.T) {
	inj := New()
	inj.Register("cap", &fakeProxy{value: "v"})

	inj.Rewire(context.Background(), Resolution{}, "agent-1",
		func(endpoint, fn string) proxy.Proxy { return &fakeProxy{} },
		func(fn string, original CallFunc) proxy.Proxy { return &fakeProxy{} },
	)

	assert.Equal(t, 0, inj.Count())
}

func TestRewire_SelfDependencyUsesOriginal(t *testing.T) {
	inj := New()
	original := func(ctx context.Context, args map[string]any) (any, error) { return "self", nil }
	inj.RegisterOriginal("producer_fn", original)

	var builtSelf bool
	resolution := Resolution{
		"consumer_fn": {
			"cap": registryclient.DepInfo{
				Status:       "available",
				AgentID:      "agent-1",
				FunctionName: "producer_fn",
			},
		},
	}

	inj.Rewire(context.Background(), resolution, "agent-1",
		func(endpoint, fn string) proxy.Proxy { return &fakeProxy{} },
		func(fn string, orig CallFunc) proxy.Proxy {
			builtSelf = true
			return &fakeProxy{}
		},
	)

	assert.True(t, builtSelf)
	assert.Equal(t, 1, inj.Count())
}

func TestRewire_CrossAgentUsesRemote(t *testing.T) {
	inj := New()

	var builtRemote bool
	resolution := Resolution{
		"consumer_fn": {
			"cap": registryclient.DepInfo{
				Status:       "available",
				AgentID:      "agent-2",
				Endpoint:     "http://agent-2:8080",
				FunctionName: "producer_fn",
			},
		},
	}

	inj.Rewire(context.Background(), resolution, "agent-1",
		func(endpoint, fn string) proxy.Proxy {
			builtRemote = true
			assert.Equal(t, "http://agent-2:8080", endpoint)
			return &fakeProxy{}
		},
		func(fn string, orig CallFunc) proxy.Proxy { return &fakeProxy{} },
	)

	assert.True(t, builtRemote)
}

func TestRewire_IdempotentWhenResolutionUnchanged(t *testing.T) {
	inj := New()
	resolution := Resolution{"f1": {"cap": registryclient.DepInfo{Status: "available", AgentID: "other", Endpoint: "e", FunctionName: "fn"}}}

	buildCount := 0
	buildRemote := func(endpoint, fn string) proxy.Proxy { buildCount++; return &fakeProxy{} }
	buildSelf := func(fn string, orig CallFunc) proxy.Proxy { return &fakeProxy{} }

	fp1 := Fingerprint(resolution)
	inj.Rewire(context.Background(), resolution, "agent-1", buildRemote, buildSelf)
	inj.SetLastFingerprint(fp1)

	fp2 := Fingerprint(resolution)
	assert.Equal(t, fp1, fp2, "identical resolution state must fingerprint identically")
}
