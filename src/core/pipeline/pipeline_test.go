package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStep struct {
	name     string
	required bool
	result   Result
	ran      bool
}

func (f *fakeStep) Name() string       { return f.name }
func (f *fakeStep) Required() bool      { return f.required }
func (f *fakeStep) Description() string { return f.name }
func (f *fakeStep) Execute(ctx context.Context, pc *Context) Result { f.ran = true; return f.result }

func TestRun_MergesContextOnSuccess(t *testing.T) {
	r := NewResult("ok")
	r.AddContext("k", "v")
	p := New("p", &fakeStep{name: "s1", required: true, result: r})

	pc := NewContext()
	final := p.Run(context.Background(), pc)

	require.Equal(t, StatusSuccess, final.Status)
	v, ok := pc.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestRun_SkippedDoesNotFailPipeline(t *testing.T) {
	skipped := Result{Status: StatusSkipped, Message: "skip"}
	p := New("p", &fakeStep{name: "s1", required: true, result: skipped})

	final := p.Run(context.Background(), NewContext())
	assert.Equal(t, StatusSuccess, final.Status)
}

func TestRun_RequiredStepFailureStopsPipeline(t *testing.T) {
	failed := Result{Status: StatusFailed, Message: "boom"}
	second := &fakeStep{name: "s2", required: true, result: NewResult("should not run")}

	p := New("p",
		&fakeStep{name: "s1", required: true, result: failed},
		second,
	)

	final := p.Run(context.Background(), NewContext())
	assert.Equal(t, StatusFailed, final.Status)
	assert.Contains(t, final.Message, "s1")
	assert.False(t, second.ran)
}

func TestRun_OptionalStepFailureContinues(t *testing.T) {
	failed := Result{Status: StatusFailed, Message: "boom", Errors: []string{"boom"}}
	ok := NewResult("second ran")

	p := New("p",
		&fakeStep{name: "s1", required: false, result: failed},
		&fakeStep{name: "s2", required: true, result: ok},
	)

	final := p.Run(context.Background(), NewContext())
	assert.Equal(t, StatusSuccess, final.Status)
	assert.Contains(t, final.Errors, "boom")
}

func TestContext_GetSetConcurrencySafe(t *testing.T) {
	pc := NewContext()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pc.Set("k", i)
		}
		close(done)
	}()
	for i := 0; i < 100; i++ {
		pc.Get("k")
	}
	<-done
}
