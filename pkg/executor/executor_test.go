package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonlabs/fonrouter/pkg/aiprovider"
	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/route"
)

func okInvoker(text string) route.Invoker {
	return func(context.Context, string, route.HandlerCall) (string, error) {
		return text, nil
	}
}

func newExecRegistry(t *testing.T, descriptors ...registry.Descriptor) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, d := range descriptors {
		require.NoError(t, reg.Register(d))
	}
	reg.Seal()
	return reg
}

func match(handler, method string) route.Match {
	return route.Match{
		Handler:    handler,
		Method:     method,
		Confidence: 0.9,
		Reasoning:  "test",
	}
}

func TestExecuteSingleHandler(t *testing.T) {
	reg := newExecRegistry(t, registry.Descriptor{
		Name:        "alpha",
		DisplayName: "Alpha Analizi",
		Invoker:     okInvoker("sonuç"),
	})
	e := New(reg)

	results := e.Execute(context.Background(), []route.Match{match("alpha", "handle_x")})
	require.Len(t, results, 1)
	assert.Equal(t, route.StatusOK, results[0].Status)
	assert.Equal(t, "sonuç", results[0].Text)
	assert.Equal(t, "Alpha Analizi", results[0].DisplayName)
	assert.Equal(t, "handle_x", results[0].MethodName)
	assert.Equal(t, 0.9, results[0].Confidence)
	assert.Equal(t, "test", results[0].Reasoning)
}

func TestExecuteFailureIsolation(t *testing.T) {
	reg := newExecRegistry(t,
		registry.Descriptor{Name: "good1", Invoker: okInvoker("bir")},
		registry.Descriptor{Name: "bad", Invoker: func(context.Context, string, route.HandlerCall) (string, error) {
			return "", errors.New("db exploded")
		}},
		registry.Descriptor{Name: "good2", Invoker: okInvoker("iki")},
	)
	e := New(reg)

	results := e.Execute(context.Background(), []route.Match{
		match("good1", "m"), match("bad", "m"), match("good2", "m"),
	})
	require.Len(t, results, 3)
	assert.Equal(t, route.StatusOK, results[0].Status)
	assert.Equal(t, route.StatusFailed, results[1].Status)
	assert.Equal(t, route.ErrInternal, results[1].ErrorKind)
	assert.Contains(t, results[1].Err, "db exploded")
	assert.Equal(t, route.StatusOK, results[2].Status)
}

func TestExecutePanicRecovered(t *testing.T) {
	reg := newExecRegistry(t,
		registry.Descriptor{Name: "panicky", Invoker: func(context.Context, string, route.HandlerCall) (string, error) {
			panic("nil map write")
		}},
		registry.Descriptor{Name: "after", Invoker: okInvoker("devam")},
	)
	e := New(reg)

	results := e.Execute(context.Background(), []route.Match{
		match("panicky", "m"), match("after", "m"),
	})
	require.Len(t, results, 2)
	assert.Equal(t, route.StatusFailed, results[0].Status)
	assert.Equal(t, route.ErrInternal, results[0].ErrorKind)
	assert.Contains(t, results[0].Err, "handler panic")
	assert.Equal(t, route.StatusOK, results[1].Status)
}

func TestExecuteTimeout(t *testing.T) {
	reg := newExecRegistry(t,
		registry.Descriptor{Name: "slow", Invoker: func(ctx context.Context, _ string, _ route.HandlerCall) (string, error) {
			select {
			case <-time.After(5 * time.Second):
				return "too late", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}},
		registry.Descriptor{Name: "fast", Invoker: okInvoker("hızlı")},
	)
	e := New(reg, WithTimeout(20*time.Millisecond))

	results := e.Execute(context.Background(), []route.Match{
		match("slow", "m"), match("fast", "m"),
	})
	require.Len(t, results, 2)
	assert.Equal(t, route.StatusTimedOut, results[0].Status)
	assert.Equal(t, route.ErrTimeout, results[0].ErrorKind)
	assert.Equal(t, route.StatusOK, results[1].Status)
}

func TestExecuteUnknownHandler(t *testing.T) {
	reg := newExecRegistry(t, registry.Descriptor{Name: "known", Invoker: okInvoker("ok")})
	e := New(reg)

	results := e.Execute(context.Background(), []route.Match{match("ghost", "m")})
	require.Len(t, results, 1)
	assert.Equal(t, route.StatusFailed, results[0].Status)
	assert.Equal(t, route.ErrNotFound, results[0].ErrorKind)
}

func TestExecuteMissingInvoker(t *testing.T) {
	reg := newExecRegistry(t, registry.Descriptor{Name: "hollow"})
	e := New(reg)

	results := e.Execute(context.Background(), []route.Match{match("hollow", "m")})
	require.Len(t, results, 1)
	assert.Equal(t, route.StatusFailed, results[0].Status)
	assert.Equal(t, route.ErrNotFound, results[0].ErrorKind)
}

func TestExecuteUpstreamUnavailable(t *testing.T) {
	reg := newExecRegistry(t, registry.Descriptor{Name: "llmdep", Invoker: func(context.Context, string, route.HandlerCall) (string, error) {
		return "", aiprovider.ErrUnavailable
	}})
	e := New(reg)

	results := e.Execute(context.Background(), []route.Match{match("llmdep", "m")})
	require.Len(t, results, 1)
	assert.Equal(t, route.ErrUpstreamUnavailable, results[0].ErrorKind)
}

func TestExecuteSkipsRepeatedHandler(t *testing.T) {
	calls := 0
	reg := newExecRegistry(t, registry.Descriptor{Name: "once", Invoker: func(context.Context, string, route.HandlerCall) (string, error) {
		calls++
		return "ok", nil
	}})
	e := New(reg)

	results := e.Execute(context.Background(), []route.Match{
		match("once", "m1"), match("once", "m2"),
	})
	assert.Len(t, results, 1)
	assert.Equal(t, 1, calls)
}

func TestExecuteMultiHandlerAllowsRepeat(t *testing.T) {
	var methods []string
	reg := newExecRegistry(t, registry.Descriptor{Name: "multi", Invoker: func(_ context.Context, method string, _ route.HandlerCall) (string, error) {
		methods = append(methods, method)
		return "ok", nil
	}})
	e := New(reg)

	m1 := match("multi", "m1")
	m1.IsMultiHandler = true
	m2 := match("multi", "m2")
	m2.IsMultiHandler = true

	results := e.Execute(context.Background(), []route.Match{m1, m2})
	assert.Len(t, results, 2)
	assert.Equal(t, []string{"m1", "m2"}, methods)
}

func TestExecuteCancellationStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reg := newExecRegistry(t,
		registry.Descriptor{Name: "first", Invoker: func(context.Context, string, route.HandlerCall) (string, error) {
			cancel()
			return "bitti", nil
		}},
		registry.Descriptor{Name: "second", Invoker: okInvoker("asla")},
	)
	e := New(reg)

	results := e.Execute(ctx, []route.Match{match("first", "m"), match("second", "m")})
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].HandlerName)
	assert.Equal(t, route.StatusOK, results[0].Status)
}

func TestBindCallDefaults(t *testing.T) {
	m := route.Match{Context: route.Context{Question: "soru"}}
	call := BindCall(m)
	assert.Equal(t, "soru", call.Question)
	assert.Equal(t, 10, call.Count)
	assert.Equal(t, 30, call.Days)
	assert.Zero(t, call.Amount)
	assert.Empty(t, call.FundCode)
}

func TestBindCallExplicitValues(t *testing.T) {
	m := route.Match{Context: route.Context{
		Question:         "soru",
		RequestedCount:   route.IntPtr(5),
		Days:             route.IntPtr(90),
		Amount:           route.Int64Ptr(100000),
		Percentage:       route.IntPtr(50),
		FundCode:         "TYH",
		BetaThreshold:    route.Float64Ptr(0.8),
		BetaComparison:   route.LessThan,
		SharpeThreshold:  route.Float64Ptr(1.2),
		SharpeComparison: route.GreaterThan,
		YearsToGoal:      route.IntPtr(15),
	}}
	call := BindCall(m)
	assert.Equal(t, 5, call.Count)
	assert.Equal(t, 90, call.Days)
	assert.Equal(t, int64(100000), call.Amount)
	assert.Equal(t, 50, call.Percentage)
	assert.Equal(t, "TYH", call.FundCode)
	assert.Equal(t, 0.8, call.BetaThreshold)
	assert.Equal(t, 1.2, call.SharpeThreshold)
	assert.Equal(t, route.LessThan, call.Comparison)
	assert.Equal(t, 15, call.YearsToGoal)
}
