package logging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFilteringMonotonic(t *testing.T) {
	levels := []Level{Trace, Debug, Info, Warning, Error, Critical}

	for _, threshold := range levels {
		t.Run(threshold.String(), func(t *testing.T) {
			env := newTestManager(t)
			l := env.m.GetLogger("svc")
			l.SetLevel(threshold)

			for _, level := range levels {
				assert.Equal(t, level >= threshold, l.IsEnabledFor(level))
				before := env.defaults.Len()
				l.Log(level, "msg")
				if level < threshold {
					assert.Equal(t, before, env.defaults.Len(), "no record below threshold")
				} else {
					assert.Equal(t, before+1, env.defaults.Len())
				}
			}
		})
	}
}

func TestLogger_InheritanceAnyOrder(t *testing.T) {
	orders := [][]string{
		{"a", "a.b", "a.b.c"},
		{"a.b.c", "a.b", "a"},
		{"a.b", "a.b.c", "a"},
	}

	for _, order := range orders {
		t.Run(fmt.Sprint(order), func(t *testing.T) {
			env := newTestManager(t)
			for _, name := range order {
				env.m.GetLogger(name)
			}
			abc := env.m.GetLogger("a.b.c")

			assert.Equal(t, Warning, abc.EffectiveLevel(), "falls back to the global level")

			env.m.SetLevel("a", Error)
			assert.Equal(t, Error, abc.EffectiveLevel())

			env.m.SetLevel("a.b", Debug)
			assert.Equal(t, Debug, abc.EffectiveLevel())

			abc.SetLevel(Critical)
			assert.Equal(t, Critical, abc.EffectiveLevel())
			assert.Equal(t, Debug, env.m.GetLogger("a.b").EffectiveLevel(), "child level does not leak upward")

			abc.SetLevel(NotSet)
			assert.Equal(t, Debug, abc.EffectiveLevel(), "NotSet inherits again")
		})
	}
}

func TestLogger_FanOut(t *testing.T) {
	env := newTestManager(t)
	parentHandler := &spy{}

	parent := env.m.GetLogger("app")
	parent.SetLevel(Info)
	parent.AddHandler(parentHandler)
	child := env.m.GetLogger("app.worker")

	child.Info("started")

	assert.Equal(t, 1, env.defaults.Len(), "default handler fires for the handler-less child")
	assert.Equal(t, 1, parentHandler.Len(), "record propagates to the parent's handler")
	assert.Same(t, env.defaults.Last(), parentHandler.Last(), "both see the same record")
}

func TestLogger_OwnHandlersStopPropagation(t *testing.T) {
	env := newTestManager(t)
	own, parentHandler := &spy{}, &spy{}

	env.m.AddHandler("app", parentHandler)
	child := env.m.GetLogger("app.worker")
	child.AddHandler(own)

	child.Error("failed")

	assert.Equal(t, 1, own.Len())
	assert.Equal(t, 0, parentHandler.Len())
	assert.Equal(t, 0, env.defaults.Len())
}

func TestLogger_HandlerIsolation(t *testing.T) {
	tests := []struct {
		name    string
		failing Handler
	}{
		{"error", HandlerFunc(func(*Record) error { return errors.New("sink closed") })},
		{"panic", HandlerFunc(func(*Record) error { panic("sink exploded") })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestManager(t)
			good := &spy{}
			l := env.m.GetLogger("svc")
			l.AddHandler(tt.failing)
			l.AddHandler(good)

			require.NotPanics(t, func() { l.Error("boom") })

			assert.Equal(t, 1, good.Len())
			entries := env.diagnostics.FilterMessage("error in log handler").All()
			require.Len(t, entries, 1)
			assert.Equal(t, "svc", entries[0].ContextMap()["logger"])
			assert.Equal(t, "ERROR", entries[0].ContextMap()["level"])
		})
	}
}

func TestLogger_Disabled(t *testing.T) {
	env := newTestManager(t)
	parentHandler := &spy{}

	parent := env.m.GetLogger("app")
	parent.AddHandler(parentHandler)
	child := env.m.GetLogger("app.worker")

	child.SetDisabled(true)
	assert.False(t, child.IsEnabledFor(Critical))
	child.Critical("dropped")
	assert.Equal(t, 0, env.defaults.Len())
	assert.Equal(t, 0, parentHandler.Len())

	child.SetDisabled(false)
	parent.SetDisabled(true)
	child.Critical("stops at parent")
	assert.Equal(t, 1, env.defaults.Len())
	assert.Equal(t, 0, parentHandler.Len())
}

func TestLogger_RemoveHandler(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("svc")

	calls := 0
	fn := HandlerFunc(func(*Record) error { calls++; return nil })
	s := &spy{}

	l.AddHandler(fn)
	l.AddHandler(s)
	l.AddHandler(nil)
	require.Len(t, l.Handlers(), 2)

	l.RemoveHandler(&spy{})
	assert.Len(t, l.Handlers(), 2, "removing an unknown handler is a no-op")

	l.RemoveHandler(fn)
	require.Len(t, l.Handlers(), 1)
	assert.Same(t, s, l.Handlers()[0])

	l.RemoveAllHandlers()
	assert.Empty(t, l.Handlers())

	l.Error("to defaults")
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, env.defaults.Len())
}

func TestLogger_SeverityMethods(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("svc")
	l.SetLevel(Trace)

	tests := []struct {
		name  string
		log   func()
		level Level
	}{
		{"trace", func() { l.Trace("m") }, Trace},
		{"debug", func() { l.Debug("m") }, Debug},
		{"info", func() { l.Info("m") }, Info},
		{"warning", func() { l.Warning("m") }, Warning},
		{"warn", func() { l.Warn("m") }, Warning},
		{"error", func() { l.Error("m") }, Error},
		{"critical", func() { l.Critical("m") }, Critical},
		{"fatal", func() { l.Fatal("m") }, Critical},
		{"debugf", func() { l.Debugf("m") }, Debug},
		{"infof", func() { l.Infof("m") }, Info},
		{"warningf", func() { l.Warningf("m") }, Warning},
		{"errorf", func() { l.Errorf("m") }, Error},
		{"criticalf", func() { l.Criticalf("m") }, Critical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.log()
			r := env.defaults.Last()
			require.NotNil(t, r)
			assert.Equal(t, tt.level, r.Level)
			assert.Equal(t, LevelName(tt.level), r.LevelName)
			assert.Equal(t, "svc", r.Name)
			assert.Equal(t, testTime, r.Time)
			assert.NotEmpty(t, r.ID)
		})
	}
}

func TestLogger_Printf(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("svc")

	l.Errorf("retry %d of %d", 2, 3)

	r := env.defaults.Last()
	require.NotNil(t, r)
	assert.Equal(t, "retry 2 of 3", r.Message)
	assert.Empty(t, r.Args)
}

type countingStringer struct{ calls int }

func (c *countingStringer) String() string {
	c.calls++
	return "expensive"
}

func TestLogger_PrintfSkipsFormattingWhenDisabled(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("svc")
	s := &countingStringer{}

	l.Debugf("value %s", s)

	assert.Equal(t, 0, s.calls)
	assert.Equal(t, 0, env.defaults.Len())
}

func TestLogger_ErrorArgumentCaptured(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("x")

	first, second := errors.New("boom"), errors.New("second")
	l.Error("failed %v %v", first, second)

	r := env.defaults.Last()
	require.NotNil(t, r)
	require.NotNil(t, r.Exc)
	assert.Equal(t, "boom", r.Exc.Message, "first error wins")
	assert.Equal(t, "failed boom second", r.GetMessage())
}

func TestLogger_Exception(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("x")

	l.Exception(errors.New("timeout"), "request failed")

	r := env.defaults.Last()
	require.NotNil(t, r)
	assert.Equal(t, Error, r.Level)
	require.NotNil(t, r.Exc)
	assert.Equal(t, "timeout", r.Exc.Message)
}

func TestLogger_LogExtraAndContext(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("svc")

	l.LogExtra(Error, "with extra", map[string]any{"user": "u1"})
	r := env.defaults.Last()
	require.NotNil(t, r)
	assert.Equal(t, map[string]any{"user": "u1"}, r.Extra)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithFields(ctx, map[string]any{"tenant": "acme"})
	l.ErrorContext(ctx, "with context")
	r = env.defaults.Last()
	require.NotNil(t, r)
	assert.Equal(t, "req-1", r.Extra["request.id"])
	assert.Equal(t, "acme", r.Extra["tenant"])

	l.WarningContext(context.Background(), "bare context")
	r = env.defaults.Last()
	require.NotNil(t, r)
	assert.Nil(t, r.Extra)
}

func TestLogger_RecordOwnsInputs(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("auth")

	extra := map[string]any{"user": "alice"}
	l.LogExtra(Error, "login", extra)
	extra["user"] = "mallory"
	extra["role"] = "admin"

	r := env.defaults.Last()
	require.NotNil(t, r)
	assert.Equal(t, map[string]any{"user": "alice"}, r.Extra)

	args := []any{"original"}
	l.Error("value %s", args...)
	args[0] = "CHANGED"

	r = env.defaults.Last()
	require.NotNil(t, r)
	assert.Equal(t, "value original", r.GetMessage())
}

func TestLogger_LoggerInfo(t *testing.T) {
	env := newTestManager(t)
	child := env.m.GetLogger("app.http")
	app := env.m.GetLogger("app")
	app.SetLevel(Info)
	app.AddHandler(&spy{})
	env.m.GetLogger("app.db")

	info := app.LoggerInfo()
	assert.Equal(t, "app", info.Name)
	assert.Equal(t, int(Info), info.Level)
	assert.Equal(t, Info, info.EffectiveLevel)
	assert.Equal(t, 1, info.Handlers)
	assert.Equal(t, RootName, info.Parent)
	assert.Equal(t, []string{"db", "http"}, info.Children)
	assert.False(t, info.Disabled)

	childInfo := child.LoggerInfo()
	assert.Equal(t, -1, childInfo.Level)
	assert.Equal(t, Info, childInfo.EffectiveLevel)
	assert.Empty(t, childInfo.Children)

	rootInfo := env.m.RootLogger().LoggerInfo()
	assert.Empty(t, rootInfo.Parent)
}

func TestLogger_ReentrantHandler(t *testing.T) {
	env := newTestManager(t)
	audit := env.m.GetLogger("audit")
	audit.AddHandler(&spy{})

	svc := env.m.GetLogger("svc")
	svc.AddHandler(HandlerFunc(func(r *Record) error {
		audit.Error("saw %s", r.Message)
		return nil
	}))

	done := make(chan struct{})
	go func() {
		svc.Error("event")
		close(done)
	}()
	<-done

	assert.Equal(t, 1, audit.Handlers()[0].(*spy).Len())
}

func TestLogger_ConcurrentUse(t *testing.T) {
	env := newTestManager(t)
	sink := &spy{}
	env.m.AddHandler("svc", sink)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := env.m.GetLogger(fmt.Sprintf("svc.worker%d", i%4))
			for j := 0; j < 50; j++ {
				l.Error("tick %d", j)
				l.SetLevel(Info)
				_ = l.LoggerInfo()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16*50, sink.Len())
	assert.Equal(t, 16*50, env.defaults.Len())
}
