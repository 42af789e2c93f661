package logging

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// spy records every record it receives.
type spy struct {
	mu      sync.Mutex
	records []*Record
}

func (s *spy) Handle(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *spy) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *spy) Last() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil
	}
	return s.records[len(s.records)-1]
}

var testTime = time.Date(2025, 11, 24, 10, 15, 30, 0, time.UTC)

type testEnv struct {
	m           *Manager
	defaults    *spy
	diagnostics *observer.ObservedLogs
}

// newTestManager returns an isolated Manager with a spy as its only default
// handler, a fixed clock, sequential record IDs and an observed reporter.
func newTestManager(t *testing.T) *testEnv {
	t.Helper()

	defaults := &spy{}
	core, observed := observer.New(zapcore.DebugLevel)
	var seq atomic.Int64
	m := NewManager(
		WithReporter(NewZapReporter(zap.New(core))),
		WithDefaultHandlers(func(*Config) []Handler { return []Handler{defaults} }),
		WithClock(func() time.Time { return testTime }),
		WithIDFunc(func() string { return fmt.Sprintf("rec-%d", seq.Add(1)) }),
	)
	return &testEnv{m: m, defaults: defaults, diagnostics: observed}
}

// safeBuffer is a bytes.Buffer safe for concurrent writers.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
