// pkg/logging/logtest/logtest.go

// Package logtest provides handlers and helpers for asserting on log output in
// tests.
package logtest

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// Recorder is a handler that keeps every record it receives.
type Recorder struct {
	mu      sync.Mutex
	records []*logging.Record
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handle implements logging.Handler.
func (r *Recorder) Handle(rec *logging.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of the received records in arrival order.
func (r *Recorder) Records() []*logging.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*logging.Record(nil), r.records...)
}

// Messages returns the rendered message of every received record.
func (r *Recorder) Messages() []string {
	records := r.Records()
	msgs := make([]string, len(records))
	for i, rec := range records {
		msgs[i] = rec.GetMessage()
	}
	return msgs
}

// Len returns the number of received records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Reset drops all received records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}

func (r *Recorder) find(level logging.Level, msgContains string) *logging.Record {
	for _, rec := range r.Records() {
		if rec.Level == level && strings.Contains(rec.GetMessage(), msgContains) {
			return rec
		}
	}
	return nil
}

// AssertLogged verifies a record at level containing msgContains was received.
func (r *Recorder) AssertLogged(tb testing.TB, level logging.Level, msgContains string) {
	tb.Helper()
	if r.find(level, msgContains) == nil {
		tb.Errorf("expected log at %v containing %q, logs: %q", level, msgContains, r.Messages())
	}
}

// AssertNotLogged verifies no record at level containing msgContains was received.
func (r *Recorder) AssertNotLogged(tb testing.TB, level logging.Level, msgContains string) {
	tb.Helper()
	if r.find(level, msgContains) != nil {
		tb.Errorf("unexpected log at %v containing %q", level, msgContains)
	}
}

// AssertExtra verifies a record whose message contains msgContains carries key
// with the expected value in its Extra.
func (r *Recorder) AssertExtra(tb testing.TB, msgContains, key string, expected any) {
	tb.Helper()
	for _, rec := range r.Records() {
		if !strings.Contains(rec.GetMessage(), msgContains) {
			continue
		}
		if v, ok := rec.Extra[key]; ok && reflect.DeepEqual(v, expected) {
			return
		}
	}
	tb.Errorf("extra %q=%v not found in message %q", key, expected, msgContains)
}

var (
	sensitiveKeys = []string{"password", "secret", "token", "api_key", "authorization", "bearer", "credential", "private_key"}

	sensitivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bearer\s+\S+`),
		regexp.MustCompile(`(?i)api[_-]?key[=:]\s*\S+`),
	}
)

// AssertNoSecrets verifies no sensitive data leaked into messages or extra
// fields. String values under sensitive keys must be empty or redacted.
func (r *Recorder) AssertNoSecrets(tb testing.TB) {
	tb.Helper()
	for _, rec := range r.Records() {
		msg := rec.GetMessage()
		for _, re := range sensitivePatterns {
			if re.MatchString(msg) {
				tb.Errorf("sensitive pattern in message: %q", msg)
			}
		}

		for key, value := range rec.Extra {
			s, ok := value.(string)
			if !ok {
				continue
			}
			keyLower := strings.ToLower(key)
			for _, sensitive := range sensitiveKeys {
				if strings.Contains(keyLower, sensitive) && s != "" && !strings.Contains(s, "[REDACTED]") {
					tb.Errorf("sensitive field %q not redacted: %q", key, s)
				}
			}
			for _, re := range sensitivePatterns {
				if re.MatchString(s) {
					tb.Errorf("sensitive pattern in field %q: %q", key, s)
				}
			}
		}
	}
}

// MockHandler is a testify mock implementation of logging.Handler.
type MockHandler struct {
	mock.Mock
}

// Handle implements logging.Handler.
func (m *MockHandler) Handle(r *logging.Record) error {
	args := m.Called(r)
	return args.Error(0)
}

// ErrHandlerFailed is returned by FailingHandler when no error is given.
var ErrHandlerFailed = errors.New("handler failed")

// FailingHandler returns a handler that fails every call with err, or panics
// with err when panics is true.
func FailingHandler(err error, panics bool) logging.Handler {
	if err == nil {
		err = ErrHandlerFailed
	}
	return logging.HandlerFunc(func(r *logging.Record) error {
		if panics {
			panic(fmt.Sprintf("handler panic: %v", err))
		}
		return err
	})
}

// Harness is an isolated Manager wired for assertions.
type Harness struct {
	*logging.Manager

	// Recorder is the sole default handler of the Manager.
	Recorder *Recorder
	// Diagnostics observes handler failures reported by the Manager.
	Diagnostics *observer.ObservedLogs
}

// NewManager creates a Manager whose only default handler is a Recorder and
// whose handler failures are captured by an observer core.
func NewManager(tb testing.TB) *Harness {
	tb.Helper()

	rec := NewRecorder()
	core, observed := observer.New(zap.DebugLevel)
	m := logging.NewManager(
		logging.WithReporter(logging.NewZapReporter(zap.New(core))),
		logging.WithDefaultHandlers(func(*logging.Config) []logging.Handler {
			return []logging.Handler{rec}
		}),
	)
	return &Harness{Manager: m, Recorder: rec, Diagnostics: observed}
}

// AssertHandlerErrors verifies exactly n handler failures were reported.
func (h *Harness) AssertHandlerErrors(tb testing.TB, n int) {
	tb.Helper()
	got := h.Diagnostics.FilterMessage("error in log handler").Len()
	if got != n {
		tb.Errorf("expected %d handler errors, got %d", n, got)
	}
}
