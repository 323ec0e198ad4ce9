package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

func TestTestLogger_Levels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("split committed", SplitKey, 6.95, GainKey, 0.012)
	testLogger.Info("fit completed", OperationKey, OperationFit)
	testLogger.Warn("single bin produced", BinsKey, 1)
	testLogger.Error("fit failed", fmt.Errorf("bad weights"), ErrorCodeKey, ErrorInvalidInput)

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty buffer")
	}
	for _, msg := range []string{"split committed", "fit completed", "single bin produced", "fit failed"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("message %q not found in output", msg)
		}
	}
	if !testLogger.ContainsField(SplitKey, 6.95) {
		t.Error("Expected split field not found")
	}
	if !testLogger.ContainsField(BinsKey, 1.0) { // JSON numbers decode as float64
		t.Error("Expected bins field not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "bad weights") {
		t.Error("Leading error should be recorded under the error key")
	}
}

func TestTestLogger_With(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "Discretizer",
		ColumnKey, "fare",
	)
	contextLogger.Info("fit completed", OperationKey, OperationFit)

	if !testLogger.ContainsField(ModelNameKey, "Discretizer") {
		t.Error("Model name context not found")
	}
	if !testLogger.ContainsField(ColumnKey, "fare") {
		t.Error("Column context not found")
	}
	if !testLogger.ContainsField(OperationKey, OperationFit) {
		t.Error("Operation field not found")
	}
}

func TestTestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  []string
		skip  []string
	}{
		{"debug", LevelDebug, []string{"d", "i", "w", "e"}, nil},
		{"info", LevelInfo, []string{"i", "w", "e"}, []string{"d"}},
		{"warn", LevelWarn, []string{"w", "e"}, []string{"d", "i"}},
		{"error", LevelError, []string{"e"}, []string{"d", "i", "w"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := NewTestLogger(tt.level)
			logger.Debug("msg-d")
			logger.Info("msg-i")
			logger.Warn("msg-w")
			logger.Error("msg-e")

			for _, s := range tt.want {
				if !logger.ContainsMessage("msg-" + s) {
					t.Errorf("expected msg-%s at level %s", s, tt.level)
				}
			}
			for _, s := range tt.skip {
				if logger.ContainsMessage("msg-" + s) {
					t.Errorf("msg-%s should be filtered at level %s", s, tt.level)
				}
			}
		})
	}
}

func TestTestLogger_Concurrent(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			l := logger.With(ColumnKey, fmt.Sprintf("col%d", col))
			for j := 0; j < 10; j++ {
				l.Info("fit completed", BinsKey, j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries() error = %v", err)
	}
	if len(entries) != 80 {
		t.Errorf("expected 80 entries, got %d", len(entries))
	}
}

func TestTestLoggerProvider(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelWarn)

	named := provider.GetLoggerWithName("discretize")
	named.Info("hidden")
	named.Warn("visible")

	if provider.Logger().ContainsMessage("hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !provider.Logger().ContainsField(ComponentKey, "discretize") {
		t.Error("component field not found")
	}

	provider.SetLevel(LevelDebug)
	if !named.Enabled(context.Background(), LevelDebug) {
		t.Error("SetLevel should affect loggers already handed out")
	}
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf, LevelInfo)

	logger := p.GetLoggerWithName("discretize").With(ModelNameKey, "Discretizer")
	logger.Debug("dropped")
	logger.Info("fit completed", BinsKey, 4, TotalIVKey, 0.35)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["message"] != "fit completed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[ComponentKey] != "discretize" {
		t.Errorf("component = %v", entry[ComponentKey])
	}
	if entry[ModelNameKey] != "Discretizer" {
		t.Errorf("model = %v", entry[ModelNameKey])
	}
	if entry[BinsKey] != 4.0 {
		t.Errorf("bins = %v", entry[BinsKey])
	}

	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	p.SetLevel(LevelDebug)
	if !p.GetLogger().Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be enabled after SetLevel")
	}
}

func TestZerologProvider_ErrorStacktrace(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf, LevelDebug)

	err := woeerrors.NewValidationError("max_bins", "must be at least 1", 0)
	p.GetLogger().Error("invalid params", ErrAttr(err)...)

	var entry map[string]interface{}
	if jerr := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); jerr != nil {
		t.Fatalf("invalid JSON: %v", jerr)
	}
	if !strings.Contains(fmt.Sprint(entry[ErrAttrKey]), "max_bins") {
		t.Errorf("error field = %v", entry[ErrAttrKey])
	}
	if _, ok := entry[StacktraceKey]; !ok {
		t.Error("expected stacktrace for an error carrying a stack")
	}
}

func TestSetupLogger(t *testing.T) {
	defer SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelInfo))
	defer woeerrors.SetZerologWarnFunc(nil)

	var buf bytes.Buffer
	if err := SetupLogger("warn", &buf); err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}

	GetLogger().Info("hidden")
	woeerrors.Warn(woeerrors.NewDegenerateBinningWarning(12, "no candidate passed min_obs"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "DegenerateBinningWarning") {
		t.Errorf("warning not routed through zerolog: %q", out)
	}

	if err := SetupLogger("verbose", &buf); !woeerrors.IsValidation(err) {
		t.Errorf("expected validation error for unknown level, got %v", err)
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
