package tests

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/logger"
)

func TestNew_CreatesLogFileAndWrites(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "http.log")

	l := logger.New(logger.Options{Dir: dir, Level: "info"})
	// пишем лог
	l.Info("test message")
	// закрываем буферы zap
	_ = l.Sync()

	// проверяем, что файл создан
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist at %q, got error: %v", logPath, err)
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// проверяем формат времени: "HH:MM:SS DD.MM.YYYY"
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	dir := t.TempDir()

	l := logger.New(logger.Options{Dir: dir})
	l.LogRequest("POST", "/auth/login", 401, 20, 158.5463, "req-1")
	l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "http.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	mustContain := []string{
		"HTTP request",
		"request_id", "req-1",
		"method", "POST",
		"uri", "/auth/login",
		"status", "401",
		"response_size", "20",
		"duration_ms",
	}
	for _, sub := range mustContain {
		if !regexp.MustCompile(regexp.QuoteMeta(sub)).MatchString(s) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}

// debug не пишется при уровне info
func TestNew_RespectsLevel(t *testing.T) {
	dir := t.TempDir()

	l := logger.New(logger.Options{Dir: dir, Level: "info", Format: "json"})
	l.Debug("hidden debug line")
	l.Info("visible info line")
	l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "http.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if regexp.MustCompile(`hidden debug line`).MatchString(s) {
		t.Fatalf("debug line must be filtered at info level, got: %q", s)
	}
	if !regexp.MustCompile(`"msg":"visible info line"`).MatchString(s) {
		t.Fatalf("expected json encoded info line, got: %q", s)
	}
}
