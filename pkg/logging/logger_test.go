package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// setupTestDir points the package at a temporary log directory and resets
// global state, returning a cleanup function that restores both.
func setupTestDir(t *testing.T) (cleanup func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "recall-logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Re-running directory init must resolve inside the temp dir, not the
	// real recall home.
	t.Setenv("RECALL_HOME", tempDir)

	origLogDir := logDir
	origInitErr := initErr
	origInitOnce := initOnce
	origSessionID := sessionID
	origSessionIDOnce := sessionIDOnce

	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	return func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = origInitOnce
		sessionID = origSessionID
		sessionIDOnce = origSessionIDOnce

		os.RemoveAll(tempDir)
	}
}

func TestNewLogger(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}

	if logger.sessionID == "" {
		t.Error("Expected non-empty session ID")
	}

	if logger.logPath == "" {
		t.Error("Expected non-empty log path")
	}

	if _, err := os.Stat(logger.logPath); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.logPath)
	}
}

func TestLoggerFormatting(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("Debug message")
	logger.Infof("Info message %d", 123)
	logger.Warnf("Warning message")
	logger.Errorf("Error message")

	time.Sleep(50 * time.Millisecond)

	content, err := os.ReadFile(logger.logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	expectedPatterns := []string{
		"[test] [DEBUG] Debug message",
		"[test] [INFO] Info message 123",
		"[test] [WARN] Warning message",
		"[test] [ERROR] Error message",
	}

	for _, pattern := range expectedPatterns {
		if !strings.Contains(logContent, pattern) {
			t.Errorf("Log content missing expected pattern: %q\nContent:\n%s", pattern, logContent)
		}
	}
}

func TestMultipleComponentsShareSession(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger1, err := NewLogger("reader")
	if err != nil {
		t.Fatalf("Failed to create logger1: %v", err)
	}
	defer logger1.Close()

	logger2, err := NewLogger("writer")
	if err != nil {
		t.Fatalf("Failed to create logger2: %v", err)
	}
	defer logger2.Close()

	if logger1.sessionID != logger2.sessionID {
		t.Errorf("Expected same session ID, got %q and %q", logger1.sessionID, logger2.sessionID)
	}

	if logger1.logPath != logger2.logPath {
		t.Errorf("Expected same log path, got %q and %q", logger1.logPath, logger2.logPath)
	}

	logger1.Infof("message from reader")
	logger2.Infof("message from writer")

	time.Sleep(50 * time.Millisecond)

	content, err := os.ReadFile(logger1.logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	if !strings.Contains(logContent, "[reader]") {
		t.Error("Log missing reader entries")
	}
	if !strings.Contains(logContent, "[writer]") {
		t.Error("Log missing writer entries")
	}
}

func TestGetSessionID(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	id1 := GetSessionID()
	id2 := GetSessionID()

	if id1 != id2 {
		t.Errorf("Expected consistent session ID, got %q and %q", id1, id2)
	}

	if id1 == "" {
		t.Error("Expected non-empty session ID")
	}
}

func TestGetLogDirectory(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	dir, err := GetLogDirectory()
	if err != nil {
		t.Fatalf("Failed to get log directory: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Log directory does not exist or is not a directory: %s", dir)
	}
}

func TestLoggerClose(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

func TestLogPathFormat(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	fileName := filepath.Base(logger.logPath)
	if !strings.HasSuffix(fileName, "-recall.log") {
		t.Errorf("Expected log file to end with '-recall.log', got %q", fileName)
	}

	sessionPart := strings.TrimSuffix(fileName, "-recall.log")
	if !strings.Contains(sessionPart, "-") {
		t.Errorf("Expected session ID part to contain dashes (UUID format), got %q", sessionPart)
	}
}
