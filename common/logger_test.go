package common

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}

	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestAppLogger_SetLevel(t *testing.T) {
	logger := NewAppLogger(io.Discard)

	if got := logger.Level(); got != LevelInfo {
		t.Errorf("default level = %v, want INFO", got)
	}
	logger.SetLevel(LevelDebug)
	if got := logger.Level(); got != LevelDebug {
		t.Errorf("SetLevel did not update level, got %v, want %v", got, LevelDebug)
	}
}

func TestAppLogger_LogFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAppLogger(&buf)
	logger.SetLevel(LevelWarn)

	// Debug and Info should be filtered
	logger.Debug("debug message")
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is Warn")
	}

	// Warn and Error should pass
	logger.Warn("warn message")
	if !strings.Contains(buf.String(), "WARN") {
		t.Error("Warn message should be logged")
	}

	buf.Reset()
	logger.Error("error message")
	if !strings.Contains(buf.String(), "ERROR") {
		t.Error("Error message should be logged")
	}
}

func TestAppLogger_LogFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAppLogger(&buf)

	logger.Info("Test message with %s", "formatting")
	output := buf.String()

	if !strings.Contains(output, time.Now().Format("2006/01/02")) {
		t.Error("Log should contain date in YYYY/MM/DD format")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("Log should contain level indicator")
	}
	if !strings.Contains(output, "logger_test.go:") {
		t.Errorf("Log should name the calling file, got %q", output)
	}
	if !strings.Contains(output, "Test message with formatting") {
		t.Error("Log should contain formatted message")
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Log line should end with a newline")
	}
}

func TestAppLogger_LiteralPercent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAppLogger(&buf)

	logger.Info("100% loaded")
	if !strings.Contains(buf.String(), "100% loaded") {
		t.Errorf("message without args must be written verbatim, got %q", buf.String())
	}
}

func TestDefaultLogConfig(t *testing.T) {
	if defaultMaxFileSize != 5*1024*1024 {
		t.Errorf("defaultMaxFileSize = %v, want 5MB", defaultMaxFileSize)
	}
	if defaultMaxBackups != 5 {
		t.Errorf("defaultMaxBackups = %v, want 5", defaultMaxBackups)
	}
}

func TestEnableFileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := NewAppLogger(nil)

	if err := logger.EnableFileLogging(dir); err != nil {
		t.Fatalf("EnableFileLogging() error = %v", err)
	}
	defer logger.Close()

	if got := logger.LogPath(); got != filepath.Join(dir, LogFileName) {
		t.Errorf("LogPath() = %q", got)
	}

	logger.Info("session ended after %d seconds", 42)

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "session ended after 42 seconds") {
		t.Errorf("log file content = %q, want formatted message", string(data))
	}

	if err := logger.EnableFileLogging(""); err == nil {
		t.Error("EnableFileLogging(\"\") should fail")
	}
}

func TestEnableFileLogging_RejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "elsewhere.log")
	if err := os.WriteFile(target, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(dir, LogFileName)); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	logger := NewAppLogger(nil)
	if err := logger.EnableFileLogging(dir); err == nil {
		logger.Close()
		t.Error("EnableFileLogging should refuse a symlinked log file")
	}
}

func TestRotatingFile_RotatesOnWrite(t *testing.T) {
	dir := t.TempDir()

	f, err := openRotatingFile(dir, 100, 2)
	if err != nil {
		t.Fatalf("openRotatingFile() error = %v", err)
	}
	defer f.Close()

	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	line := strings.Repeat("x", 59) + "\n"
	for i := 0; i < 8; i++ {
		if _, err := f.Write([]byte(line)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	info, err := os.Stat(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("current log missing: %v", err)
	}
	if info.Size() > 100 {
		t.Errorf("current log size = %d, want at most 100", info.Size())
	}

	backups, _ := filepath.Glob(filepath.Join(dir, LogFileName+".*.gz"))
	if len(backups) != 2 {
		t.Fatalf("backups = %v, want 2 kept", backups)
	}

	gzFile, err := os.Open(backups[len(backups)-1])
	if err != nil {
		t.Fatal(err)
	}
	defer gzFile.Close()
	zr, err := gzip.NewReader(gzFile)
	if err != nil {
		t.Fatalf("backup is not gzip: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != line {
		t.Errorf("backup content = %q, want one line", data)
	}
}

func TestRotatingFile_RotatesOversizedFileOnOpen(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, LogFileName)

	if err := os.WriteFile(logFile, []byte(strings.Repeat("x", 1024*1024)), 0600); err != nil {
		t.Fatal(err)
	}

	f, err := openRotatingFile(dir, 512*1024, 2)
	if err != nil {
		t.Fatalf("openRotatingFile() error = %v", err)
	}
	defer f.Close()

	info, err := os.Stat(logFile)
	if err != nil {
		t.Fatalf("log file not recreated: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("log file size = %d, want fresh file", info.Size())
	}

	matches, _ := filepath.Glob(filepath.Join(dir, LogFileName+".*"))
	if len(matches) != 1 {
		t.Errorf("backups = %v, want 1", matches)
	}
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if !strings.HasSuffix(dir, ConfigDirName) {
		t.Errorf("GetConfigDir() = %v, should end with %v", dir, ConfigDirName)
	}
	if got := GetLogDir(); got != filepath.Join(dir, "logs") {
		t.Errorf("GetLogDir() = %v, want logs inside %v", got, dir)
	}

	data, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir() error = %v", err)
	}
	if !strings.HasSuffix(data, filepath.Join(".local", "share", ConfigDirName)) {
		t.Errorf("GetDataDir() = %v", data)
	}
	if !FileExists(data) {
		t.Error("GetDataDir() should create the directory")
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) {
		t.Error("FileExists() should return true for existing file")
	}
	if FileExists("/nonexistent/path/to/file") {
		t.Error("FileExists() should return false for non-existing file")
	}
}

func TestStringInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}

	if !StringInSlice("b", slice) {
		t.Error("StringInSlice should return true for existing element")
	}
	if StringInSlice("d", slice) {
		t.Error("StringInSlice should return false for non-existing element")
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00:00"},
		{-5, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{3*3600 + 25*60 + 7, "03:25:07"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatClock(tt.seconds); got != tt.expected {
				t.Errorf("FormatClock(%d) = %v, want %v", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestInstallDir(t *testing.T) {
	dir := InstallDir()
	if dir == "" {
		t.Fatal("InstallDir() returned empty string")
	}
	if got := DefaultPreferencesPath(); got != filepath.Join(dir, PreferencesFileName) {
		t.Errorf("DefaultPreferencesPath() = %v, want file inside %v", got, dir)
	}
}

func TestWrapError(t *testing.T) {
	wrapped := WrapError(ErrWindowCreate, "additional context")

	if wrapped == nil {
		t.Fatal("WrapError should return non-nil error")
	}
	if !strings.Contains(wrapped.Error(), "additional context") {
		t.Error("WrapError should include additional context")
	}
	if !errors.Is(wrapped, ErrWindowCreate) {
		t.Error("WrapError should keep the sentinel reachable through errors.Is")
	}
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}
}
