package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultConfig(t *testing.T) {
	GetDefaultOptions()
	Opts.Data = t.TempDir()

	opts, err := GetConfig()
	if err != nil {
		t.Fatalf("Error loading config: %s", err)
	}

	t.Logf(`Config
		Host: %s
		Port: %d
		DSN: %s
		LogLevel: %s
		Data: %s
		`, opts.Host, opts.Port, opts.DSN, opts.LogLevel, opts.Data)

	if opts.DSN != filepath.Join(opts.Data, "e-library.db") {
		t.Errorf("dsn not placed in data dir: %s", opts.DSN)
	}
	if opts.Lending.MaxLoans != 3 || opts.Lending.MaxReservations != 1 || opts.Lending.MaxLoanWeeks != 4 {
		t.Errorf("lending defaults incorrect: %+v", opts.Lending)
	}
}

func TestLoadConfigFile(t *testing.T) {
	GetDefaultOptions()
	opts, err := ParseFile("config_test.toml")
	if err != nil {
		t.Fatalf("Error loading config: %s", err)
	}
	if opts.Host != "127.0.0.1" {
		t.Errorf("host incorrect")
	}
	if opts.LogFile != "test.log" {
		t.Errorf("log_file incorrect")
	}
	if opts.Port != 2333 {
		t.Errorf("port incorrect")
	}
	if opts.LogLevel != "debug" {
		t.Errorf("log_level incorrect")
	}
	if opts.OverdueScanInterval != time.Hour {
		t.Errorf("overdue_scan_interval incorrect: %s", opts.OverdueScanInterval)
	}
	if opts.Lending.MaxLoans != 5 {
		t.Errorf("lending.max_loans incorrect")
	}
	// Keys missing from the file keep their defaults.
	if opts.Lending.MaxReservations != 1 {
		t.Errorf("lending.max_reservations lost its default")
	}
}

func TestLoadEnv(t *testing.T) {
	GetDefaultOptions()
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("ELIB_HOST=10.0.0.1\nELIB_LENDING_MAX_LOANS=7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ELIB_PORT", "9090")
	t.Cleanup(func() {
		os.Unsetenv("ELIB_HOST")
		os.Unsetenv("ELIB_LENDING_MAX_LOANS")
	})

	opts, err := LoadEnv(envFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Error loading env: %s", err)
	}
	if opts.Port != 9090 {
		t.Errorf("port incorrect: %d", opts.Port)
	}
	if opts.Host != "10.0.0.1" {
		t.Errorf("host incorrect: %s", opts.Host)
	}
	if opts.Lending.MaxLoans != 7 {
		t.Errorf("lending.max_loans incorrect: %d", opts.Lending.MaxLoans)
	}
	if opts.LogLevel != defaultLogLevel {
		t.Errorf("log_level should keep its default")
	}
}
