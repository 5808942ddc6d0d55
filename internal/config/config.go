package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var Opts *Options

// envKeys lists the options that may be overridden from the environment,
// e.g. ELIB_PORT or ELIB_LENDING_MAX_LOANS.
var envKeys = []string{
	"log_file",
	"log_level",
	"dsn_uri",
	"port",
	"host",
	"data",
	"worker_pool_size",
	"overdue_scan_interval",
	"access_token_duration",
	"max_upload_size",
	"lending.max_loans",
	"lending.max_reservations",
	"lending.max_loan_weeks",
	"lending.proposed_renewal_weeks",
}

func GetConfig() (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}

	dataDir, err := checkDataDir(Opts.Data)
	if err != nil {
		fmt.Println("Error checking data directory: ", err)
		return nil, err
	}

	if Opts.DSN == "" || Opts.DSN == defaultDSN {
		Opts.DSN = filepath.Join(dataDir, "e-library.db")
	}
	Opts.Data = dataDir

	return Opts, nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err == nil {
		return dataDir, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	err := os.MkdirAll(dataDir, 0755)
	if err == nil {
		return dataDir, nil
	}
	if !errors.Is(err, os.ErrPermission) || dataDir != defaultData {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}

	// Permission denied on the default location, fall back to the home directory.
	currentUser, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "unable to get current user")
	}
	if currentUser.HomeDir == "" {
		return "", errors.New("unable to get home directory")
	}
	homeData := filepath.Join(currentUser.HomeDir, ".e-library")
	fmt.Println("Permission denied, using data folder in home directory: ", homeData)
	if err := os.MkdirAll(homeData, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create data folder %s", homeData)
	}
	return homeData, nil
}

// ParseFile reads a config file (toml, yaml or json) over the current options.
func ParseFile(file string) (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", file)
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	return Opts, nil
}

// LoadEnv loads the given .env files (default ".env", missing files are skipped)
// and applies ELIB_* environment variables over the current options.
func LoadEnv(files ...string) (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "unable to load env file %s", file)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "unable to bind env key %s", key)
		}
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode environment")
	}
	return Opts, nil
}
