package config

import "time"

const (
	defaultLogFile                = "e-library.log"
	defaultLogLevel               = "info"
	defaultLogFileMaxSize         = 20
	defaultLogFileMaxBackups      = 3
	defaultLogFileMaxAge          = 28
	defaultLogCompress            = false
	defaultPort                   = 8080
	defaultHost                   = "0.0.0.0"
	defaultData                   = "/var/opt/e-library"
	defaultDSN                    = defaultData + "/e-library.db"
	defaultWorkerPoolSize         = 4
	defaultOverdueScanInterval    = 24 * time.Hour
	defaultAccessTokenDuration    = 7 * 24 * time.Hour
	defaultMaxUploadSize          = 10
	defaultCoverQuality           = 75
	defaultMaxLoans               = 3
	defaultMaxReservations        = 1
	defaultMaxLoanWeeks           = 4
	defaultProposedRenewalWeeks   = 3
	defaultAuthorsPerPage         = 10
	defaultTransactionMaxAttempts = 5
	defaultTransactionBaseDelay   = 20 * time.Millisecond

	// EnvPrefix is the prefix of environment variables that override the config file.
	EnvPrefix = "ELIB"
)

// Why use mapstructure instead of json: viper decodes through mapstructure and ignores json tags.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store the database and covers
	Data           string `mapstructure:"data"`
	WorkerPoolSize int    `mapstructure:"worker_pool_size"`
	// OverdueScanInterval is how often overdue loans are checked, zero disables the scan
	OverdueScanInterval time.Duration `mapstructure:"overdue_scan_interval"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	// MaxUploadSize is the maximum size of a cover upload, in MiB
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	CoverQuality  int   `mapstructure:"cover_quality"`

	Lending LendingOptions `mapstructure:"lending"`
}

// LendingOptions holds the borrowing policy knobs.
type LendingOptions struct {
	MaxLoans             int `mapstructure:"max_loans"`
	MaxReservations      int `mapstructure:"max_reservations"`
	MaxLoanWeeks         int `mapstructure:"max_loan_weeks"`
	ProposedRenewalWeeks int `mapstructure:"proposed_renewal_weeks"`
	AuthorsPerPage       int `mapstructure:"authors_per_page"`

	TransactionMaxAttempts int           `mapstructure:"transaction_max_attempts"`
	TransactionBaseDelay   time.Duration `mapstructure:"transaction_base_delay"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:             defaultLogFile,
		LogLevel:            defaultLogLevel,
		LogFileMaxSize:      defaultLogFileMaxSize,
		LogFileMaxBackups:   defaultLogFileMaxBackups,
		LogFileMaxAge:       defaultLogFileMaxAge,
		LogCompress:         defaultLogCompress,
		DSN:                 defaultDSN,
		Port:                defaultPort,
		Host:                defaultHost,
		Data:                defaultData,
		WorkerPoolSize:      defaultWorkerPoolSize,
		OverdueScanInterval: defaultOverdueScanInterval,
		AccessTokenDuration: defaultAccessTokenDuration,
		MaxUploadSize:       defaultMaxUploadSize,
		CoverQuality:        defaultCoverQuality,
		Lending: LendingOptions{
			MaxLoans:               defaultMaxLoans,
			MaxReservations:        defaultMaxReservations,
			MaxLoanWeeks:           defaultMaxLoanWeeks,
			ProposedRenewalWeeks:   defaultProposedRenewalWeeks,
			AuthorsPerPage:         defaultAuthorsPerPage,
			TransactionMaxAttempts: defaultTransactionMaxAttempts,
			TransactionBaseDelay:   defaultTransactionBaseDelay,
		},
	}
	return Opts
}
