package config

// Config holds all application configuration.
// It organizes settings into logical groups.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`

	// MaxOpenConns bounds the connection pool. Zero means the driver default.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`

	// MaxIdleConns bounds idle pooled connections. Zero means the driver default.
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`

	// MaxLoginAttempts is the failed-login count that triggers a lockout.
	MaxLoginAttempts int `mapstructure:"max_login_attempts" validate:"required,gt=0"`

	// LockoutDurationMinutes is how long an account stays locked.
	LockoutDurationMinutes int `mapstructure:"lockout_duration_minutes" validate:"required,gt=0"`
}

// TaskConfig contains background task processing settings.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`

	// StuckTaskAgeMinutes is how long a task may sit in processing
	// before the monitor resets it.
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`

	// MaxRetries bounds the retries of one frequency computation.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// NotFoundRetryDelaySeconds is the wait before retrying a
	// computation whose paragraph was not yet visible.
	NotFoundRetryDelaySeconds int `mapstructure:"not_found_retry_delay_seconds" validate:"required,gt=0"`

	// FailureRetryDelaySeconds is the wait before retrying after any
	// other computation failure.
	FailureRetryDelaySeconds int `mapstructure:"failure_retry_delay_seconds" validate:"required,gt=0"`
}
