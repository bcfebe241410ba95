package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Cookie  CookieConfig
	Log     LogConfig
	JWT     JWTConfig
	Auth    AuthConfig
	Booking BookingConfig
	Worker  WorkerConfig
	Kafka   KafkaConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host        string        `envconfig:"DB_HOST" default:"localhost"`
	Port        string        `envconfig:"DB_PORT" default:"5432"`
	User        string        `envconfig:"DB_USER" required:"true"`
	Password    string        `envconfig:"DB_PASSWORD" required:"true"`
	DBName      string        `envconfig:"DB_NAME" required:"true"`
	SSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string        `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns    int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	LockTimeout time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"2s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type AuthConfig struct {
	BcryptCost int `envconfig:"AUTH_BCRYPT_COST" default:"10"`
}

// BookingConfig drives the admission protocol and the lifecycle policy.
type BookingConfig struct {
	LockWait     time.Duration `envconfig:"BOOKING_LOCK_WAIT" default:"2s"`
	MaxAttempts  int           `envconfig:"BOOKING_MAX_ATTEMPTS" default:"3"`
	RetryBackoff time.Duration `envconfig:"BOOKING_RETRY_BACKOFF" default:"25ms"`
	CancelGrace  time.Duration `envconfig:"BOOKING_CANCEL_GRACE" default:"0s"`
	// requester only when false
	OwnerMayCancel bool `envconfig:"BOOKING_OWNER_MAY_CANCEL" default:"false"`
	// "owner": resource owner or system may force active/completed; "system": system only
	ForcedTransitions string `envconfig:"BOOKING_FORCED_TRANSITIONS" default:"owner"`
}

type WorkerConfig struct {
	Enabled       bool   `envconfig:"WORKER_ENABLED" default:"true"`
	SweepSchedule string `envconfig:"WORKER_SWEEP_SCHEDULE" default:"@every 1m"`
	RelaySchedule string `envconfig:"WORKER_RELAY_SCHEDULE" default:"@every 5s"`
	BatchSize     int    `envconfig:"WORKER_BATCH_SIZE" default:"100"`
}

type KafkaConfig struct {
	// empty: events are published to the application log
	Brokers      []string      `envconfig:"KAFKA_BROKERS"`
	Topic        string        `envconfig:"KAFKA_TOPIC" default:"parkshare.reservations.v1"`
	RequiredAcks int           `envconfig:"KAFKA_REQUIRED_ACKS" default:"-1"`
	MaxAttempts  int           `envconfig:"KAFKA_MAX_ATTEMPTS" default:"5"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
	Source       string        `envconfig:"KAFKA_EVENT_SOURCE" default:"parkshare/booking"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Booking.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (b BookingConfig) Validate() error {
	switch {
	case b.ForcedTransitions != "owner" && b.ForcedTransitions != "system":
		return fmt.Errorf("BOOKING_FORCED_TRANSITIONS must be owner or system, got %q", b.ForcedTransitions)
	case b.MaxAttempts < 1:
		return fmt.Errorf("BOOKING_MAX_ATTEMPTS must be at least 1, got %d", b.MaxAttempts)
	case b.LockWait <= 0:
		return fmt.Errorf("BOOKING_LOCK_WAIT must be positive, got %s", b.LockWait)
	case b.CancelGrace < 0:
		return fmt.Errorf("BOOKING_CANCEL_GRACE cannot be negative, got %s", b.CancelGrace)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:        "localhost",
			Port:        "15433", // Test DB port
			User:        "test",
			Password:    "test",
			DBName:      "test_db",
			SSLMode:     "disable",
			TimeZone:    "UTC",
			MaxConns:    20,
			LockTimeout: 2 * time.Second,
		},
		Cookie: CookieConfig{
			Secure:   false,
			SameSite: "Lax",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-parkshare",
			Duration: "1h",
		},
		Auth: AuthConfig{
			BcryptCost: 4, // bcrypt.MinCost keeps hashing fast in tests
		},
		Booking: BookingConfig{
			LockWait:          2 * time.Second,
			MaxAttempts:       3,
			RetryBackoff:      5 * time.Millisecond,
			ForcedTransitions: "owner",
		},
		Worker: WorkerConfig{
			Enabled:   false,
			BatchSize: 100,
		},
		Kafka: KafkaConfig{
			Topic:  "parkshare.reservations.v1",
			Source: "parkshare/test",
		},
	}
}
