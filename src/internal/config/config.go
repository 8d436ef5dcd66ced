package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultPath = "src/internal/config/cfg.yml"

var (
	ErrMissingSessionSecret = errors.New("session secret is required")
	ErrMissingDatabaseURL   = errors.New("database url is required")
	ErrInvalidSetting       = errors.New("invalid configuration setting")
)

type Configuration struct {
	Logs      LogsSettings      `mapstructure:"logs"`
	App       Application       `mapstructure:"app"`
	Database  Database          `mapstructure:"database"`
	Queue     QueueConfig       `mapstructure:"queue"`
	Redis     Redis             `mapstructure:"redis"`
	Security  SecuritySettings  `mapstructure:"security"`
	Server    ServerSettings    `mapstructure:"server"`
	Session   SessionSettings   `mapstructure:"session"`
	RateLimit RateLimitSettings `mapstructure:"rate-limit"`
	LastVisit LastVisitSettings `mapstructure:"last-visit"`
	Search    SearchConfig      `mapstructure:"search"`
}

type LogsSettings struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"log-path"`
	EnableJSONOutput bool   `mapstructure:"enable-json-output"`
}

type Application struct {
	Name    string `mapstructure:"name"`
	Timeout int    `mapstructure:"timeout"`
	Version string `mapstructure:"version"`
}

type Database struct {
	Url         string      `mapstructure:"url"`
	DbName      string      `mapstructure:"dbname"`
	Collections Collections `mapstructure:"collections"`
	Timeout     int         `mapstructure:"timeout"`
}

type Collections struct {
	Sessions  string `mapstructure:"sessions"`
	Employees string `mapstructure:"employees"`
	Reviews   string `mapstructure:"reviews"`
}

type SearchConfig struct {
	MinQueryLimit int `mapstructure:"min-query-limit"`
	MaxQueryLimit int `mapstructure:"max-query-limit"`
}

type QueueConfig struct {
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type RabbitMQConfig struct {
	Url          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange-type"`
	RoutingKey   string `mapstructure:"routing-key"`
	Durable      bool   `mapstructure:"durable"`
	AutoDelete   bool   `mapstructure:"auto-delete"`
	Internal     bool   `mapstructure:"internal"`
	NoWait       bool   `mapstructure:"no-wait"`
}

type Redis struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type SecuritySettings struct {
	SessionSecret  string   `mapstructure:"session-secret"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

type ServerSettings struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	ReadTimeout  int    `mapstructure:"read-timeout"`
	WriteTimeout int    `mapstructure:"write-timeout"`
	IdleTimeout  int    `mapstructure:"idle-timeout"`
	// TrustedHops is the number of reverse proxies in front of the service.
	// Zero means the socket address is the client address.
	TrustedHops int    `mapstructure:"trusted-hops"`
	PublicDir   string `mapstructure:"public-dir"`
	BodyLimit   int64  `mapstructure:"body-limit"`
}

type SessionSettings struct {
	CookieName   string        `mapstructure:"cookie-name"`
	Timeout      time.Duration `mapstructure:"timeout"`
	StoreTTL     time.Duration `mapstructure:"store-ttl"`
	CacheEnabled bool          `mapstructure:"cache-enabled"`
}

type RateLimitSettings struct {
	Enabled bool          `mapstructure:"enabled"`
	Window  time.Duration `mapstructure:"window"`
	Max     int64         `mapstructure:"max"`
	Message string        `mapstructure:"message"`
	MaxKeys int           `mapstructure:"max-keys"`
	// FailOpen admits requests when the counter store is unreachable.
	FailOpen bool `mapstructure:"fail-open"`
}

type LastVisitSettings struct {
	CookieName string        `mapstructure:"cookie-name"`
	MaxAge     time.Duration `mapstructure:"max-age"`
}

// Path returns the config file to read: CONFIG_PATH when set, otherwise the
// bundled file if it exists, otherwise empty (defaults and env only).
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath
	}
	return ""
}

func Load(path string) (*Configuration, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logrus.WithField("path", path).Info("Configuration loaded")
	return cfg, nil
}

func read(path string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "employee-review-svc")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.timeout", 10)

	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.log-path", "")
	v.SetDefault("logs.enable-json-output", false)

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read-timeout", 15)
	v.SetDefault("server.write-timeout", 15)
	v.SetDefault("server.idle-timeout", 60)
	v.SetDefault("server.trusted-hops", 1)
	v.SetDefault("server.public-dir", "src/web/public")
	v.SetDefault("server.body-limit", 100*1024)

	v.SetDefault("database.url", "")
	v.SetDefault("database.dbname", "employee_review")
	v.SetDefault("database.collections.sessions", "sessions")
	v.SetDefault("database.collections.employees", "employees")
	v.SetDefault("database.collections.reviews", "reviews")
	v.SetDefault("database.timeout", 10)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("queue.rabbitmq.url", "")
	v.SetDefault("queue.rabbitmq.exchange", "employee-review.activity")
	v.SetDefault("queue.rabbitmq.exchange-type", "topic")
	v.SetDefault("queue.rabbitmq.routing-key", "activity.auth")
	v.SetDefault("queue.rabbitmq.durable", true)

	v.SetDefault("security.session-secret", "")
	v.SetDefault("security.allowed-origins", []string{})

	v.SetDefault("session.cookie-name", "sid")
	v.SetDefault("session.timeout", 15*time.Minute)
	v.SetDefault("session.store-ttl", 15*time.Minute)
	v.SetDefault("session.cache-enabled", true)

	v.SetDefault("rate-limit.enabled", true)
	v.SetDefault("rate-limit.window", time.Second)
	v.SetDefault("rate-limit.max", 20)
	v.SetDefault("rate-limit.message", "Too many requests from this IP, please try again later.")
	v.SetDefault("rate-limit.max-keys", 10000)
	v.SetDefault("rate-limit.fail-open", false)

	v.SetDefault("last-visit.cookie-name", "lastVisit")
	v.SetDefault("last-visit.max-age", 48*time.Hour)

	v.SetDefault("search.min-query-limit", 20)
	v.SetDefault("search.max-query-limit", 100)
}

func applyEnv(cfg *Configuration) error {
	// Override with environment variables
	mongoUri := os.Getenv("MONGODB_URL")
	if mongoUri != "" {
		cfg.Database.Url = mongoUri
	}

	dbName := os.Getenv("DB_NAME")
	if dbName != "" {
		cfg.Database.DbName = dbName
	}

	redisUrl := os.Getenv("REDIS_URL")
	if redisUrl != "" {
		cfg.Redis.Url = redisUrl
	}

	redisDB := os.Getenv("REDIS_DB")
	if redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.Db = db
		}
	}

	rabbitmqUrl := os.Getenv("RABBITMQ_URL")
	if rabbitmqUrl != "" {
		cfg.Queue.RabbitMQ.Url = rabbitmqUrl
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret != "" {
		cfg.Security.SessionSecret = sessionSecret
	}

	sessionTimeout := os.Getenv("SESSION_TIMEOUT")
	if sessionTimeout != "" {
		timeout, err := parseDuration(sessionTimeout)
		if err != nil {
			return fmt.Errorf("%w: SESSION_TIMEOUT=%q", ErrInvalidSetting, sessionTimeout)
		}
		cfg.Session.Timeout = timeout
	}

	port := os.Getenv("PORT")
	if port != "" {
		cfg.Server.Port = port
	}

	return nil
}

// parseDuration accepts a Go duration string or a bare integer number of
// milliseconds.
func parseDuration(value string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}

func (c *Configuration) validate() error {
	var errs []error

	if c.Security.SessionSecret == "" {
		errs = append(errs, ErrMissingSessionSecret)
	}
	if c.Database.Url == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.Session.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: session.timeout must be positive", ErrInvalidSetting))
	}
	if c.Session.StoreTTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: session.store-ttl must be positive", ErrInvalidSetting))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Window <= 0 || c.RateLimit.Max <= 0) {
		errs = append(errs, fmt.Errorf("%w: rate-limit window and max must be positive", ErrInvalidSetting))
	}
	if c.Server.TrustedHops < 0 {
		errs = append(errs, fmt.Errorf("%w: server.trusted-hops cannot be negative", ErrInvalidSetting))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("%w: server.mode %q", ErrInvalidSetting, c.Server.Mode))
	}
	if c.Server.BodyLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: server.body-limit must be positive", ErrInvalidSetting))
	}

	return errors.Join(errs...)
}
