package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"coffeerange/internal/pricerange"
)

const DefaultLanguageCode = "en"

const (
	LedgerPostgres = "postgres"
	LedgerRedis    = "redis"
)

type Config struct {
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	HTTP     HTTP     `yaml:"http"`
	Telegram Telegram `yaml:"telegram"`
	ECX      ECX      `yaml:"ecx"`
	Engine   Engine   `yaml:"engine"`
	Storage  Storage  `yaml:"storage"`
	Logger   Logger   `yaml:"logger"`
	Timezone Timezone `yaml:"timezone"`
}

type Database struct {
	Host     string `env:"DB_HOST" env-default:"localhost" yaml:"host"`
	Port     int    `env:"DB_PORT" env-default:"5432" yaml:"port"`
	User     string `env:"DB_USER" env-default:"postgres" yaml:"user"`
	Password string `env:"DB_PASSWORD" env-default:"postgres" yaml:"password"`
	Name     string `env:"DB_NAME" env-default:"postgres" yaml:"name"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable" yaml:"ssl-mode"`
}

func (d *Database) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (d *Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode) //nolint:nosprintfhostport // it's ok
}

type Redis struct {
	Addr      string `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
	Password  string `env:"REDIS_PASSWORD" env-default:"" yaml:"password"`
	DB        int    `env:"REDIS_DB" env-default:"0" yaml:"db"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" env-default:"closing" yaml:"key_prefix"`
}

// Kafka is disabled when no brokers are set.
type Kafka struct {
	Brokers         []string `env:"KAFKA_BROKERS" env-separator:"," yaml:"brokers"`
	PricesTopic     string   `env:"KAFKA_PRICES_TOPIC" env-default:"coffee.closing-prices" yaml:"prices_topic"`
	RangesTopic     string   `env:"KAFKA_RANGES_TOPIC" env-default:"coffee.ranges" yaml:"ranges_topic"`
	SubmissionTopic string   `env:"KAFKA_SUBMISSION_TOPIC" env-default:"coffee.closing-prices.submitted" yaml:"submission_topic"`
	GroupID         string   `env:"KAFKA_GROUP_ID" env-default:"coffeerange" yaml:"group_id"`
}

func (e *ECX) Enabled() bool {
	return e.URL != ""
}

func (k *Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

type HTTP struct {
	Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
}

// Telegram is disabled when the token is empty.
type Telegram struct {
	Token string `env:"TELEGRAM_TOKEN" env-default:"" yaml:"token"`
}

// ECX is the exchange board import. It is disabled when the URL is empty.
type ECX struct {
	URL        string        `env:"ECX_URL" env-default:"" yaml:"url"`
	Timeout    time.Duration `env:"ECX_TIMEOUT" env-default:"1m" yaml:"timeout"`
	OperatorID string        `env:"ECX_OPERATOR_ID" env-default:"00000000-0000-0000-0000-000000000000" yaml:"operator_id"`
	ImportCron string        `env:"ECX_IMPORT_CRON" env-default:"30 17 * * 1-5" yaml:"import_cron"`

	ParsedOperatorID uuid.UUID `yaml:"-"`
}

type Engine struct {
	// Grades is the grade list used by the batch query and the strict check. Empty means the known grades.
	Grades []string `env:"ENGINE_GRADES" env-separator:"," yaml:"grades"`
	// FreeformGrades accepts grades outside Grades instead of failing with ErrUnknownGrade.
	FreeformGrades  bool          `env:"ENGINE_FREEFORM_GRADES" yaml:"freeform_grades"`
	DayCount        string        `env:"ENGINE_DAY_COUNT" env-default:"calendar" yaml:"day_count"`
	ParallelLookups int           `env:"ENGINE_PARALLEL_LOOKUPS" env-default:"4" yaml:"parallel_lookups"`
	LookupTimeout   time.Duration `env:"ENGINE_LOOKUP_TIMEOUT" env-default:"5s" yaml:"lookup_timeout"`
	SnapshotCron    string        `env:"ENGINE_SNAPSHOT_CRON" env-default:"0 18 * * *" yaml:"snapshot_cron"`

	ParsedDayCount pricerange.DayCount `yaml:"-"`
}

type Storage struct {
	Ledger string `env:"STORAGE_LEDGER" env-default:"postgres" yaml:"ledger"`
}

type Logger struct {
	Level           string     `env:"LOG_LEVEL" env-default:"info" yaml:"level"`
	ParsedSlogLevel slog.Level `yaml:"-"`
	GORMLevel       string     `env:"LOG_GORM_LEVEL" env-default:"info" yaml:"gorm_level"`
	ParsedGORMLevel slog.Level `yaml:"-"`
}

type Timezone struct {
	Name string `env:"TZ_NAME" env-default:"Africa/Addis_Ababa" yaml:"name"`
	// Offset in hours is used when the zone database has no entry for Name.
	Offset int `env:"TZ_OFFSET" env-default:"3" yaml:"offset"`
}

// Location returns the location "today" is computed in.
func (t *Timezone) Location() *time.Location {
	if loc, err := time.LoadLocation(t.Name); err == nil {
		return loc
	}
	return time.FixedZone(t.Name, t.Offset*3600)
}

// MustLoad loads config from a file. Variables from a .env file, when present, are set first.
func MustLoad(configPath string) *Config {
	_ = godotenv.Load()

	cnf := &Config{}

	if err := cleanenv.ReadConfig(configPath, cnf); err != nil {
		panic(fmt.Errorf("cannot read config: %w", err))
	}

	if err := cnf.parse(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return cnf
}

func (cnf *Config) parse() error {
	cnf.Logger.ParsedGORMLevel = parseLevel(cnf.Logger.GORMLevel)
	cnf.Logger.ParsedSlogLevel = parseLevel(cnf.Logger.Level)

	dayCount, err := pricerange.ParseDayCount(cnf.Engine.DayCount)
	if err != nil {
		return fmt.Errorf("engine.day_count: %w", err)
	}
	cnf.Engine.ParsedDayCount = dayCount

	switch cnf.Storage.Ledger {
	case LedgerPostgres, LedgerRedis:
	default:
		return fmt.Errorf("storage.ledger: unknown backend %q", cnf.Storage.Ledger)
	}

	operator, err := uuid.Parse(cnf.ECX.OperatorID)
	if err != nil {
		return fmt.Errorf("ecx.operator_id: %w", err)
	}
	cnf.ECX.ParsedOperatorID = operator

	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "silent", "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
