package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort   string
	LogLevel  string
	LogFormat string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Lifecycle engine knobs.
	ArrearsDefaultDays int             // arrears → default boundary, days
	PenaltyDailyRate   decimal.Decimal // accrues on overdue principal in default
	OfferValidityDays  int
	MinEquityRatio     decimal.Decimal
	MaxDebtToIncome    decimal.Decimal
	TickWorkers        int
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "amanah")
	v.SetDefault("MYSQL_USER", "amanah")
	v.SetDefault("MYSQL_PASS", "amanah")

	v.SetDefault("REDIS_ADDR", "redis:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 300)

	v.SetDefault("ARREARS_DEFAULT_DAYS", 30)
	v.SetDefault("PENALTY_DAILY_RATE", "0.0005")
	v.SetDefault("OFFER_VALIDITY_DAYS", 14)
	v.SetDefault("MIN_EQUITY_RATIO", "0.20")
	v.SetDefault("MAX_DEBT_TO_INCOME", "0.33")
	v.SetDefault("TICK_WORKERS", 8)

	c := &Config{
		AppPort:   v.GetString("APP_PORT"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),

		IdempTTLSecs: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),

		ArrearsDefaultDays: v.GetInt("ARREARS_DEFAULT_DAYS"),
		OfferValidityDays:  v.GetInt("OFFER_VALIDITY_DAYS"),
		TickWorkers:        v.GetInt("TICK_WORKERS"),
	}

	var err error
	if c.PenaltyDailyRate, err = decimal.NewFromString(v.GetString("PENALTY_DAILY_RATE")); err != nil {
		return nil, fmt.Errorf("invalid PENALTY_DAILY_RATE: %w", err)
	}
	if c.MinEquityRatio, err = decimal.NewFromString(v.GetString("MIN_EQUITY_RATIO")); err != nil {
		return nil, fmt.Errorf("invalid MIN_EQUITY_RATIO: %w", err)
	}
	if c.MaxDebtToIncome, err = decimal.NewFromString(v.GetString("MAX_DEBT_TO_INCOME")); err != nil {
		return nil, fmt.Errorf("invalid MAX_DEBT_TO_INCOME: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.ArrearsDefaultDays <= 0 {
		return errors.New("ARREARS_DEFAULT_DAYS must be positive")
	}
	if c.OfferValidityDays <= 0 {
		return errors.New("OFFER_VALIDITY_DAYS must be positive")
	}
	if c.PenaltyDailyRate.IsNegative() {
		return errors.New("PENALTY_DAILY_RATE must not be negative")
	}
	if c.MinEquityRatio.IsNegative() || c.MinEquityRatio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("MIN_EQUITY_RATIO must be in [0, 1)")
	}
	if c.MaxDebtToIncome.LessThanOrEqual(decimal.Zero) {
		return errors.New("MAX_DEBT_TO_INCOME must be positive")
	}
	if c.TickWorkers <= 0 {
		return errors.New("TICK_WORKERS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
