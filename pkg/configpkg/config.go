// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"fmt"
	"time"

	"github.com/go-petr/sms-ledger/pkg/currencypkg"
	"github.com/spf13/viper"
)

// Supported token types.
const (
	TokenTypePaseto = "paseto"
	TokenTypeJWT    = "jwt"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	LockTimeout       time.Duration `mapstructure:"LOCK_TIMEOUT"`

	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	TokenType            string        `mapstructure:"TOKEN_TYPE"`
	TokenSymmetricKey    string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration  time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	OperatorUsername     string        `mapstructure:"OPERATOR_USERNAME"`
	OperatorPasswordHash string        `mapstructure:"OPERATOR_PASSWORD_HASH"`

	WalletCurrency       string        `mapstructure:"WALLET_CURRENCY"`
	InvoiceGracePeriod   time.Duration `mapstructure:"INVOICE_GRACE_PERIOD"`
	InvoiceSweepInterval time.Duration `mapstructure:"INVOICE_SWEEP_INTERVAL"`

	Environement string `mapstructure:"GO_ENV"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	v.SetDefault("LOCK_TIMEOUT", 5*time.Second)
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("TOKEN_TYPE", TokenTypePaseto)
	v.SetDefault("ACCESS_TOKEN_DURATION", 15*time.Minute)
	v.SetDefault("WALLET_CURRENCY", currencypkg.USD)
	v.SetDefault("INVOICE_GRACE_PERIOD", time.Duration(0))
	v.SetDefault("INVOICE_SWEEP_INTERVAL", time.Duration(0))
	v.SetDefault("GO_ENV", "production")
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, c.Validate()
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.TokenType != TokenTypePaseto && c.TokenType != TokenTypeJWT {
		return fmt.Errorf("unsupported TOKEN_TYPE %q", c.TokenType)
	}

	if !currencypkg.IsSupportedCurrency(c.WalletCurrency) {
		return fmt.Errorf("unsupported WALLET_CURRENCY %q", c.WalletCurrency)
	}

	if c.InvoiceGracePeriod < 0 || c.InvoiceSweepInterval < 0 {
		return fmt.Errorf("invoice durations must not be negative")
	}

	return nil
}
