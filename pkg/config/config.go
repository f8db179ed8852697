package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	Business BusinessConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL      string
	Host             string
	Port             int
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxConns         int
	MinConns         int
	StatementTimeout time.Duration
	ForceIPv4        bool
	AutoMigrate      bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig caché opcional del tablero. Addr vacío deshabilita la caché.
type RedisConfig struct {
	Addr              string
	Password          string
	DB                int
	DashboardCacheTTL time.Duration
}

// Enabled indica si hay un Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// BusinessConfig datos del negocio usados en facturas, formatos y numeración.
type BusinessConfig struct {
	Name               string
	Address            string
	Phone              string
	CurrencyCode       string // ISO 4217, ej. PKR
	PhoneRegion        string // ISO 3166-1 alfa-2, ej. PK
	BillPrefix         string
	AllowNegativeStock bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REDIS_ADDR, BUSINESS_NAME, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := fromViper(v)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "ventas-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:      getString(v, "DATABASE_URL", ""),
			Host:             getString(v, "DB_HOST", "localhost"),
			Port:             getInt(v, "DB_PORT", 5432),
			User:             getString(v, "DB_USER", "postgres"),
			Password:         getString(v, "DB_PASSWORD", ""),
			DBName:           getString(v, "DB_NAME", "ventas"),
			SSLMode:          getString(v, "DB_SSLMODE", "disable"),
			MaxConns:         getInt(v, "DB_MAX_CONNS", 25),
			MinConns:         getInt(v, "DB_MIN_CONNS", 2),
			StatementTimeout: time.Duration(getInt(v, "DB_STATEMENT_TIMEOUT_MS", 15000)) * time.Millisecond,
			ForceIPv4:        getBool(v, "DB_FORCE_IPV4", false),
			AutoMigrate:      getBool(v, "DB_AUTO_MIGRATE", true),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:              getString(v, "REDIS_ADDR", ""),
			Password:          getString(v, "REDIS_PASSWORD", ""),
			DB:                getInt(v, "REDIS_DB", 0),
			DashboardCacheTTL: time.Duration(getInt(v, "DASHBOARD_CACHE_SECONDS", 30)) * time.Second,
		},
		Business: BusinessConfig{
			Name:               getString(v, "BUSINESS_NAME", "Mi Negocio"),
			Address:            getString(v, "BUSINESS_ADDRESS", ""),
			Phone:              getString(v, "BUSINESS_PHONE", ""),
			CurrencyCode:       strings.ToUpper(getString(v, "CURRENCY_CODE", "PKR")),
			PhoneRegion:        strings.ToUpper(getString(v, "PHONE_REGION", "PK")),
			BillPrefix:         getString(v, "BILL_PREFIX", "WT"),
			AllowNegativeStock: getBool(v, "ALLOW_NEGATIVE_STOCK", true),
		},
	}
}

func (c *Config) validate() error {
	if c.DB.MinConns < 0 || c.DB.MaxConns <= 0 || c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS/DB_MAX_CONNS inválidos (%d/%d)", c.DB.MinConns, c.DB.MaxConns)
	}
	if len(c.Business.CurrencyCode) != 3 {
		return fmt.Errorf("config: CURRENCY_CODE debe ser ISO 4217 (3 letras), recibido %q", c.Business.CurrencyCode)
	}
	if c.Business.BillPrefix == "" {
		return fmt.Errorf("config: BILL_PREFIX vacío")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return n
	}
	return v.GetInt(key)
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return b
	}
	return v.GetBool(key)
}
