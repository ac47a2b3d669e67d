package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Drivers de ledger soportados.
const (
	LedgerPostgres = "postgres"
	LedgerMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	Ledger LedgerConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Redis  RedisConfig
	Sweep  SweepConfig
	Docs   DocsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // zona usada para normalizar rangos de fechas de estadísticas
}

// Location devuelve la zona horaria configurada; time.Local si está vacía o es inválida.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool // aplicar migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido a partir de los campos.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.dsn()
}

// dsn arma el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) dsn() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// LedgerConfig selecciona la implementación del ledger (postgres | memory).
type LedgerConfig struct {
	Driver string
}

// JWTConfig configuración de JWT. Los tokens los emite la capa de login externa.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	FrontendURL string // origen permitido por CORS; "*" si vacío
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión a Redis (caché de vendedores y cola asynq). Addr vacío = deshabilitado.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	SellerCacheTTL time.Duration
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// SweepConfig barrido de integridad referencial de ventas.
type SweepConfig struct {
	Concurrency  int  // ventas reparadas en paralelo
	QueueEnabled bool // encolar barridos en asynq en lugar de ejecutarlos en la petición
}

// DocsConfig ruta del swagger.json servido en /docs (vacío = deshabilitado).
type DocsConfig struct {
	SwaggerPath string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	// .env al entorno del proceso; no existe en producción
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gimnasio-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "APP_TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gimnasio"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Ledger: LedgerConfig{
			Driver: strings.ToLower(getString(v, "LEDGER_DRIVER", LedgerPostgres)),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "gimnasio-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "PORT", getInt(v, "HTTP_PORT", 3000)),
			FrontendURL: getString(v, "FRONTEND_URL", "*"),
		},
		Redis: RedisConfig{
			Addr:           getString(v, "REDIS_ADDR", ""),
			Password:       getString(v, "REDIS_PASSWORD", ""),
			DB:             getInt(v, "REDIS_DB", 0),
			SellerCacheTTL: getDuration(v, "SELLER_CACHE_TTL", 10*time.Minute),
		},
		Sweep: SweepConfig{
			Concurrency:  getInt(v, "SWEEP_CONCURRENCY", 4),
			QueueEnabled: getBool(v, "SWEEP_QUEUE_ENABLED", false),
		},
		Docs: DocsConfig{
			SwaggerPath: getString(v, "SWAGGER_PATH", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.Driver {
	case LedgerPostgres, LedgerMemory:
	default:
		return fmt.Errorf("LEDGER_DRIVER inválido: %q (postgres|memory)", c.Ledger.Driver)
	}
	if c.Sweep.Concurrency <= 0 {
		c.Sweep.Concurrency = 1
	}
	if c.Sweep.QueueEnabled && !c.Redis.Enabled() {
		return fmt.Errorf("SWEEP_QUEUE_ENABLED requiere REDIS_ADDR")
	}
	// El worker corre en otro proceso y no ve el ledger en memoria de la API.
	if c.Sweep.QueueEnabled && c.Ledger.Driver == LedgerMemory {
		return fmt.Errorf("SWEEP_QUEUE_ENABLED no es compatible con LEDGER_DRIVER=memory")
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

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return d
}
