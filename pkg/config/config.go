package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Square        SquareConfig
	Mailgun       MailgunConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string `envconfig:"BUYNOW_APP_ENV" required:"true"`
	Port           string `envconfig:"BUYNOW_APP_PORT" required:"true"`
	LogLevel       string `envconfig:"BUYNOW_LOG_LEVEL" default:"info"`
	LogWarnStack   bool   `envconfig:"BUYNOW_LOG_WARN_STACK" default:"false"`
	FrontendOrigin string `envconfig:"BUYNOW_FRONTEND_ORIGIN" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BUYNOW_DB_DSN"`
	Driver string `envconfig:"BUYNOW_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BUYNOW_DB_HOST"`
	Port     int    `envconfig:"BUYNOW_DB_PORT" default:"5432"`
	User     string `envconfig:"BUYNOW_DB_USER"`
	Password string `envconfig:"BUYNOW_DB_PASSWORD"`
	Name     string `envconfig:"BUYNOW_DB_NAME"`
	SSLMode  string `envconfig:"BUYNOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUYNOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUYNOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUYNOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUYNOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUYNOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BUYNOW_REDIS_ADDR"`
	Password     string        `envconfig:"BUYNOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUYNOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUYNOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUYNOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUYNOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUYNOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUYNOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BUYNOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BUYNOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BUYNOW_JWT_EXPIRATION_MINUTES" required:"true"`
	CookieExpiryDays  int    `envconfig:"BUYNOW_COOKIE_EXPIRES_DAYS" default:"7"`
}

// CookieExpiry returns the session cookie lifetime.
func (j JWTConfig) CookieExpiry() time.Duration {
	if j.CookieExpiryDays <= 0 {
		return 0
	}
	return time.Duration(j.CookieExpiryDays) * 24 * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BUYNOW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BUYNOW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BUYNOW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BUYNOW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BUYNOW_ARGON_KEY_LEN" default:"32"`

	ResetTokenTTLMinutes int `envconfig:"BUYNOW_RESET_TOKEN_TTL_MINUTES" default:"10"`
}

// ResetTokenTTL returns how long a password-reset token stays valid.
func (p PasswordConfig) ResetTokenTTL() time.Duration {
	if p.ResetTokenTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(p.ResetTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BUYNOW_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BUYNOW_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BUYNOW_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BUYNOW_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BUYNOW_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BUYNOW_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BUYNOW_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BUYNOW_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"BUYNOW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName   string `envconfig:"BUYNOW_GCS_BUCKET_NAME" required:"true"`
	AvatarFolder string `envconfig:"BUYNOW_GCS_AVATAR_FOLDER" default:"avatars"`
	ProductFolder string `envconfig:"BUYNOW_GCS_PRODUCT_FOLDER" default:"products"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"BUYNOW_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"BUYNOW_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"BUYNOW_SQUARE_LOCATION_ID"`
	RedirectURL string `envconfig:"BUYNOW_SQUARE_REDIRECT_URL"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type MailgunConfig struct {
	Domain string `envconfig:"BUYNOW_MAILGUN_DOMAIN"`
	APIKey string `envconfig:"BUYNOW_MAILGUN_API_KEY"`
	Sender string `envconfig:"BUYNOW_MAILGUN_SENDER" default:"no-reply@buynow.shop"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
