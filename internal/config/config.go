package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	ProfileStoreREST     = "rest"
	ProfileStorePostgres = "postgres"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	BasePath           string        `yaml:"base_path" validate:"required,startswith=/"`
	ListenAddr         string        `yaml:"listen_addr" validate:"required"`
	LogLevel           string        `yaml:"log_level"`
	LogJSON            bool          `yaml:"log_json"`
	SecureCookies      bool          `yaml:"secure_cookies"`
	AllowedEmailSuffix string        `yaml:"allowed_email_suffix" validate:"required,startswith=@"`
	NavigationDelay    time.Duration `yaml:"navigation_delay"` // pause between a success toast and the page change
	ToastDuration      time.Duration `yaml:"toast_duration" validate:"required"`
	DraftTTL           time.Duration `yaml:"draft_ttl" validate:"required"`
	BcryptCost         int           `yaml:"bcrypt_cost" validate:"gte=4,lte=31"`
	ProfileStore       string        `yaml:"profile_store" validate:"oneof=rest postgres"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	Backend            Backend       `yaml:"backend"`
	AuthRateLimit      RateLimit     `yaml:"auth_rate_limit"`
}

type Backend struct {
	URL        string        `yaml:"url" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" validate:"required"`
	UsersTable string        `yaml:"users_table" validate:"required"`
}

// RateLimit is a per-IP token bucket applied to auth form submissions.
type RateLimit struct {
	Rate  float64 `yaml:"rate" validate:"gt=0"` // tokens per second
	Burst int     `yaml:"burst" validate:"gte=1"`
}

type Private struct {
	BackendKey string `yaml:"backend_key" validate:"required"`
	JwtSecret  string `yaml:"jwt_secret"` // when empty session tokens are only checked for expiry
	Pg         Pg     `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (p Pg) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Dbname, sslMode)
}

func (s *Config) JwtSecret() string {
	return s.Private.JwtSecret
}

// Path joins segments onto the configured base path.
// Path("app", "home") with base "/dandelion" is "/dandelion/app/home".
func (s *Config) Path(segments ...string) string {
	return path.Join(append([]string{s.Public.BasePath}, segments...)...)
}

func (p *Public) applyDefaults() {
	if p.BasePath == "" {
		p.BasePath = "/dandelion"
	}
	p.BasePath = "/" + strings.Trim(p.BasePath, "/")
	if p.ListenAddr == "" {
		p.ListenAddr = ":3000"
	}
	if p.AllowedEmailSuffix == "" {
		p.AllowedEmailSuffix = "@nbsc.edu.ph"
	}
	if p.NavigationDelay == 0 {
		p.NavigationDelay = 300 * time.Millisecond
	}
	if p.ToastDuration == 0 {
		p.ToastDuration = 1500 * time.Millisecond
	}
	if p.DraftTTL == 0 {
		p.DraftTTL = 15 * time.Minute
	}
	if p.BcryptCost == 0 {
		p.BcryptCost = 10
	}
	if p.ProfileStore == "" {
		p.ProfileStore = ProfileStoreREST
	}
	if p.Backend.Timeout == 0 {
		p.Backend.Timeout = 10 * time.Second
	}
	if p.Backend.UsersTable == "" {
		p.Backend.UsersTable = "users"
	}
	if p.AuthRateLimit.Rate == 0 {
		p.AuthRateLimit.Rate = 1
	}
	if p.AuthRateLimit.Burst == 0 {
		p.AuthRateLimit.Burst = 5
	}
}

// applyEnv lets deployments inject backend endpoint and secrets without editing yaml.
func (c *Config) applyEnv() {
	if v := os.Getenv("DANDELION_BACKEND_URL"); v != "" {
		c.Public.Backend.URL = v
	}
	if v := os.Getenv("DANDELION_BACKEND_KEY"); v != "" {
		c.Private.BackendKey = v
	}
	if v := os.Getenv("DANDELION_JWT_SECRET"); v != "" {
		c.Private.JwtSecret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Public.ListenAddr = ":" + v
	}
}

func (c *Config) validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Public.ProfileStore == ProfileStorePostgres {
		if c.Private.Pg.Host == "" || c.Private.Pg.Dbname == "" {
			return fmt.Errorf("profile_store %q requires pg.host and pg.dbname", ProfileStorePostgres)
		}
	}
	return nil
}

func loadPath(configPath string, output interface{}) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml and private.yaml from configFolder, applies defaults and
// environment overrides, and validates the result.
func Load(configFolder string) (*Config, error) {
	var cfg Config
	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}
	if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private); err != nil {
		return nil, err
	}

	cfg.Public.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
