package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	// ErrMissingStoreConfig is returned by NewConfig when the record store endpoint or access key is not set.
	ErrMissingStoreConfig = errors.New("missing record store configuration")
	// ErrMissingSecretKey is returned by NewConfig when SECRET_KEY is not set outside DEV and TEST.
	ErrMissingSecretKey = errors.New("SECRET_KEY is required outside DEV and TEST")
)

// devSecretKey signs tokens in DEV and TEST only.
const devSecretKey = "k2(s9&tutor$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy"

type (
	StoreConfig struct {
		URL string
		Key string
	}

	ServerConfig struct {
		Address                   string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	Config struct {
		Env      string // DEV (local; default), TEST, QA, PROD
		AppName  string
		Build    string
		Debug    bool
		TestMode bool
		WorkDir  string

		SecretKey                 string
		FrontendBaseURL           string
		DefaultFromEmail          mail.Address
		PasswordResetTimeoutDelta time.Duration

		RollbarToken   string
		SendgridAPIKey string

		Store  StoreConfig
		Server ServerConfig
	}
)

// NewConfig reads the configuration from the environment.
// `.env` and `config/.env.<env>` are loaded first when they exist.
// The record store URL and key are mandatory, and so is SECRET_KEY outside DEV and TEST.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	for _, path := range []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "config", ".env."+strings.ToLower(env)),
	} {
		if err := loadDotEnv(path); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("app_name", "Task Tutor")
	v.SetDefault("build", "dev")
	v.SetDefault("frontend_base_url", "http://localhost:5173")
	v.SetDefault("default_from_email", "noreply@localhost")
	v.SetDefault("password_reset_timeout_delta", 3*24*time.Hour)
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("server_address", ":8000")
	v.SetDefault("jwt_expiration_delta", 7*24*time.Hour)
	v.SetDefault("jwt_refresh_expiration_delta", 4*time.Hour)
	v.AutomaticEnv()

	_ = v.BindEnv("store_url", "RECORD_STORE_URL", "SUPABASE_URL")
	_ = v.BindEnv("store_key", "RECORD_STORE_KEY", "SUPABASE_ANON_KEY")

	conf := &Config{
		Env:                       env,
		AppName:                   v.GetString("app_name"),
		Build:                     v.GetString("build"),
		Debug:                     v.GetBool("debug"),
		TestMode:                  env == "TEST",
		WorkDir:                   wd,
		SecretKey:                 v.GetString("secret_key"),
		FrontendBaseURL:           strings.TrimRight(v.GetString("frontend_base_url"), "/"),
		PasswordResetTimeoutDelta: v.GetDuration("password_reset_timeout_delta"),
		RollbarToken:              v.GetString("rollbar_token"),
		SendgridAPIKey:            v.GetString("sendgrid_api_key"),
		Store: StoreConfig{
			URL: strings.TrimSpace(v.GetString("store_url")),
			Key: strings.TrimSpace(v.GetString("store_key")),
		},
		Server: ServerConfig{
			Address:                   v.GetString("server_address"),
			JWTExpirationDelta:        v.GetDuration("jwt_expiration_delta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwt_refresh_expiration_delta"),
		},
	}

	from, err := mail.ParseAddress(v.GetString("default_from_email"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing DEFAULT_FROM_EMAIL")
	}
	if from.Name == "" {
		from.Name = conf.AppName
	}
	conf.DefaultFromEmail = *from

	if conf.SecretKey == "" {
		if env != "DEV" && env != "TEST" {
			return nil, ErrMissingSecretKey
		}
		conf.SecretKey = devSecretKey
	}

	var missing []string
	if conf.Store.URL == "" {
		missing = append(missing, "RECORD_STORE_URL")
	}
	if conf.Store.Key == "" {
		missing = append(missing, "RECORD_STORE_KEY")
	}
	if len(missing) > 0 {
		return nil, errors.Wrap(ErrMissingStoreConfig, strings.Join(missing, ", "))
	}
	return conf, nil
}

// loadDotEnv loads the env file at path if it exists (ignored if it does not).
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "loading %s", path)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "checking %s", path)
	}
	return nil
}
