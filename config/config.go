package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AppName        = "reddit-purge"
	DefaultPath    = "secrets.json"
	DefaultEnvFile = ".env"
	EnvPrefix      = "reddit"
)

var Version = "0.1.0"

var (
	ErrConfigNotFound  = errors.New("config not found")
	ErrConfigMalformed = errors.New("config malformed")
)

// Config holds the reddit script-app credentials.
type Config struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	UserAgent    string `mapstructure:"user_agent"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
}

var errNotObject = errors.New("top-level value is not an object")

var keys = []string{"client_id", "client_secret", "user_agent", "username", "password"}

type Opts struct {
	Path    string
	EnvFile string
}

// Error reports why the config file could not be used. It matches
// ErrConfigNotFound or ErrConfigMalformed with errors.Is.
type Error struct {
	Path  string
	Kind  error
	Cause error
}

func (e *Error) Error() string {
	if e.Kind == ErrConfigNotFound {
		return fmt.Sprintf("%s not found in the current directory.", e.Path)
	}
	return fmt.Sprintf("%s is not valid JSON: %s", e.Path, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func (o *Opts) sanitize() {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.EnvFile == "" {
		o.EnvFile = DefaultEnvFile
	}
}

// Load reads the credentials file. Values from REDDIT_* environment
// variables, including ones set through the env file, win over the file.
func Load(opts Opts) (*Config, error) {
	opts.sanitize()
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(opts.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Path: opts.Path, Kind: ErrConfigNotFound, Cause: err}
		}
		return nil, errors.Wrapf(err, "read %s", opts.Path)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", k)
		}
	}
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, &Error{Path: opts.Path, Kind: ErrConfigMalformed, Cause: err}
	}
	// viper accepts a bare null as an empty map
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, &Error{Path: opts.Path, Kind: ErrConfigMalformed, Cause: errNotObject}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Path: opts.Path, Kind: ErrConfigMalformed, Cause: err}
	}
	cfg.sanitize()
	return &cfg, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

func (c *Config) sanitize() {
	if c.UserAgent == "" {
		c.UserAgent = fmt.Sprintf("golang:%s:v%s (by /u/%s)", AppName, Version, c.Username)
	}
}
