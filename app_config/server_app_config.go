package app_config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	StorageS3    = "s3"
	StorageLocal = "local"

	AssetProcessingSync  = "sync"
	AssetProcessingAsync = "async"
)

// This is the config of the API server. Every key can be overwritten by an
// environment variable of the same name.
type ServerAppConfig struct {
	SERVICE_NAME string `yaml:"SERVICE_NAME" toml:"SERVICE_NAME"`
	HTTP_ADDR    string `yaml:"HTTP_ADDR" toml:"HTTP_ADDR"`
	// Allowed CORS origins, allow all when empty.
	CORS_ALLOWED_ORIGINS []string `yaml:"CORS_ALLOWED_ORIGINS" toml:"CORS_ALLOWED_ORIGINS"`

	// "postgres" reads DB_HOST, DB_PORT, DB_USER, DB_PASS and DB_NAME from env.
	DATABASE_DRIVER string `yaml:"DATABASE_DRIVER" toml:"DATABASE_DRIVER"`
	SQLITE_PATH     string `yaml:"SQLITE_PATH" toml:"SQLITE_PATH"`
	AUTO_MIGRATE    bool   `yaml:"AUTO_MIGRATE" toml:"AUTO_MIGRATE"`

	JWT_SECRET      string `yaml:"JWT_SECRET" toml:"JWT_SECRET"`
	TOKEN_TTL_HOURS int    `yaml:"TOKEN_TTL_HOURS" toml:"TOKEN_TTL_HOURS"`

	// "s3" or "local".
	STORAGE_BACKEND        string `yaml:"STORAGE_BACKEND" toml:"STORAGE_BACKEND"`
	S3_BUCKET              string `yaml:"S3_BUCKET" toml:"S3_BUCKET"`
	S3_REGION              string `yaml:"S3_REGION" toml:"S3_REGION"`
	S3_BUCKET_BASE_URL     string `yaml:"S3_BUCKET_BASE_URL" toml:"S3_BUCKET_BASE_URL"`
	LOCAL_STORAGE_DIR      string `yaml:"LOCAL_STORAGE_DIR" toml:"LOCAL_STORAGE_DIR"`
	LOCAL_STORAGE_BASE_URL string `yaml:"LOCAL_STORAGE_BASE_URL" toml:"LOCAL_STORAGE_BASE_URL"`

	// "sync" uploads inside the request, "async" hands uploads to the job
	// pipeline and answers with the job.
	ASSET_PROCESSING              string `yaml:"ASSET_PROCESSING" toml:"ASSET_PROCESSING"`
	SPOOL_DIR                     string `yaml:"SPOOL_DIR" toml:"SPOOL_DIR"`
	JOB_MAX_ATTEMPTS              int    `yaml:"JOB_MAX_ATTEMPTS" toml:"JOB_MAX_ATTEMPTS"`
	JOB_ATTEMPT_TIMEOUT_SECOND    int64  `yaml:"JOB_ATTEMPT_TIMEOUT_SECOND" toml:"JOB_ATTEMPT_TIMEOUT_SECOND"`
	JOB_RETRY_BACKOFF_MILLISECOND int64  `yaml:"JOB_RETRY_BACKOFF_MILLISECOND" toml:"JOB_RETRY_BACKOFF_MILLISECOND"`

	DATADOG_ENABLED bool   `yaml:"DATADOG_ENABLED" toml:"DATADOG_ENABLED"`
	STATSD_ADDR     string `yaml:"STATSD_ADDR" toml:"STATSD_ADDR"`
}

func DefaultServerAppConfig() ServerAppConfig {
	return ServerAppConfig{
		SERVICE_NAME:                  "tunemux_api",
		HTTP_ADDR:                     ":8080",
		DATABASE_DRIVER:               "postgres",
		SQLITE_PATH:                   "tunemux.db",
		AUTO_MIGRATE:                  true,
		TOKEN_TTL_HOURS:               24,
		STORAGE_BACKEND:               StorageLocal,
		LOCAL_STORAGE_DIR:             "assets",
		LOCAL_STORAGE_BASE_URL:        "http://localhost:8080/assets",
		ASSET_PROCESSING:              AssetProcessingSync,
		SPOOL_DIR:                     filepath.Join(os.TempDir(), "tunemux-spool"),
		JOB_MAX_ATTEMPTS:              3,
		JOB_ATTEMPT_TIMEOUT_SECOND:    120,
		JOB_RETRY_BACKOFF_MILLISECOND: 1000,
		STATSD_ADDR:                   "127.0.0.1:8125",
	}
}

// LoadServerAppConfig starts from defaults, applies the config file at path
// (if any) and finally the environment.
func LoadServerAppConfig(path string) (ServerAppConfig, error) {
	c := DefaultServerAppConfig()
	if path != "" {
		if err := parseFile(path, &c); err != nil {
			return c, err
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func parseFile(path string, c *ServerAppConfig) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "cannot read config file %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		_, err = toml.Decode(string(data), c)
	default:
		return fmt.Errorf("unsupported config file type: %s", path)
	}
	return errors.Wrapf(err, "cannot parse config file %s", path)
}

type lookupFunc func(key string) (string, bool)

func (c *ServerAppConfig) applyEnv(lookup lookupFunc) error {
	strs := map[string]*string{
		"SERVICE_NAME":           &c.SERVICE_NAME,
		"HTTP_ADDR":              &c.HTTP_ADDR,
		"DATABASE_DRIVER":        &c.DATABASE_DRIVER,
		"SQLITE_PATH":            &c.SQLITE_PATH,
		"JWT_SECRET":             &c.JWT_SECRET,
		"STORAGE_BACKEND":        &c.STORAGE_BACKEND,
		"S3_BUCKET":              &c.S3_BUCKET,
		"S3_REGION":              &c.S3_REGION,
		"S3_BUCKET_BASE_URL":     &c.S3_BUCKET_BASE_URL,
		"LOCAL_STORAGE_DIR":      &c.LOCAL_STORAGE_DIR,
		"LOCAL_STORAGE_BASE_URL": &c.LOCAL_STORAGE_BASE_URL,
		"ASSET_PROCESSING":       &c.ASSET_PROCESSING,
		"SPOOL_DIR":              &c.SPOOL_DIR,
		"STATSD_ADDR":            &c.STATSD_ADDR,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int64{
		"JOB_ATTEMPT_TIMEOUT_SECOND":    &c.JOB_ATTEMPT_TIMEOUT_SECOND,
		"JOB_RETRY_BACKOFF_MILLISECOND": &c.JOB_RETRY_BACKOFF_MILLISECOND,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", key)
			}
			*dst = n
		}
	}
	for key, dst := range map[string]*int{
		"TOKEN_TTL_HOURS":  &c.TOKEN_TTL_HOURS,
		"JOB_MAX_ATTEMPTS": &c.JOB_MAX_ATTEMPTS,
	} {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", key)
			}
			*dst = n
		}
	}

	for key, dst := range map[string]*bool{
		"AUTO_MIGRATE":    &c.AUTO_MIGRATE,
		"DATADOG_ENABLED": &c.DATADOG_ENABLED,
	} {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", key)
			}
			*dst = b
		}
	}

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		c.CORS_ALLOWED_ORIGINS = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORS_ALLOWED_ORIGINS = append(c.CORS_ALLOWED_ORIGINS, origin)
			}
		}
	}
	return nil
}

func (c ServerAppConfig) Validate() error {
	switch c.DATABASE_DRIVER {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER: %q", c.DATABASE_DRIVER)
	}
	switch c.STORAGE_BACKEND {
	case StorageS3:
		if c.S3_BUCKET == "" || c.S3_BUCKET_BASE_URL == "" {
			return errors.New("S3_BUCKET and S3_BUCKET_BASE_URL are required for s3 storage")
		}
	case StorageLocal:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND: %q", c.STORAGE_BACKEND)
	}
	switch c.ASSET_PROCESSING {
	case AssetProcessingSync, AssetProcessingAsync:
	default:
		return fmt.Errorf("unsupported ASSET_PROCESSING: %q", c.ASSET_PROCESSING)
	}
	if c.TOKEN_TTL_HOURS <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	if c.JOB_MAX_ATTEMPTS <= 0 {
		return errors.New("JOB_MAX_ATTEMPTS must be positive")
	}
	return nil
}

func (c ServerAppConfig) TokenTTL() time.Duration {
	return time.Duration(c.TOKEN_TTL_HOURS) * time.Hour
}

func (c ServerAppConfig) JobAttemptTimeout() time.Duration {
	return time.Duration(c.JOB_ATTEMPT_TIMEOUT_SECOND) * time.Second
}

func (c ServerAppConfig) JobRetryBackoff() time.Duration {
	return time.Duration(c.JOB_RETRY_BACKOFF_MILLISECOND) * time.Millisecond
}
