package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	httpListenAddrKey    = "STATUSPOND_HTTP_LISTEN_ADDR"
	metricsListenAddrKey = "STATUSPOND_METRICS_LISTEN_ADDR"
	serverUrlKey         = "STATUSPOND_SERVER_URL"
	databaseTypeKey      = "STATUSPOND_DB_TYPE"
	databaseUrlKey       = "STATUSPOND_DB_URL"
	tlsDisableKey        = "STATUSPOND_TLS_DISABLE"
	tlsCertFileKey       = "STATUSPOND_TLS_CERT_FILE"
	tlsKeyFileKey        = "STATUSPOND_TLS_KEY_FILE"
	loggingLevelKey      = "STATUSPOND_LOGGING_LEVEL"
	loggingFormatKey     = "STATUSPOND_LOGGING_FORMAT"
	loggingFileKey       = "STATUSPOND_LOGGING_FILE"

	keepieReadonlyAuthorizedFileKey = "STATUSPOND_KEEPIE_READONLY_AUTHORIZED_FILE"
	keepieWriteAuthorizedFileKey    = "STATUSPOND_KEEPIE_WRITE_AUTHORIZED_FILE"
	keepieReadonlyIntervalKey       = "STATUSPOND_KEEPIE_READONLY_INTERVAL"
	keepieWriteIntervalKey          = "STATUSPOND_KEEPIE_WRITE_INTERVAL"
	keepiePushTimeoutKey            = "STATUSPOND_KEEPIE_PUSH_TIMEOUT"

	streamKeepAliveIntervalKey = "STATUSPOND_STREAM_KEEP_ALIVE_INTERVAL"
)

// LoadConfig builds the configuration from the environment, optionally
// overridden by a yaml file. A .env file in the working directory is
// picked up before any environment lookup happens.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := defaultConfig()

	if len(path) != 0 {
		expandedPath, err := homedir.Expand(path)
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(expandedPath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(b, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		HttpListenAddr:    GetString(httpListenAddrKey, ":8080"),
		MetricsListenAddr: GetString(metricsListenAddrKey, ":8081"),
		ServerUrl:         GetString(serverUrlKey, "http://localhost:8080"),
		Database: Database{
			Type: GetString(databaseTypeKey, "sqlite"),
			Url:  GetString(databaseUrlKey, "statuspond.db"),
		},
		Tls: Tls{
			Disable:  GetBool(tlsDisableKey, true),
			CertFile: GetString(tlsCertFileKey, ""),
			KeyFile:  GetString(tlsKeyFileKey, ""),
		},
		Keepie: Keepie{
			ReadonlyAuthorizedFile: GetString(keepieReadonlyAuthorizedFileKey, "readonly-urls.json"),
			WriteAuthorizedFile:    GetString(keepieWriteAuthorizedFileKey, "write-urls.json"),
			ReadonlyInterval:       GetDuration(keepieReadonlyIntervalKey, 20*time.Second),
			WriteInterval:          GetDuration(keepieWriteIntervalKey, 20*time.Second),
			PushTimeout:            GetDuration(keepiePushTimeoutKey, 10*time.Second),
		},
		Stream: Stream{
			KeepAliveInterval: GetDuration(streamKeepAliveIntervalKey, 10*time.Second),
		},
		Logging: Logging{
			Level:  GetString(loggingLevelKey, "info"),
			Format: GetString(loggingFormatKey, ""),
			File:   GetString(loggingFileKey, ""),
		},
	}
}

type Config struct {
	HttpListenAddr    string   `yaml:"http_listen_addr,omitempty"`
	MetricsListenAddr string   `yaml:"metrics_listen_addr,omitempty"`
	ServerUrl         string   `yaml:"server_url,omitempty"`
	Tls               Tls      `yaml:"tls,omitempty"`
	Logging           Logging  `yaml:"logging,omitempty"`
	Database          Database `yaml:"database,omitempty"`
	Keepie            Keepie   `yaml:"keepie,omitempty"`
	Stream            Stream   `yaml:"stream,omitempty"`
}

type Tls struct {
	Disable  bool   `yaml:"disable"`
	CertFile string `yaml:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty"`
}

type Logging struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

type Database struct {
	Type string `yaml:"type,omitempty"`
	Url  string `yaml:"url,omitempty"`
}

type Keepie struct {
	ReadonlyAuthorizedFile string        `yaml:"readonly_authorized_file,omitempty"`
	WriteAuthorizedFile    string        `yaml:"write_authorized_file,omitempty"`
	ReadonlyInterval       time.Duration `yaml:"readonly_interval,omitempty"`
	WriteInterval          time.Duration `yaml:"write_interval,omitempty"`
	PushTimeout            time.Duration `yaml:"push_timeout,omitempty"`
}

type Stream struct {
	KeepAliveInterval time.Duration `yaml:"keep_alive_interval,omitempty"`
}

func (c *Config) CreateUrl(format string, a ...interface{}) string {
	path := fmt.Sprintf(format, a...)
	return strings.TrimSuffix(c.ServerUrl, "/") + "/" + strings.TrimPrefix(path, "/")
}
