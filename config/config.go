package config

import (
	"flag"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultAdminPassword matches the historical deployment default. Binaries
// warn loudly when it is still in effect.
const DefaultAdminPassword = "admin123"

type DB struct {
	Driver     string        `envconfig:"DB_DRIVER" default:"mysql"`
	Host       string        `envconfig:"DB_HOST"`
	Port       int           `envconfig:"DB_PORT" default:"3306"`
	User       string        `envconfig:"DB_USER"`
	Password   string        `envconfig:"DB_PASSWORD"`
	Name       string        `envconfig:"DB_NAME"`
	SQLitePath string        `envconfig:"DB_SQLITE_PATH" default:"portal.sqlite"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

type Config struct {
	Addr          string `ignored:"true"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	DataFile      string `envconfig:"DATA_FILE" default:"registrations.json"`
	DB            DB
	Debug         bool `ignored:"true"`
}

// ConfigurationError reports required settings that are absent from the
// environment. It is fatal at startup: no connection is attempted with
// empty values.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "incomplete configuration: missing " + strings.Join(e.Missing, ", ")
}

func FromEnv() (cfg Config, err error) {
	err = envconfig.Process("", &cfg)
	return
}

// ParseFlags loads the environment configuration and overlays the server's
// command-line options.
func ParseFlags() (cfg Config, err error) {
	cfg, err = FromEnv()
	if err != nil {
		return
	}

	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 8080, "listen port number (default 8080)")
	flag.StringVar(&cfg.DB.Driver, "db-driver", cfg.DB.Driver, "database driver: mysql or sqlite3")
	flag.StringVar(&cfg.DB.SQLitePath, "sqlite-path", cfg.DB.SQLitePath, "path to SQLite3 DB file (sqlite3 driver only)")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))

	err = cfg.CheckDB()
	return
}

// CheckDB verifies that the active driver has everything it needs to dial.
func (cfg Config) CheckDB() error {
	switch cfg.DB.Driver {
	case "sqlite3":
		if cfg.DB.SQLitePath == "" {
			return &ConfigurationError{Missing: []string{"DB_SQLITE_PATH"}}
		}
		return nil
	case "mysql":
		var missing []string
		if cfg.DB.Host == "" {
			missing = append(missing, "DB_HOST")
		}
		if cfg.DB.User == "" {
			missing = append(missing, "DB_USER")
		}
		if cfg.DB.Password == "" {
			missing = append(missing, "DB_PASSWORD")
		}
		if cfg.DB.Name == "" {
			missing = append(missing, "DB_NAME")
		}
		if len(missing) > 0 {
			return &ConfigurationError{Missing: missing}
		}
		return nil
	default:
		return &ConfigurationError{Missing: []string{"DB_DRIVER (mysql or sqlite3)"}}
	}
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
