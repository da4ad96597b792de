// Package conf holds the configuration tree scanned from configs/*.yaml and OUBLOG_* env vars.
package conf

import "time"

// Bootstrap is the root of the configuration.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Site   *Site   `json:"site"`
}

// Server configures the transports.
type Server struct {
	HTTP *Transport `json:"http"`
	GRPC *Transport `json:"grpc"`
}

// Transport is a listener address with a request timeout.
type Transport struct {
	Network string `json:"network"`
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// TimeoutDuration parses Timeout, returning zero when unset or invalid.
func (t *Transport) TimeoutDuration() time.Duration {
	if t == nil || t.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(t.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Data configures storage and cache.
type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
	Outbox   *Outbox   `json:"outbox"`
}

// Database selects the SQL driver ("sqlite3" or "postgres") and DSN.
type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Redis configures the activity cache. An empty Addr disables it.
type Redis struct {
	Addr         string `json:"addr"`
	Password     string `json:"password"`
	DB           int    `json:"db"`
	ReadTimeout  string `json:"read_timeout"`
	WriteTimeout string `json:"write_timeout"`
	ActivitySize int    `json:"activity_size"`
	ActivityTTL  string `json:"activity_ttl"`
}

// Outbox configures the forwarder polling loop.
type Outbox struct {
	PollInterval string `json:"poll_interval"`
	BatchSize    int    `json:"batch_size"`
}

// Site configures how records are rendered.
type Site struct {
	WWWRoot string `json:"wwwroot"`
	Lang    string `json:"lang"`
	LangDir string `json:"lang_dir"`
}

// ParseDuration parses s, falling back to def when s is empty or invalid.
func ParseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
