package logger

import "time"

// Console configures logging to stdout and stderr.
type Console struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// UseConsoleWriter prints human readable lines instead of JSON.
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" toml:"useConsoleWriter" json:"useConsoleWriter"`
}

// Rotation configures one rolling log file.
type Rotation struct {
	// File is the file name inside LogFile.Path.
	File       string `mapstructure:"file" toml:"file" json:"file"`
	MaxSize    int    `mapstructure:"maxSize" toml:"maxSize" json:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups" toml:"maxBackups" json:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge" toml:"maxAge" json:"maxAge"` // days
	Compress   bool   `mapstructure:"compress" toml:"compress" json:"compress"`
}

// LogFile configures file based logging, one file per level group.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" toml:"path" json:"path"`

	Access Rotation `mapstructure:"access" toml:"access" json:"access"`
	Error  Rotation `mapstructure:"error" toml:"error" json:"error"`
	Info   Rotation `mapstructure:"info" toml:"info" json:"info"`
	Trace  Rotation `mapstructure:"trace" toml:"trace" json:"trace"`
	Warn   Rotation `mapstructure:"warn" toml:"warn" json:"warn"`
}

// SQL configures the database query log.
type SQL struct {
	// Enabled logs every statement at trace level.
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// SlowThreshold logs slower statements at warn level. Zero disables it.
	SlowThreshold time.Duration `mapstructure:"slowThreshold" toml:"slowThreshold" json:"slowThreshold"`
}

// Log is the logger configuration.
type Log struct {
	LogLevel    string `mapstructure:"logLevel" toml:"logLevel" json:"logLevel"` // trace, debug, info, warn, error
	AppName     string `mapstructure:"appName" toml:"appName" json:"appName"`
	ServiceName string `mapstructure:"serviceName" toml:"serviceName" json:"serviceName"`

	// EnableAccessLogToConsole writes the access log to stdout as well.
	// It has no effect while Console.Enabled is false.
	EnableAccessLogToConsole bool `mapstructure:"enableAccessLogToConsole" toml:"enableAccessLogToConsole" json:"enableAccessLogToConsole"`
	ReportCaller             bool `mapstructure:"reportCaller" toml:"reportCaller" json:"reportCaller"`
	// DisableCheckAlive skips access log lines of the health check route.
	DisableCheckAlive bool `mapstructure:"disableCheckAlive" toml:"disableCheckAlive" json:"disableCheckAlive"`

	Console Console `mapstructure:"console" toml:"console" json:"console"`
	File    LogFile `mapstructure:"file" toml:"file" json:"file"`
	SQL     SQL     `mapstructure:"sql" toml:"sql" json:"sql"`
}
