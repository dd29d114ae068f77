package config

import (
	"github.com/gophilo/gophilo/internal/logger"
)

// Config is the overall configuration.
type Config struct {
	DevMode   bool       `mapstructure:"devMode" toml:"devMode" json:"devMode"` // development mode, templates are not cached
	Title     string     `mapstructure:"title" toml:"title" json:"title" validate:"required"`
	DB        DB         `mapstructure:"db" toml:"db" json:"db"`
	Log       logger.Log `mapstructure:"log" toml:"log" json:"log"`
	Webserver Webserver  `mapstructure:"webserver" toml:"webserver" json:"webserver"`
	CMS       CMS        `mapstructure:"cms" toml:"cms" json:"cms"`
	Admin     Admin      `mapstructure:"admin" toml:"admin" json:"admin"`
}

// Webserver holds the http server settings.
type Webserver struct {
	Port           int    `mapstructure:"port" toml:"port" json:"port" validate:"min=0,max=65535"`
	URL            string `mapstructure:"url" toml:"url" json:"url"`                            // public base url
	ShutDownTime   int    `mapstructure:"shutDownTime" toml:"shutDownTime" json:"shutDownTime"` // seconds
	DisableRecover bool   `mapstructure:"disableRecover" toml:"disableRecover" json:"disableRecover"`
	AdminRealm     string `mapstructure:"adminRealm" toml:"adminRealm" json:"adminRealm"` // basic auth realm of /admin
	EnableMetrics  bool   `mapstructure:"enableMetrics" toml:"enableMetrics" json:"enableMetrics"`
}

// CMS holds the content settings.
type CMS struct {
	PathSeparator  string `mapstructure:"pathSeparator" toml:"pathSeparator" json:"pathSeparator" validate:"required"`
	MaxDepth       int    `mapstructure:"maxDepth" toml:"maxDepth" json:"maxDepth" validate:"min=1"`
	DefaultSite    string `mapstructure:"defaultSite" toml:"defaultSite" json:"defaultSite"` // domain served for unknown hosts
	CacheTemplates bool   `mapstructure:"cacheTemplates" toml:"cacheTemplates" json:"cacheTemplates"`
}

// Admin is ensured on start: created if missing, otherwise its password is reset and it is activated.
// An empty username skips this.
type Admin struct {
	Username string `mapstructure:"username" toml:"username" json:"username"`
	Password string `mapstructure:"password" toml:"password" json:"-"`
	Email    string `mapstructure:"email" toml:"email" json:"email"`
}
