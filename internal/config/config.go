// Package config reads the configuration from etc/main.toml.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvConfigJSON names the environment variable holding a JSON document that
// is merged over the file configuration.
const EnvConfigJSON = "GOPHILO_CONFIG_JSON"

const invalidErrMessage = "invalid config"

// setDefaults registers the values used for keys missing in the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "GoPhilo")
	v.SetDefault("db.gormEngine", EngineSQLite)
	v.SetDefault("db.path", "gophilo.db")
	v.SetDefault("webserver.shutDownTime", 5) //nolint:mnd
	v.SetDefault("webserver.adminRealm", "GoPhilo Admin")
	v.SetDefault("cms.pathSeparator", "/")
	v.SetDefault("cms.maxDepth", 64) //nolint:mnd
	v.SetDefault("cms.cacheTemplates", true)
	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "gophilo")
	v.SetDefault("log.serviceName", "gophilo")
	v.SetDefault("log.console.enabled", true)
}

// ReadConfig reads <path>main.toml, merges the JSON document of
// GOPHILO_CONFIG_JSON over it and validates the result.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path + "main.toml")
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if env := os.Getenv(EnvConfigJSON); env != "" {
		if err := mergeJSON(v, env); err != nil {
			return Config{}, err
		}
	}

	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

func mergeJSON(v *viper.Viper, configAsJSON string) error {
	v.SetConfigType("json")

	if err := v.MergeConfig(strings.NewReader(configAsJSON)); err != nil {
		return errors.Wrap(err, "failed to merge "+EnvConfigJSON)
	}

	return nil
}

// DumpConfig returns c as TOML.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON returns c as indented JSON. Passwords are left out.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon cannot start without.
func validate(c *Config) error {
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineSQLite:
		if c.DB.Path == "" {
			return errors.Wrap(ErrDBPathEmpty, invalidErrMessage)
		}
	case EngineMySQL, EnginePostgres:
		if c.DB.Host == "" {
			return errors.Wrap(ErrDBHostEmpty, invalidErrMessage)
		}
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}
