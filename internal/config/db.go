package config

// Supported gorm engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database settings.
type DB struct {
	GormEngine string `mapstructure:"gormEngine" toml:"gormEngine" json:"gormEngine" validate:"oneof=sqlite mysql postgres"`
	Path       string `mapstructure:"path" toml:"path" json:"path"` // sqlite file, ":memory:" for a throwaway database
	Host       string `mapstructure:"host" toml:"host" json:"host"`
	Port       int    `mapstructure:"port" toml:"port" json:"port"`
	User       string `mapstructure:"user" toml:"user" json:"user"`
	Password   string `mapstructure:"password" toml:"password" json:"-"`
	Name       string `mapstructure:"name" toml:"name" json:"name"`
	Extras     string `mapstructure:"extras" toml:"extras" json:"extras"` // appended to the dsn
}
