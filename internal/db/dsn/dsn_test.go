package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gophilo/gophilo/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name          string
		db            config.DB
		expected      string
		expectedError error
	}{
		{
			name:     "sqlite",
			db:       config.DB{GormEngine: config.EngineSQLite, Path: "cms.db"},
			expected: "cms.db",
		},
		{
			name:     "sqlite with pragmas",
			db:       config.DB{GormEngine: config.EngineSQLite, Path: "cms.db", Extras: "_pragma=foreign_keys(1)"},
			expected: "cms.db?_pragma=foreign_keys(1)",
		},
		{
			name: "mysql",
			db: config.DB{
				GormEngine: config.EngineMySQL, Host: "db", Port: 3306,
				User: "u", Password: "p", Name: "cms", Extras: "parseTime=true",
			},
			expected: "u:p@tcp(db:3306)/cms?parseTime=true",
		},
		{
			name: "postgres",
			db: config.DB{
				GormEngine: config.EnginePostgres, Host: "db", Port: 5432,
				User: "u", Password: "p", Name: "cms", Extras: "sslmode=disable",
			},
			expected: "host=db port=5432 user=u password=p dbname=cms sslmode=disable",
		},
		{
			name:          "unknown",
			db:            config.DB{GormEngine: "oracle"},
			expectedError: ErrUnknownEngine,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Create(&config.Config{DB: tc.db})
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDialector(t *testing.T) {
	for engine, name := range map[string]string{
		config.EngineSQLite:   "sqlite",
		config.EngineMySQL:    "mysql",
		config.EnginePostgres: "postgres",
	} {
		d, err := Dialector(&config.Config{DB: config.DB{GormEngine: engine, Path: ":memory:"}})
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}

	_, err := Dialector(&config.Config{})
	require.ErrorIs(t, err, ErrUnknownEngine)
}
