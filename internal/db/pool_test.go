package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	testCases := []struct {
		name     string
		params   NewDBPoolParams
		expected string
	}{
		{
			name: "defaults to postgres user without credentials",
			params: NewDBPoolParams{
				DBHost: "localhost",
				DBPort: "5432",
				DBName: "investcast_db",
			},
			expected: "postgres://postgres@localhost:5432/investcast_db",
		},
		{
			name: "custom user with password",
			params: NewDBPoolParams{
				DBHost:     "db",
				DBPort:     "5432",
				DBName:     "investcast_db",
				DBUser:     "investcast",
				DBPassword: "s3cret",
			},
			expected: "postgres://investcast:s3cret@db:5432/investcast_db",
		},
		{
			name: "password with reserved characters is escaped",
			params: NewDBPoolParams{
				DBHost:     "db",
				DBPort:     "5432",
				DBName:     "investcast_db",
				DBUser:     "investcast",
				DBPassword: "p@ss/word",
			},
			expected: "postgres://investcast:p%40ss%2Fword@db:5432/investcast_db",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, connString(tc.params))
		})
	}
}
