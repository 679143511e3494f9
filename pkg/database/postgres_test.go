package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/eduscan-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: 5433, User: "edu", Password: "pw", Name: "eduscan", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5433 user=edu password=pw dbname=eduscan sslmode=disable", dsn)
}
