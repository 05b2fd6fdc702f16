package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/nousrire-site/config"
)

func TestCheckSafe(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	sqlite := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}}
	postgres := &config.Config{Database: config.DatabaseConfig{Driver: "postgres"}}

	assert.NoError(t, checkSafe(sqlite, env(nil)))
	assert.Error(t, checkSafe(postgres, env(nil)))
	assert.Error(t, checkSafe(postgres, env(map[string]string{"BENCH_OK": "yes"})))
	assert.NoError(t, checkSafe(postgres, env(map[string]string{"BENCH_OK": "1"})))
}
