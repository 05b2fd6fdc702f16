package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/internal/model"
)

func TestPrintVolunteers(t *testing.T) {
	list := []*model.Volunteer{{
		ID:        "v1",
		Name:      "Jeanne",
		Email:     "jeanne@example.org",
		Phone:     "0601020304",
		CreatedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	volunteersJSON = false
	require.NoError(t, printVolunteers(cmd, list))
	assert.Contains(t, buf.String(), "EMAIL")
	assert.Contains(t, buf.String(), "2025-06-01 09:30")

	buf.Reset()
	volunteersJSON = true
	t.Cleanup(func() { volunteersJSON = false })
	require.NoError(t, printVolunteers(cmd, list))
	assert.Contains(t, buf.String(), `"email": "jeanne@example.org"`)
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{{"reconcile"}, {"sweep"}, {"janitor"}, {"volunteers", "list"}, {"volunteers", "delete"}} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
