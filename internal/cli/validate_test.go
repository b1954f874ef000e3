package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidQuery(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{}
	rootOpts.Format = "text"
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{`select projects.name from projects where projects.name in ('demo') order by projects.name`})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ Query valid")
	assert.Contains(t, output, "SELECT projects.name\nFROM projects\nWHERE projects.name IN (\"demo\")\nORDER BY projects.name")
}

func TestValidateValidQueryJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{}
	rootOpts.Format = "json"
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{`SELECT ABS(flavors.vcpus) FROM flavors`})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Contains(t, resp.Data.Query, "FROM flavors")
}

func TestValidateNeedsNoInventory(t *testing.T) {
	t.Setenv("PERSPECTIVE_INVENTORY", "")
	t.Setenv("PERSPECTIVE_DB", "")

	out, err := execute(t, "validate", `SELECT networks.name FROM networks`)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Query valid")
}

func TestValidateInvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"syntax", `SELECT instances.name`, "SYNTAX"},
		{"unknown table", `SELECT nowhere.name FROM nowhere`, "UNKNOWN_TABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			rootOpts := &RootOptions{}
			rootOpts.Format = "text"
			cmd := NewValidateCommand(rootOpts)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{tt.query})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, buf.String(), "Error ["+tt.code+"]")
		})
	}
}
