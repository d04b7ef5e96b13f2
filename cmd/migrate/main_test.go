package main

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunValidatesCommands(t *testing.T) {
	var calls []string
	gooseRun = func(_ context.Context, command string, _ *sql.DB, dir string, args ...string) error {
		assert.Equal(t, ".", dir)
		calls = append(calls, command)
		if command == "up-to" {
			assert.Equal(t, []string{"3"}, args)
		}
		return nil
	}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		usage   bool
	}{
		{name: "no command", args: nil, wantErr: true, usage: true},
		{name: "unknown command", args: []string{"lol"}, wantErr: true, usage: true},
		{name: "up-to without version", args: []string{"up-to"}, wantErr: true},
		{name: "up with extra args", args: []string{"up", "now"}, wantErr: true},
		{name: "up", args: []string{"up"}},
		{name: "up-to", args: []string{"up-to", "3"}},
		{name: "status", args: []string{"status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), nil, tt.args)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.usage, errors.Is(err, errUsage))
		})
	}
	assert.Equal(t, []string{"up", "up-to", "status"}, calls)
}
