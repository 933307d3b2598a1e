package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financia/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Financia", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.InDelta(t, 0.5, cfg.Assistant.Temperature, 1e-6)
	assert.False(t, cfg.AssistantEnabled())
	assert.Equal(t, "postgres://postgres:@localhost:5432/financia?sslmode=disable", cfg.ConnectionString())
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	type testCase struct {
		name    string
		env     map[string]string
		wantErr []string
	}

	tests := []testCase{
		{
			name:    "MissingSecret",
			env:     map[string]string{},
			wantErr: []string{"JWT_SECRET is required"},
		},
		{
			name: "CollectsEveryProblem",
			env: map[string]string{
				"JWT_SECRET":         "secret",
				"PORT":               "70000",
				"STORAGE_BACKEND":    "sheets",
				"GEMINI_TEMPERATURE": "3",
			},
			wantErr: []string{"invalid port 70000", `invalid storage backend "sheets"`, "invalid assistant temperature"},
		},
		{
			name:    "EmptySQLitePath",
			env:     map[string]string{"JWT_SECRET": "secret", "SQLITE_PATH": ""},
			wantErr: []string{"SQLITE_PATH cannot be empty"},
		},
		{
			name: "MemoryBackend",
			env:  map[string]string{"JWT_SECRET": "secret", "STORAGE_BACKEND": "memory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			require.NoError(t, err)

			err = cfg.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)

			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
