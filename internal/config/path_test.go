package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("RECEIPTS_TEST_DIR", "/var/data")

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "empty path",
			path: "",
			want: "",
		},
		{
			name: "tilde prefix",
			path: "~/receipts.db",
			want: filepath.Join(home, "receipts.db"),
		},
		{
			name: "bare tilde",
			path: "~",
			want: home,
		},
		{
			name: "environment variable",
			path: "$RECEIPTS_TEST_DIR/receipts.db",
			want: "/var/data/receipts.db",
		},
		{
			name: "plain path untouched",
			path: "/tmp/receipts.db",
			want: "/tmp/receipts.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.path))
		})
	}
}
