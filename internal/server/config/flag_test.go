package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags set", args: []string{"cmd",
			"-d", "db", "-s", "secret", "-t", "30",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN:           "db",
				SecretKey:             "secret",
				TokenValidityDuration: 30 * time.Minute,
				S3RootUser:            "user",
				S3RootPassword:        "password",
				S3Bucket:              "bucket",
				S3Region:              "us-west-1",
				S3BaseEndpoint:        "http://endpoint",
			}},
		{name: "unrelated flags ignored", args: []string{"cmd",
			"-d", "db", "-x", "ignored",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN: "db",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, tt.expected.DatabaseDSN, config.DatabaseDSN)
				assert.Equal(t, tt.expected.SecretKey, config.SecretKey)
				assert.Equal(t, tt.expected.TokenValidityDuration, config.TokenValidityDuration)
				assert.Equal(t, tt.expected.S3RootUser, config.S3RootUser)
				assert.Equal(t, tt.expected.S3RootPassword, config.S3RootPassword)
				assert.Equal(t, tt.expected.S3Bucket, config.S3Bucket)
				assert.Equal(t, tt.expected.S3Region, config.S3Region)
				assert.Equal(t, tt.expected.S3BaseEndpoint, config.S3BaseEndpoint)
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
