package server_test

import (
	"testing"

	"ledger-reconciler/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"Configured", 8, 8 << 20},
		{"Zero", 0, server.DefaultBodyLimitMB << 20},
		{"Negative", -1, server.DefaultBodyLimitMB << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.limit}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Address())
}
