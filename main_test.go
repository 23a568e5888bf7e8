package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"defaults", nil, 0, "Amount on 2025-04-30: 902.50\n"},
		{"start date", []string{"2025-02-28"}, 0, "Amount on 2025-02-28: 1000.00\n"},
		{"zero rate", []string{"-rate", "0", "2026-01-01"}, 0, "Amount on 2026-01-01: 1000.00\n"},
		{"full rate", []string{"-rate", "1", "2025-04-30"}, 0, "Amount on 2025-04-30: 0.00\n"},
		{"before start", []string{"-amount", "902.5", "2025-01-01"}, 0, "Amount on 2025-01-01: 1000.00\n"},
		{"garbage date", []string{"garbage"}, 0, "Amount on garbage: NaN\n"},
		{"fixed mode", []string{"-mode", "fixed"}, 0, "Amount on 2025-04-30: 902.50\n"},
		{"tie rounds up", []string{"-amount", "0.125", "-rate", "0", "2025-02-28"}, 0, "Amount on 2025-02-28: 0.13\n"},
		{"year and month", []string{"2025-05"}, 0, "Amount on 2025-05: 902.50\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.want, stdout.String())
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run([]string{"-mode", "exact"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Invalid mode")
	assert.Empty(t, stdout.String())

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-mode", "fixed", "garbage"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Invalid target date")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"-nope"}, &stdout, &stderr))
}

func TestRunVerbose(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"-v"}, &stdout, &stderr))
	assert.Equal(t, "Amount on 2025-04-30: 902.50\n", stdout.String())
	assert.Contains(t, stderr.String(), "Float decay")
}
