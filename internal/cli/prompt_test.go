package cli_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/mindtool/internal/cli"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantAccepted bool
	}{
		{name: "accept with lowercase y", input: "y\n", wantAccepted: true},
		{name: "accept with uppercase Y", input: "Y\n", wantAccepted: true},
		{name: "accept with yes", input: "yes\n", wantAccepted: true},
		{name: "accept with padded YES", input: "  YES \n", wantAccepted: true},
		{name: "decline with n", input: "n\n", wantAccepted: false},
		{name: "decline with empty line", input: "\n", wantAccepted: false},
		{name: "decline with other text", input: "sure\n", wantAccepted: false},
		{name: "decline on EOF", input: "", wantAccepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			result := cli.Confirm(&out, strings.NewReader(tt.input), "Delete comment c1?")

			assert.Equal(t, tt.wantAccepted, result.Accepted)
			assert.False(t, result.Cancelled)
			assert.Equal(t, "? Delete comment c1? [y/N] ", out.String())
		})
	}
}

func TestConfirm_ReadError(t *testing.T) {
	var out bytes.Buffer
	result := cli.Confirm(&out, failingReader{}, "Reject upload u1?")

	assert.False(t, result.Accepted)
	assert.True(t, result.Cancelled)
}
