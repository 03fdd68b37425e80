package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDestination(t *testing.T) {
	type testCase struct {
		in      string
		wantErr bool
	}

	tests := []testCase{
		{in: ""},
		{in: "   "},
		{in: "https://script.google.com/macros/s/abc/exec"},
		{in: "http://localhost:8080/hook"},
		{in: "ftp://example.com", wantErr: true},
		{in: "example.com/hook", wantErr: true},
		{in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateDestination(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}
