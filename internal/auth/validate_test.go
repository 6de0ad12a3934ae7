package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAuthRequest(t *testing.T) {
	testCases := []struct {
		name               string
		password           string
		expectedViolations []string
	}{
		{
			name:               "missing password",
			password:           "",
			expectedViolations: []string{"password is required"},
		},
		{
			name:               "too short",
			password:           "short",
			expectedViolations: []string{"password must be at least 8 characters"},
		},
		{
			name:               "too long",
			password:           strings.Repeat("a", 129),
			expectedViolations: []string{"password must be at most 128 characters"},
		},
		{
			name:     "valid",
			password: "a-perfectly-fine-password",
		},
		{
			name:     "exactly at bounds",
			password: strings.Repeat("a", 128),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			violations := validateAuthRequest(authRequest{Password: tc.password})
			assert.Equal(t, tc.expectedViolations, violations)
		})
	}
}
