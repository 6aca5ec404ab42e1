// ABOUTME: Tests for shared token verification
// ABOUTME: Covers prefix handling, exact matching and fail-closed behavior

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticToken_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		want       bool
	}{
		{name: "bearer prefix", configured: "secret", header: "Bearer secret", want: true},
		{name: "raw token", configured: "secret", header: "secret", want: true},
		{name: "wrong token", configured: "secret", header: "Bearer other", want: false},
		{name: "case sensitive", configured: "secret", header: "Bearer SECRET", want: false},
		{name: "lowercase scheme is not stripped", configured: "secret", header: "bearer secret", want: false},
		{name: "missing header", configured: "secret", header: "", want: false},
		{name: "empty bearer", configured: "secret", header: "Bearer ", want: false},
		{name: "trailing space", configured: "secret", header: "Bearer secret ", want: false},
		{name: "no token configured", configured: "", header: "Bearer anything", want: false},
		{name: "no token configured empty bearer", configured: "", header: "Bearer ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewStaticToken(tt.configured)
			assert.Equal(t, tt.want, a.Authenticate(tt.header))
		})
	}
}

func TestStaticToken_NilRejects(t *testing.T) {
	var a *StaticToken
	assert.False(t, a.Configured())
	assert.False(t, a.Authenticate("Bearer x"))
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractToken("Bearer abc"))
	assert.Equal(t, "abc", ExtractToken("abc"))
	assert.Equal(t, "", ExtractToken("Bearer "))
}
