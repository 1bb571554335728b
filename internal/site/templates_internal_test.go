package site

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPartial(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "partials/head.html", want: true},
		{path: "partials/nav/menu.html", want: true},
		{path: "partials-old/head.html", want: false},
		{path: "partialsx.html", want: false},
		{path: "posts.html", want: false},
		{path: "base.html", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, isPartial(tt.path))
		})
	}
}
