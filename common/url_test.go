package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{name: "absolute base keeps scheme", base: "https://cdn.example.com/media/", segments: []string{"/campaigns/u1/", "a.png"}, want: "https://cdn.example.com/media/campaigns/u1/a.png"},
		{name: "served locally", base: "/uploads", segments: []string{"campaigns/u1", "a.png"}, want: "/uploads/campaigns/u1/a.png"},
		{name: "empty segments dropped", base: "/uploads", segments: []string{"", "a.png"}, want: "/uploads/a.png"},
		{name: "names are escaped", base: "/uploads", segments: []string{"my photo.png"}, want: "/uploads/my%20photo.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PublicURL(tt.base, tt.segments...)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := PublicURL("http://bad host", "a.png")
	require.Error(t, err)
}
