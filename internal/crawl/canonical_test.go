package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain gets https and root path", "acme.example", "https://acme.example/"},
		{"host lowercased", "HTTPS://ACME.Example/About", "https://acme.example/About"},
		{"fragment dropped", "https://acme.example/contact#team", "https://acme.example/contact"},
		{"default https port stripped", "https://acme.example:443/contact", "https://acme.example/contact"},
		{"default http port stripped", "http://acme.example:80/", "http://acme.example/"},
		{"non-default port kept", "http://acme.example:8080/x", "http://acme.example:8080/x"},
		{"trailing slash trimmed", "https://acme.example/contact/", "https://acme.example/contact"},
		{"root slash kept", "https://acme.example/", "https://acme.example/"},
		{"query preserved", "https://acme.example/p?id=2", "https://acme.example/p?id=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalizeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "https://exa mple.com", "https://"} {
		_, err := Canonicalize(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestSameSite(t *testing.T) {
	assert.True(t, SameSite("www.acme.example", "acme.example"))
	assert.True(t, SameSite("shop.acme.co.uk", "www.acme.co.uk"))
	assert.True(t, SameSite("ACME.example", "acme.example"))
	assert.True(t, SameSite("127.0.0.1:8080", "127.0.0.1:9090"))
	assert.False(t, SameSite("acme.example", "other.example"))
	assert.False(t, SameSite("acme.co.uk", "acme.org.uk"))
}

func TestOrigin(t *testing.T) {
	assert.Equal(t, "https://acme.example", Origin("https://acme.example/contact?x=1"))
	assert.Equal(t, "http://acme.example:8080", Origin("http://acme.example:8080/"))
}
