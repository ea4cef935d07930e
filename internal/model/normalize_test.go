package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Joe's Plumbing LLC", "JOES PLUMBING"},
		{"  Acme, Inc.", "ACME"},
		{"Smith & Sons Ltd", "SMITH AND SONS"},
		{"Café Olé", "CAFE OLE"},
		{"Main-Street   Bakery", "MAIN STREET BAKERY"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	once := NormalizeName("Müller & Söhne GmbH")
	assert.Equal(t, once, NormalizeName(once))
}
