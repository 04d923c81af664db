package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHosts(t *testing.T) {
	got := normalizeHosts([]string{" Wikipedia.org ", "docs.example.com", "wikipedia.org", "", "DOCS.EXAMPLE.COM"})
	assert.Equal(t, []string{"wikipedia.org", "docs.example.com"}, got)
}

func TestNormalizeHostsEmpty(t *testing.T) {
	assert.Nil(t, normalizeHosts(nil))
	assert.Nil(t, normalizeHosts([]string{"", "  "}))
}

func TestSplitHosts(t *testing.T) {
	assert.Nil(t, splitHosts(""))
	assert.Equal(t, []string{"a.com", "b.com"}, splitHosts("a.com,b.com"))
}
