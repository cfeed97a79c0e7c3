package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	fixtures := Defaults()

	assert.Equal(t, []string{"posva", "yyx990803"}, fixtures.Profiles.IDs())
	assert.Equal(t, []string{"posva", "yyx990803"}, fixtures.Followers.IDs())

	p, ok := fixtures.Profiles.Lookup("yyx990803")
	assert.True(t, ok)
	assert.Equal(t, "Evan You", p.Name)
	assert.Equal(t, "/yyx990803.jpeg", p.ImageURL)

	count, ok := fixtures.Followers.Lookup("posva")
	assert.True(t, ok)
	assert.Equal(t, "5.7k", count)
}
