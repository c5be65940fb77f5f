package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDevBuild(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	assert.True(t, IsDevBuild())

	Version = "v1.2.0"
	assert.False(t, IsDevBuild())
}
