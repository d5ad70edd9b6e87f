package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentVersion(t *testing.T) {
	assert.Equal(t, DevVersion, GetCurrentVersion("dev"))
	assert.Equal(t, DevVersion, GetCurrentVersion("demo"))
	assert.Equal(t, Version, GetCurrentVersion("prod"))
}

func TestGetMinorVersion(t *testing.T) {
	assert.Equal(t, "0.3", GetMinorVersion("0.3.1"))
	assert.Equal(t, "1.0", GetMinorVersion("1.0"))
	assert.Equal(t, "", GetMinorVersion("1"))
	assert.Equal(t, "", GetMinorVersion(""))
}

func TestIsVersionGreaterOrEqualThan(t *testing.T) {
	assert.True(t, IsVersionGreaterOrEqualThan("0.3.1", "0.3.0"))
	assert.True(t, IsVersionGreaterOrEqualThan("0.3.0", "0.3.0"))
	assert.False(t, IsVersionGreaterOrEqualThan("0.2.9", "0.3.0"))
}
