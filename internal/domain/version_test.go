package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersion(t *testing.T) {
	t.Run("Should create valid version from string", func(t *testing.T) {
		version, err := NewVersion("1.2.3")
		require.NoError(t, err)
		assert.NotNil(t, version)
		assert.Equal(t, "1.2.3", version.String())
	})
	t.Run("Should return ErrInvalidVersion for invalid version string", func(t *testing.T) {
		version, err := NewVersion("invalid")
		assert.ErrorIs(t, err, ErrInvalidVersion)
		assert.Nil(t, version)
	})
	t.Run("Should reject versions without three components", func(t *testing.T) {
		_, err := NewVersion("1.2")
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})
	t.Run("Should handle version with v prefix", func(t *testing.T) {
		version, err := NewVersion("v1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", version.String())
		assert.Equal(t, "v1.2.3", version.Tag())
	})
}

func TestVersion_Bump(t *testing.T) {
	cases := []struct {
		current string
		next    string
	}{
		{"1.2.3", "1.2.4"},
		{"1.2.9", "1.3.0"},
		{"2.0.9", "2.1.0"},
		{"0.0.0", "0.0.1"},
		{"1.9.9", "1.10.0"},
		{"3.4.10", "3.4.11"},
		{"1.2.8-pre-release", "1.2.8"},
		{"2.1.0-pre-release", "2.1.0"},
		{"1.2.3-beta.1", "1.2.3"},
		{"1.2.9-beta", "1.3.0"},
		{"1.2.3+build.5", "1.2.4"},
	}
	for _, tc := range cases {
		t.Run("Should bump "+tc.current+" to "+tc.next, func(t *testing.T) {
			next, err := BumpVersion(tc.current)
			require.NoError(t, err)
			assert.Equal(t, tc.next, next)
		})
	}
	t.Run("Should fail to bump an unparsable version", func(t *testing.T) {
		_, err := BumpVersion("not-a-version")
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})
}

func TestVersion_BumpIsMonotonic(t *testing.T) {
	t.Run("Should always produce a strictly greater tag", func(t *testing.T) {
		for major := uint64(0); major < 3; major++ {
			for minor := uint64(0); minor < 12; minor++ {
				for patch := uint64(0); patch < 12; patch++ {
					v, err := NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
					require.NoError(t, err)
					next := v.Bump()
					assert.True(t, next.GreaterThan(v.Version))
					assert.NotEqual(t, v.Tag(), next.Tag())
				}
			}
		}
	})
}

func TestFormatTag(t *testing.T) {
	t.Run("Should prefix the version with v", func(t *testing.T) {
		assert.Equal(t, "v1.4.9", FormatTag("1.4.9"))
	})
	t.Run("Should not double the prefix", func(t *testing.T) {
		assert.Equal(t, "v1.4.9", FormatTag("v1.4.9"))
	})
	t.Run("Should format the tag of a bumped version", func(t *testing.T) {
		next, err := BumpVersion("1.4.9")
		require.NoError(t, err)
		assert.Equal(t, "v1.5.0", FormatTag(next))
	})
}

func TestPreRelease(t *testing.T) {
	t.Run("Should suffix the bumped version", func(t *testing.T) {
		v, err := PreReleaseVersion("1.2.9")
		require.NoError(t, err)
		assert.Equal(t, "1.3.0-pre-release", v)
	})
	t.Run("Should replace dots in the branch name", func(t *testing.T) {
		assert.Equal(t, "pre-release/1-3-0-pre-release", PreReleaseBranch("1.3.0-pre-release"))
	})
}
