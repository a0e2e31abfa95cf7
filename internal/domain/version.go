package domain

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// PreReleaseSuffix marks a version published ahead of the official release.
const PreReleaseSuffix = "-pre-release"

// Version wraps semver.Version for additional methods.
type Version struct {
	*semver.Version
}

// NewVersion parses a MAJOR.MINOR.PATCH version. A leading "v" is accepted.
func NewVersion(s string) (*Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	v, err := semver.StrictNewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
	}
	return &Version{v}, nil
}

// Bump returns the next release version: a patch of 9 rolls over into the
// minor component, a prerelease is released as its own core version, anything
// else increments the patch. Prerelease and build metadata are dropped.
func (v *Version) Bump() *Version {
	switch {
	case v.Patch() == 9:
		return &Version{semver.New(v.Major(), v.Minor()+1, 0, "", "")}
	case v.Prerelease() != "":
		return &Version{semver.New(v.Major(), v.Minor(), v.Patch(), "", "")}
	}
	return &Version{semver.New(v.Major(), v.Minor(), v.Patch()+1, "", "")}
}

// String returns the version without a prefix, as stored in a manifest.
func (v *Version) String() string {
	return v.Version.String()
}

// Tag returns the git tag name for the version.
func (v *Version) Tag() string {
	return FormatTag(v.String())
}

// BumpVersion parses current and returns the next version string.
func BumpVersion(current string) (string, error) {
	v, err := NewVersion(current)
	if err != nil {
		return "", err
	}
	return v.Bump().String(), nil
}

// FormatTag returns the tag name for a version string.
func FormatTag(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}

// PreReleaseVersion returns the pre-release version published after current.
func PreReleaseVersion(current string) (string, error) {
	next, err := BumpVersion(current)
	if err != nil {
		return "", err
	}
	return next + PreReleaseSuffix, nil
}

// PreReleaseBranch returns the branch a pre-release version is published from.
func PreReleaseBranch(version string) string {
	return "pre-release/" + strings.ReplaceAll(version, ".", "-")
}
