package velo

import (
	"fmt"
	"regexp"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// semver is a release version with numeric total ordering per component.
type semver struct {
	Major, Minor, Patch int
}

func (v semver) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// less orders versions numerically, never lexicographically: 1.10.0 > 1.9.0.
func (v semver) less(o semver) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// Bump kinds for release versioning.
const (
	bumpPatch = "patch"
	bumpMinor = "minor"
	bumpMajor = "major"
)

var semverPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// stripVersionMarker removes a single leading non-digit marker character
// (the conventional "v" in tags like v1.2.3).
func stripVersionMarker(s string) string {
	if s != "" && (s[0] < '0' || s[0] > '9') {
		return s[1:]
	}
	return s
}

// parseSemver parses a strict MAJOR.MINOR.PATCH triple, allowing one
// leading marker character.
func parseSemver(s string) (semver, error) {
	m := semverPattern.FindStringSubmatch(stripVersionMarker(s))
	if m == nil {
		return semver{}, &VersionParseError{Input: s}
	}
	var v semver
	// The pattern guarantees digits; Sscanf cannot fail here.
	fmt.Sscanf(m[1], "%d", &v.Major)
	fmt.Sscanf(m[2], "%d", &v.Minor)
	fmt.Sscanf(m[3], "%d", &v.Patch)
	return v, nil
}

// bump increments the requested component, resetting the lower ones.
func bump(v semver, kind string) (semver, error) {
	switch kind {
	case bumpMajor:
		return semver{Major: v.Major + 1}, nil
	case bumpMinor:
		return semver{Major: v.Major, Minor: v.Minor + 1}, nil
	case bumpPatch:
		return semver{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return semver{}, fmt.Errorf("unknown bump kind %q: use patch, minor or major", kind)
	}
}

// latestVersionTag scans the repository's tags for the highest version
// under numeric ordering. Tags that don't parse as a version triple are
// ignored. ok is false when no version tag exists.
func latestVersionTag(repo *git.Repository) (v semver, tagName string, ok bool, err error) {
	tags, err := repo.Tags()
	if err != nil {
		return semver{}, "", false, fmt.Errorf("listing tags: %w", err)
	}
	defer tags.Close()

	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		parsed, perr := parseSemver(name)
		if perr != nil {
			return nil
		}
		if !ok || v.less(parsed) {
			v, tagName, ok = parsed, name, true
		}
		return nil
	})
	if err != nil {
		return semver{}, "", false, fmt.Errorf("iterating tags: %w", err)
	}
	return v, tagName, ok, nil
}
