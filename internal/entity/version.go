package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a strict major.minor.patch marker as stored in the VERSION file.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses "major.minor.patch". Anything else fails with
// ErrValidation; a corrupted marker must never be bumped and written back.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: version %q is not major.minor.patch", ErrValidation, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return Version{}, fmt.Errorf("%w: version component %q", ErrValidation, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// BumpPatch returns the next version, incrementing the smallest component.
func (v Version) BumpPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
