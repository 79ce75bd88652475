package normalize

import (
	"strconv"
	"strings"
)

// CompareVersions orders two loosely semantic version strings: -1 when a is
// older, 1 when a is newer, 0 otherwise. A single leading "v" or "=" is
// stripped, the rest is split on "." and "-" and compared segment-wise as
// integers, non-numeric segments counting as 0 and missing segments as 0.
//
// This is a best-effort heuristic, not semver: pre-release tags and build
// metadata are mis-ordered ("1.2.3-rc1" compares equal to "1.2.3"), and the
// ordering is not transitive across unrelated versioning schemes such as
// calendar versions mixed with semver.
func CompareVersions(a, b string) int {
	segmentsA := versionSegments(a)
	segmentsB := versionSegments(b)

	length := len(segmentsA)
	if len(segmentsB) > length {
		length = len(segmentsB)
	}

	for i := 0; i < length; i++ {
		valueA := segmentAt(segmentsA, i)
		valueB := segmentAt(segmentsB, i)
		if valueA < valueB {
			return -1
		}
		if valueA > valueB {
			return 1
		}
	}
	return 0
}

func versionSegments(version string) []string {
	if strings.HasPrefix(version, "v") || strings.HasPrefix(version, "=") {
		version = version[1:]
	}
	return strings.FieldsFunc(version, func(r rune) bool {
		return r == '.' || r == '-'
	})
}

func segmentAt(segments []string, i int) int {
	if i >= len(segments) {
		return 0
	}
	value, err := strconv.Atoi(segments[i])
	if err != nil {
		return 0
	}
	return value
}
