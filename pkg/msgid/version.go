package msgid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel name producers report when they are newer than every known release
const HigherVersionName string = "HIGHER_VERSION"

// Release lines covered by KnownVersions
const (
	firstKnownMajor int = 3
	lastKnownMajor  int = 5
	maxKnownMinor   int = 9
	maxKnownPatch   int = 9
)

var versionPattern = regexp.MustCompile(`^V(\d+)_(\d+)_(\d+)(?:_([A-Z][A-Z0-9_]*))?$`)

// Protocol version name split into comparable parts, e.g. V4_9_7 or V3_0_0_BETA6_SNAPSHOT
type Version struct {
	Name      string
	Major     int
	Minor     int
	Patch     int
	Qualifier string
	Higher    bool
}

// Qualifier ordering bands within a single release
const (
	bandSnapshot int = iota
	bandAlpha
	bandBeta
	bandRC
	bandOther
	bandRelease
)

type qualifierKey struct {
	band     int
	number   int
	snapshot bool
}

// Parses a protocol version name
func ParseVersion(name string) (version Version, err error) {
	if name == HigherVersionName {
		version = Version{Name: name, Higher: true}
		return
	}

	matches := versionPattern.FindStringSubmatch(name)
	if matches == nil {
		err = fmt.Errorf("unrecognised protocol version %q", name)
		return
	}

	version.Name = name
	version.Qualifier = matches[4]

	parts := []*int{&version.Major, &version.Minor, &version.Patch}
	for i, part := range parts {
		*part, err = strconv.Atoi(matches[i+1])
		if err != nil {
			err = fmt.Errorf("invalid version component %q in %q: %v", matches[i+1], name, err)
			return
		}
	}
	return
}

// Version without its pre-release qualifier
func (version Version) Release() (release Version) {
	if version.Higher {
		release = version
		return
	}
	release = Version{
		Major: version.Major,
		Minor: version.Minor,
		Patch: version.Patch,
	}
	release.Name = release.String()
	return
}

func (version Version) String() string {
	if version.Name != "" {
		return version.Name
	}
	if version.Higher {
		return HigherVersionName
	}
	name := fmt.Sprintf("V%d_%d_%d", version.Major, version.Minor, version.Patch)
	if version.Qualifier != "" {
		name += "_" + version.Qualifier
	}
	return name
}

// Orders two versions chronologically; returns -1, 0 or 1
func Compare(a, b Version) (result int) {
	switch {
	case a.Higher && b.Higher:
		return 0
	case a.Higher:
		return 1
	case b.Higher:
		return -1
	}

	for _, pair := range [][2]int{{a.Major, b.Major}, {a.Minor, b.Minor}, {a.Patch, b.Patch}} {
		if pair[0] != pair[1] {
			result = sign(pair[0] - pair[1])
			return
		}
	}

	keyA := rankQualifier(a.Qualifier)
	keyB := rankQualifier(b.Qualifier)
	switch {
	case keyA.band != keyB.band:
		result = sign(keyA.band - keyB.band)
	case keyA.number != keyB.number:
		result = sign(keyA.number - keyB.number)
	case keyA.snapshot != keyB.snapshot:
		// a snapshot precedes the build it leads up to
		if keyA.snapshot {
			result = -1
		} else {
			result = 1
		}
	}
	return
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Maps a qualifier like BETA6_SNAPSHOT into its ordering key
func rankQualifier(qualifier string) (key qualifierKey) {
	if qualifier == "SNAPSHOT" {
		key.band = bandSnapshot
		return
	}

	if strings.HasSuffix(qualifier, "_SNAPSHOT") {
		key.snapshot = true
		qualifier = strings.TrimSuffix(qualifier, "_SNAPSHOT")
	}

	var suffix string
	switch {
	case qualifier == "" || qualifier == "FINAL" || qualifier == "RELEASE":
		key.band = bandRelease
	case strings.HasPrefix(qualifier, "ALPHA"):
		key.band = bandAlpha
		suffix = strings.TrimPrefix(qualifier, "ALPHA")
	case strings.HasPrefix(qualifier, "BETA"):
		key.band = bandBeta
		suffix = strings.TrimPrefix(qualifier, "BETA")
	case strings.HasPrefix(qualifier, "RC"):
		key.band = bandRC
		suffix = strings.TrimPrefix(qualifier, "RC")
	default:
		key.band = bandOther
	}

	if suffix != "" {
		// non-numeric suffixes rank as zero
		key.number, _ = strconv.Atoi(suffix)
	}
	return
}

// Ordered enumeration of the release versions of each known protocol line
func KnownVersions() (versions []Version) {
	versions = make([]Version, 0, (lastKnownMajor-firstKnownMajor+1)*(maxKnownMinor+1)*(maxKnownPatch+1))
	for major := firstKnownMajor; major <= lastKnownMajor; major++ {
		for minor := 0; minor <= maxKnownMinor; minor++ {
			for patch := 0; patch <= maxKnownPatch; patch++ {
				version := Version{Major: major, Minor: minor, Patch: patch}
				version.Name = version.String()
				versions = append(versions, version)
			}
		}
	}
	return
}
