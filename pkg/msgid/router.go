package msgid

import "strings"

var boundaryVersion, _ = ParseVersion(VersionBoundary)

// Selects the binary layout a producer of the given protocol version encodes with.
// Every release line before 5.0.0 (pre-releases included) is legacy.
// Names that do not follow the V<major>_<minor>_<patch> scheme fall back to
// ordinal comparison against the boundary name, so routing never fails.
func Route(producerVersion string) (layout Layout) {
	version, err := ParseVersion(producerVersion)
	if err != nil {
		if strings.Compare(producerVersion, VersionBoundary) < 0 {
			layout = LayoutLegacy
		} else {
			layout = LayoutModern
		}
		return
	}

	if Compare(version.Release(), boundaryVersion) < 0 {
		layout = LayoutLegacy
	} else {
		layout = LayoutModern
	}
	return
}

// Guesses the layout from the identifier alone (for callers without a producer version).
// Tagged 5.x ids have a fixed length; everything else is treated as legacy.
func InferLayout(id string) (layout Layout) {
	layout = LayoutLegacy
	if len(id) == MessageIDLengthV1 || len(id) == shortTaggedLen {
		layout = LayoutModern
	}
	return
}
