package msgid

const (
	// First protocol version that emits the fixed-width layout
	VersionBoundary string = "V5_0_0"

	// Version tag prefix (hex characters) in front of 5.x ids
	lenVersionTag int = 2

	// Modern wire field lengths (bytes)
	lenAddress   int = 6
	lenProcessID int = 2
	lenTimestamp int = 4
	lenSequence  int = 4

	// Modern wire field offsets (bytes, after version tag removal)
	offAddress   int = 0
	offProcessID int = offAddress + lenAddress
	offTimestamp int = offProcessID + lenProcessID
	offSequence  int = offTimestamp + lenTimestamp

	// Calculated
	minModernLen  int = lenAddress + lenProcessID + lenTimestamp
	fullModernLen int = minModernLen + lenSequence

	// Total id lengths (hex characters) that carry a version tag
	MessageIDLengthV1 int = lenVersionTag + 2*fullModernLen
	shortTaggedLen    int = lenVersionTag + 2*minModernLen
)
