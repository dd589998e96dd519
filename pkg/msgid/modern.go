package msgid

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// Splits the version tag off an identifier.
// Only identifiers whose length matches a tagged modern id are split, anything
// else is returned unchanged and left for the hex decoder to judge.
func StripVersionTag(id string) (tag string, body string) {
	body = id
	if len(id) == MessageIDLengthV1 || len(id) == shortTaggedLen {
		tag = id[:lenVersionTag]
		body = id[lenVersionTag:]
	}
	return
}

// Hex decodes the identifier body and ensures the fixed fields are present
func decodeModern(id string) (tag string, buf []byte, err error) {
	tag, body := StripVersionTag(id)

	// The tag is hex too, it is only dropped after validation
	_, err = hex.DecodeString(tag)
	if err != nil {
		tag = ""
		err = fmt.Errorf("%w: version tag: %v", ErrMalformedHex, err)
		return
	}

	buf, err = hex.DecodeString(body)
	if err != nil {
		// never hand back the partially decoded prefix
		tag = ""
		buf = nil
		err = fmt.Errorf("%w: %v", ErrMalformedHex, err)
		return
	}

	if len(buf) < minModernLen {
		err = fmt.Errorf("%w: decoded %d bytes but need at least %d", ErrBufferTooShort, len(buf), minModernLen)
		tag = ""
		buf = nil
		return
	}
	return
}

// Process id is the low 16 bits of a zero-extended big-endian uint32
func readProcessID(buf []byte) (pid uint32) {
	var word [4]byte
	copy(word[4-lenProcessID:], buf[offProcessID:offProcessID+lenProcessID])
	pid = binary.BigEndian.Uint32(word[:])
	return
}

// Seconds since Epoch, signed
func readOffset(buf []byte) (offset int32) {
	offset = int32(binary.BigEndian.Uint32(buf[offTimestamp : offTimestamp+lenTimestamp]))
	return
}

// Decodes every field of a 5.x identifier in one pass
func ParseModern(id string) (parsed ModernID, err error) {
	tag, buf, err := decodeModern(id)
	if err != nil {
		return
	}

	parsed.VersionTag = tag

	parsed.Address = make([]byte, lenAddress)
	copy(parsed.Address, buf[offAddress:offAddress+lenAddress])

	parsed.ProcessID = int(readProcessID(buf))
	parsed.Offset = readOffset(buf)

	// Sequence counter trails the mandatory fields when the full id is given
	if len(buf) >= fullModernLen {
		parsed.Sequence = binary.BigEndian.Uint32(buf[offSequence : offSequence+lenSequence])
		parsed.HasSequence = true
	}
	return
}

// Returns the 6-byte producer address
func ModernAddress(id string) (address []byte, err error) {
	_, buf, err := decodeModern(id)
	if err != nil {
		return
	}

	address = make([]byte, lenAddress)
	copy(address, buf[offAddress:offAddress+lenAddress])
	return
}

// Returns the producer process id
func ModernProcessID(id string) (pid int, err error) {
	_, buf, err := decodeModern(id)
	if err != nil {
		return
	}

	pid = int(readProcessID(buf))
	return
}

// Returns Epoch plus the embedded signed second offset, in UTC
func ModernTimestamp(id string) (timestamp time.Time, err error) {
	_, buf, err := decodeModern(id)
	if err != nil {
		return
	}

	timestamp = Epoch.Add(time.Duration(readOffset(buf)) * time.Second)
	return
}

// Returns the trailing sequence counter; present is false for ids that stop after the timestamp
func ModernSequence(id string) (sequence uint32, present bool, err error) {
	_, buf, err := decodeModern(id)
	if err != nil {
		return
	}

	if len(buf) < fullModernLen {
		return
	}

	sequence = binary.BigEndian.Uint32(buf[offSequence : offSequence+lenSequence])
	present = true
	return
}
