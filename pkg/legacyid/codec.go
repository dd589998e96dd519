// Package legacyid decodes identifiers produced by 4.x (remoting protocol) clients.
//
// Layout, big-endian:
//
//	ip (4 or 16 bytes) | pid (2) | class loader hash (4) | ms since month start (4) | counter (2)
//
// The send time is stored relative to the start of the producer's month, so
// reconstruction assumes the id was created within the last month.
package legacyid

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const (
	lenPid         int = 2
	lenLoaderHash  int = 4
	lenSpan        int = 4
	lenCounter     int = 2
	lenFixedFields int = lenPid + lenLoaderHash + lenSpan + lenCounter

	lenIPv4 int = 4
	lenIPv6 int = 16

	// Decoded lengths of complete ids
	LenIPv4ID int = lenIPv4 + lenFixedFields
	LenIPv6ID int = lenIPv6 + lenFixedFields
)

var (
	ErrMalformedHex = errors.New("legacy identifier contains non-hex characters")
	ErrTooShort     = errors.New("legacy identifier too short")
)

// Legacy identifier codec. The zero value uses the local time zone and the system clock.
type Codec struct {
	// Zone the producer computed its month start in
	Location *time.Location
	// Clock used to pick the month the id was created in
	Now func() time.Time
}

// Decoded fields of one identifier
type ID struct {
	Address    []byte
	ProcessID  int
	LoaderHash uint32
	Span       time.Duration // since the producer's month start
	Counter    uint16
}

func (codec Codec) location() (loc *time.Location) {
	loc = codec.Location
	if loc == nil {
		loc = time.Local
	}
	return
}

func (codec Codec) now() (now time.Time) {
	if codec.Now != nil {
		now = codec.Now()
	} else {
		now = time.Now()
	}
	now = now.In(codec.location())
	return
}

// Decodes every field; the address family follows the decoded length
func Parse(id string) (parsed ID, err error) {
	buf, err := hex.DecodeString(id)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedHex, err)
		return
	}

	ipLen := lenIPv4
	if len(buf) == LenIPv6ID {
		ipLen = lenIPv6
	}

	if len(buf) < ipLen+lenFixedFields {
		err = fmt.Errorf("%w: decoded %d bytes but need %d", ErrTooShort, len(buf), ipLen+lenFixedFields)
		return
	}

	parsed.Address = make([]byte, ipLen)
	copy(parsed.Address, buf[:ipLen])

	pos := ipLen
	parsed.ProcessID = int(binary.BigEndian.Uint16(buf[pos : pos+lenPid]))
	pos += lenPid

	parsed.LoaderHash = binary.BigEndian.Uint32(buf[pos : pos+lenLoaderHash])
	pos += lenLoaderHash

	parsed.Span = time.Duration(binary.BigEndian.Uint32(buf[pos:pos+lenSpan])) * time.Millisecond
	pos += lenSpan

	parsed.Counter = binary.BigEndian.Uint16(buf[pos : pos+lenCounter])
	return
}

// Producer IP address bytes (4 or 16)
func (codec Codec) Address(id string) (address []byte, err error) {
	parsed, err := Parse(id)
	if err != nil {
		return
	}
	address = parsed.Address
	return
}

func (codec Codec) ProcessID(id string) (pid int, err error) {
	parsed, err := Parse(id)
	if err != nil {
		return
	}
	pid = parsed.ProcessID
	return
}

// Per-process counter value
func (codec Codec) Counter(id string) (counter uint16, err error) {
	parsed, err := Parse(id)
	if err != nil {
		return
	}
	counter = parsed.Counter
	return
}

// Reconstructs the send time from the month-relative span.
// A span that would land at or after now belongs to the previous month.
func (codec Codec) ApproxTime(id string) (timestamp time.Time, err error) {
	parsed, err := Parse(id)
	if err != nil {
		return
	}

	now := codec.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if !monthStart.Add(parsed.Span).Before(now) {
		monthStart = monthStart.AddDate(0, -1, 0)
	}

	timestamp = monthStart.Add(parsed.Span)
	return
}
