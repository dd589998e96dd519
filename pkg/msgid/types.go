package msgid

import (
	"fmt"
	"time"
)

// Binary layout an identifier was encoded with
type Layout uint8

const (
	LayoutLegacy Layout = iota // pre-5.0 producers
	LayoutModern               // 5.0 and later producers
)

func (layout Layout) String() (name string) {
	switch layout {
	case LayoutLegacy:
		name = "legacy"
	case LayoutModern:
		name = "modern"
	default:
		name = fmt.Sprintf("layout(%d)", uint8(layout))
	}
	return
}

func (layout Layout) MarshalText() (text []byte, err error) {
	text = []byte(layout.String())
	return
}

func (layout *Layout) UnmarshalText(text []byte) (err error) {
	switch string(text) {
	case "legacy":
		*layout = LayoutLegacy
	case "modern":
		*layout = LayoutModern
	default:
		err = fmt.Errorf("unknown layout %q", string(text))
	}
	return
}

// Pre-decoded fixed-width identifier
type ModernID struct {
	VersionTag  string // empty when the id was supplied without its tag
	Address     []byte
	ProcessID   int
	Offset      int32 // seconds since Epoch
	Sequence    uint32
	HasSequence bool
}

// Send time reconstructed from the epoch offset
func (id ModernID) Timestamp() time.Time {
	return Epoch.Add(time.Duration(id.Offset) * time.Second)
}

// Everything recoverable from one identifier
type Fields struct {
	ID              string    `json:"id" msgpack:"id"`
	ProducerVersion string    `json:"producerVersion" msgpack:"producerVersion"`
	Layout          Layout    `json:"layout" msgpack:"layout"`
	VersionTag      string    `json:"versionTag,omitempty" msgpack:"versionTag,omitempty"`
	Address         []byte    `json:"-" msgpack:"addressBytes"`
	AddressText     string    `json:"address" msgpack:"address"`
	ProcessID       int       `json:"pid" msgpack:"pid"`
	Timestamp       time.Time `json:"timestamp" msgpack:"timestamp"`
	Sequence        *uint32   `json:"sequence,omitempty" msgpack:"sequence,omitempty"`
}
