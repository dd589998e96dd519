package msgid

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"time"
)

// Routes identifiers to the modern parser or the legacy codec by producer version.
// Holds no mutable state; safe for concurrent use when the legacy codec is.
type Decoder struct {
	legacy LegacyCodec
}

func NewDecoder(legacy LegacyCodec) (decoder *Decoder) {
	decoder = &Decoder{legacy: legacy}
	return
}

// Errors returned by the legacy codec are passed through untouched
func (decoder *Decoder) legacyCodec() (codec LegacyCodec, err error) {
	if decoder.legacy == nil {
		err = fmt.Errorf("no legacy codec configured")
		return
	}
	codec = decoder.legacy
	return
}

// Producer address bytes: 6-byte MAC-style value (modern) or IP address (legacy)
func (decoder *Decoder) AddressFromID(id string, producerVersion string) (address []byte, err error) {
	if Route(producerVersion) == LayoutModern {
		address, err = ModernAddress(id)
		return
	}

	codec, err := decoder.legacyCodec()
	if err != nil {
		return
	}
	address, err = codec.Address(id)
	return
}

// Printable producer address: uppercase hex for modern ids, IP text for legacy ids
func (decoder *Decoder) AddressStrFromID(id string, producerVersion string) (address string, err error) {
	raw, err := decoder.AddressFromID(id, producerVersion)
	if err != nil {
		return
	}

	if Route(producerVersion) == LayoutModern {
		address = FormatAddress(raw)
	} else {
		address = formatLegacyAddress(raw)
	}
	return
}

func (decoder *Decoder) ProcessIDFromID(id string, producerVersion string) (pid int, err error) {
	if Route(producerVersion) == LayoutModern {
		pid, err = ModernProcessID(id)
		return
	}

	codec, err := decoder.legacyCodec()
	if err != nil {
		return
	}
	pid, err = codec.ProcessID(id)
	return
}

// Approximate send time: exact to the second for modern ids, reconstructed for legacy ids
func (decoder *Decoder) NearlyTimeFromID(id string, producerVersion string) (timestamp time.Time, err error) {
	if Route(producerVersion) == LayoutModern {
		timestamp, err = ModernTimestamp(id)
		return
	}

	codec, err := decoder.legacyCodec()
	if err != nil {
		return
	}
	timestamp, err = codec.ApproxTime(id)
	return
}

// Decodes all facts of one identifier
func (decoder *Decoder) Decode(id string, producerVersion string) (fields Fields, err error) {
	fields, err = decoder.DecodeLayout(id, Route(producerVersion))
	fields.ProducerVersion = producerVersion
	return
}

// Decodes an identifier whose producer version is unknown, guessing the layout from its length
func (decoder *Decoder) DecodeAuto(id string) (fields Fields, err error) {
	fields, err = decoder.DecodeLayout(id, InferLayout(id))
	return
}

// Decodes all facts of one identifier with an explicit layout
func (decoder *Decoder) DecodeLayout(id string, layout Layout) (fields Fields, err error) {
	fields.ID = id
	fields.Layout = layout

	if layout == LayoutModern {
		var parsed ModernID
		parsed, err = ParseModern(id)
		if err != nil {
			return
		}

		fields.VersionTag = parsed.VersionTag
		fields.Address = parsed.Address
		fields.AddressText = FormatAddress(parsed.Address)
		fields.ProcessID = parsed.ProcessID
		fields.Timestamp = parsed.Timestamp()
		if parsed.HasSequence {
			sequence := parsed.Sequence
			fields.Sequence = &sequence
		}
		return
	}

	codec, err := decoder.legacyCodec()
	if err != nil {
		return
	}

	fields.Address, err = codec.Address(id)
	if err != nil {
		return
	}
	fields.AddressText = formatLegacyAddress(fields.Address)

	fields.ProcessID, err = codec.ProcessID(id)
	if err != nil {
		return
	}

	fields.Timestamp, err = codec.ApproxTime(id)
	if err != nil {
		return
	}
	return
}

// Uppercase hex rendering of raw address bytes
func FormatAddress(address []byte) (text string) {
	text = strings.ToUpper(hex.EncodeToString(address))
	return
}

// Legacy ids embed an IPv4 or IPv6 address; anything else falls back to hex
func formatLegacyAddress(address []byte) (text string) {
	if len(address) == net.IPv4len || len(address) == net.IPv6len {
		text = net.IP(address).String()
		return
	}
	text = FormatAddress(address)
	return
}
