package server

import (
	"context"
	"errors"
	"msgidscope/internal/probe"
	"msgidscope/pkg/msgid"
	"time"
)

var errMockDecode = errors.New("identifier contains non-hex characters")

// Decodes the fixed test vector, fails everything else
func mockDecoder() DecodeFunc {
	return func(id string, producerVersion string) (fields msgid.Fields, err error) {
		fields.ID = id
		fields.ProducerVersion = producerVersion
		fields.Layout = msgid.LayoutModern
		if id != "01FA03C86D77D4000005FB145600000000" {
			err = errMockDecode
			return
		}
		fields.AddressText = "FA03C86D77D4"
		fields.Address = []byte{0xFA, 0x03, 0xC8, 0x6D, 0x77, 0xD4}
		fields.Timestamp = time.Date(2024, time.March, 7, 8, 27, 2, 0, time.UTC)
		return
	}
}

func mockProber(report probe.Report, err error) ProbeFunc {
	return func(ctx context.Context) (probe.Report, error) {
		return report, err
	}
}

func mockVersions(names ...string) VersionsFunc {
	return func() (versions []msgid.Version) {
		for _, name := range names {
			version, _ := msgid.ParseVersion(name)
			versions = append(versions, version)
		}
		return
	}
}

func testSettings() Settings {
	return Settings{
		Addr:     "127.0.0.1",
		Port:     9876,
		Decode:   mockDecoder(),
		Probe:    mockProber(probe.Report{Entries: []probe.Entry{{Interface: "eth0", Address: "FA03C86D77D4"}}}, nil),
		Versions: mockVersions("V4_9_7", "V5_0_0"),
	}
}
