package server

import (
	"context"
	"msgidscope/internal/metrics"
	"msgidscope/internal/probe"
	"msgidscope/pkg/msgid"
)

type httpLogWriter struct {
	ctx context.Context
}

type Jerror struct {
	Msg string `json:"error" msgpack:"error"`
}

// Decodes one id; producerVersion may be global.VersionAuto
type DecodeFunc func(id string, producerVersion string) (fields msgid.Fields, err error)

type ProbeFunc func(ctx context.Context) (report probe.Report, err error)

type VersionsFunc func() []msgid.Version

// Dependencies and listen settings of the query server
type Settings struct {
	Addr          string
	Port          int
	Decode        DecodeFunc
	Probe         ProbeFunc
	Versions      VersionsFunc
	Metrics       *metrics.Registry // nil disables /metrics and instrumentation
	MetricsPath   string
	StreamOrigins []string
}

// One element of a batch decode response
type decodeResult struct {
	ID     string        `json:"id" msgpack:"id"`
	Fields *msgid.Fields `json:"fields,omitempty" msgpack:"fields,omitempty"`
	Error  string        `json:"error,omitempty" msgpack:"error,omitempty"`
}

type versionEntry struct {
	Name   string       `json:"name" msgpack:"name"`
	Layout msgid.Layout `json:"layout" msgpack:"layout"`
}
