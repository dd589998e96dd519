package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"msgidscope/internal/global"
	"msgidscope/internal/probe"
	"msgidscope/pkg/msgid"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Result of decoding one input id
type decodeRecord struct {
	ID             string        `json:"id" msgpack:"id"`
	Fields         *msgid.Fields `json:"fields,omitempty" msgpack:"fields,omitempty"`
	LocalInterface string        `json:"localInterface,omitempty" msgpack:"localInterface,omitempty"`
	Error          string        `json:"error,omitempty" msgpack:"error,omitempty"`
}

type versionRecord struct {
	Name   string       `json:"name" msgpack:"name"`
	Layout msgid.Layout `json:"layout" msgpack:"layout"`
}

// Structured formats get one document per call, text gets a human block per item
func writeStructured(out io.Writer, format string, content any) (err error) {
	switch format {
	case global.FormatMsgpack:
		err = msgpack.NewEncoder(out).Encode(content)
	default:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(content)
	}
	if err != nil {
		err = fmt.Errorf("failed writing %s output: %v", format, err)
	}
	return
}

func writeDecodeRecords(out io.Writer, format string, records []decodeRecord) (err error) {
	if format != global.FormatText {
		err = writeStructured(out, format, records)
		return
	}

	for index, record := range records {
		if index > 0 {
			fmt.Fprintln(out)
		}
		writeDecodeText(out, record)
	}
	return
}

func writeDecodeText(out io.Writer, record decodeRecord) {
	fmt.Fprintf(out, "id:        %s\n", record.ID)
	if record.Fields == nil {
		fmt.Fprintf(out, "error:     %s\n", record.Error)
		return
	}

	fields := record.Fields
	layout := fields.Layout.String()
	if fields.ProducerVersion != "" {
		layout += " (" + fields.ProducerVersion + ")"
	}
	fmt.Fprintf(out, "layout:    %s\n", layout)
	if fields.VersionTag != "" {
		fmt.Fprintf(out, "tag:       %s\n", fields.VersionTag)
	}

	address := fields.AddressText
	if record.LocalInterface != "" {
		address += " (local: " + record.LocalInterface + ")"
	}
	fmt.Fprintf(out, "address:   %s\n", address)
	fmt.Fprintf(out, "pid:       %d\n", fields.ProcessID)
	fmt.Fprintf(out, "time:      %s\n", fields.Timestamp.Format(time.RFC3339Nano))
	if fields.Sequence != nil {
		fmt.Fprintf(out, "sequence:  %d\n", *fields.Sequence)
	}
}

func writeProbeReport(out io.Writer, format string, report probe.Report) (err error) {
	if format != global.FormatText {
		err = writeStructured(out, format, report)
		return
	}

	for _, entry := range report.Entries {
		if entry.Synthetic {
			fmt.Fprintf(out, "%-16s %s (random, no hardware address found)\n", "-", entry.Address)
			continue
		}
		fmt.Fprintf(out, "%-16s %s\n", entry.Interface, entry.Address)
	}
	return
}

func writeVersions(out io.Writer, format string, versions []msgid.Version) (err error) {
	records := make([]versionRecord, 0, len(versions))
	for _, version := range versions {
		records = append(records, versionRecord{
			Name:   version.String(),
			Layout: msgid.Route(version.String()),
		})
	}

	if format != global.FormatText {
		err = writeStructured(out, format, records)
		return
	}

	for _, record := range records {
		fmt.Fprintf(out, "%-10s %s\n", record.Name, record.Layout)
	}
	return
}
