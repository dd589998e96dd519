package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"msgidscope/internal/global"
	"msgidscope/internal/metrics"
	"msgidscope/internal/probe"
	"msgidscope/pkg/msgid"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func newTestServer(t *testing.T, settings Settings) *httptest.Server {
	t.Helper()
	server, err := SetupListener(context.Background(), settings)
	if err != nil {
		t.Fatalf("SetupListener error: %v", err)
	}
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestSetupListenerRouting(t *testing.T) {
	settings := testSettings()
	settings.Metrics = metrics.New()
	ts := newTestServer(t, settings)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"help page", http.MethodGet, "/", http.StatusOK, global.DecodePath},
		{"help page POST rejected", http.MethodPost, "/", http.StatusMethodNotAllowed, ""},
		{"decode wrong method", http.MethodPost, global.DecodePath, http.StatusMethodNotAllowed, ""},
		{"probe wrong method", http.MethodDelete, global.ProbePath, http.StatusMethodNotAllowed, ""},
		{"versions wrong method", http.MethodPut, global.VersionsPath, http.StatusMethodNotAllowed, ""},
		{"unknown path", http.MethodGet, "/unknown", http.StatusNotFound, ""},
		{"metrics exposed", http.MethodGet, global.DefaultMetricsPath, http.StatusOK, "msgidscope_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("http request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status=%d want=%d", resp.StatusCode, tt.wantStatus)
			}
			body, _ := io.ReadAll(resp.Body)
			if tt.wantBody != "" && !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body missing %q", tt.wantBody)
			}
			if strings.Contains(string(body), "@@") {
				t.Errorf("unreplaced placeholder in body")
			}
		})
	}
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, testSettings())

	resp, err := http.Get(ts.URL + global.DefaultMetricsPath)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status=%d want=%d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestSetupListenerMissingHandlers(t *testing.T) {
	_, err := SetupListener(context.Background(), Settings{Port: 1})
	if err == nil {
		t.Fatalf("expected error without handlers")
	}
}

func TestDecodeEndpoint(t *testing.T) {
	ts := newTestServer(t, testSettings())

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantAddress string
		wantError   string
		wantBatch   int
	}{
		{
			name:        "single id",
			query:       "?id=01FA03C86D77D4000005FB145600000000&version=V5_1_0",
			wantStatus:  http.StatusOK,
			wantAddress: "FA03C86D77D4",
		},
		{
			name:       "malformed id",
			query:      "?id=G1FA03&version=V5_1_0",
			wantStatus: http.StatusBadRequest,
			wantError:  "non-hex",
		},
		{
			name:       "missing id",
			query:      "?version=V5_1_0",
			wantStatus: http.StatusBadRequest,
			wantError:  "missing id",
		},
		{
			name:       "batch",
			query:      "?id=01FA03C86D77D4000005FB145600000000,G1&id=zz",
			wantStatus: http.StatusOK,
			wantBatch:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + global.DecodePath + tt.query)
			if err != nil {
				t.Fatalf("http request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status=%d want=%d", resp.StatusCode, tt.wantStatus)
			}
			if ct := resp.Header.Get("Content-Type"); ct != mimeJSON {
				t.Errorf("content type %q", ct)
			}
			if resp.Header.Get(requestIDHeader) == "" {
				t.Errorf("missing %s header", requestIDHeader)
			}

			body, _ := io.ReadAll(resp.Body)
			switch {
			case tt.wantError != "":
				var jerr Jerror
				if err := json.Unmarshal(body, &jerr); err != nil {
					t.Fatalf("invalid error body %q: %v", body, err)
				}
				if !strings.Contains(jerr.Msg, tt.wantError) {
					t.Errorf("error %q missing %q", jerr.Msg, tt.wantError)
				}
			case tt.wantBatch > 0:
				var results []decodeResult
				if err := json.Unmarshal(body, &results); err != nil {
					t.Fatalf("invalid batch body %q: %v", body, err)
				}
				if len(results) != tt.wantBatch {
					t.Fatalf("got %d results, want %d", len(results), tt.wantBatch)
				}
				if results[0].Fields == nil || results[0].Error != "" {
					t.Errorf("first result should succeed: %+v", results[0])
				}
				if results[1].Fields != nil || results[1].Error == "" {
					t.Errorf("second result should fail: %+v", results[1])
				}
			default:
				var decoded map[string]any
				if err := json.Unmarshal(body, &decoded); err != nil {
					t.Fatalf("invalid body %q: %v", body, err)
				}
				if decoded["address"] != tt.wantAddress {
					t.Errorf("address=%v want=%s", decoded["address"], tt.wantAddress)
				}
				if decoded["layout"] != "modern" {
					t.Errorf("layout=%v want=modern", decoded["layout"])
				}
				if decoded["timestamp"] != "2024-03-07T08:27:02Z" {
					t.Errorf("timestamp=%v", decoded["timestamp"])
				}
			}
		})
	}
}

func TestDecodeDefaultsToAuto(t *testing.T) {
	var seenVersion string
	settings := testSettings()
	settings.Decode = func(id string, producerVersion string) (msgid.Fields, error) {
		seenVersion = producerVersion
		return msgid.Fields{ID: id}, nil
	}
	ts := newTestServer(t, settings)

	resp, err := http.Get(ts.URL + global.DecodePath + "?id=01")
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	resp.Body.Close()

	if seenVersion != global.VersionAuto {
		t.Errorf("version=%q want=%q", seenVersion, global.VersionAuto)
	}
}

func TestDecodeBatchLimit(t *testing.T) {
	ts := newTestServer(t, testSettings())

	ids := make([]string, global.MaxDecodeBatch+1)
	for i := range ids {
		ids[i] = "01FA03C86D77D4000005FB145600000000"
	}

	resp, err := http.Get(ts.URL + global.DecodePath + "?id=" + strings.Join(ids, ","))
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status=%d want=%d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestDecodeMsgpack(t *testing.T) {
	ts := newTestServer(t, testSettings())

	req, _ := http.NewRequest(http.MethodGet, ts.URL+global.DecodePath+"?id=01FA03C86D77D4000005FB145600000000&version=V5_1_0", nil)
	req.Header.Set("Accept", "application/msgpack;q=1.0, application/json;q=0.5")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != mimeMsgpack {
		t.Fatalf("content type %q want %q", ct, mimeMsgpack)
	}

	body, _ := io.ReadAll(resp.Body)
	var fields msgid.Fields
	if err := msgpack.Unmarshal(body, &fields); err != nil {
		t.Fatalf("invalid msgpack body: %v", err)
	}
	if fields.AddressText != "FA03C86D77D4" || len(fields.Address) != 6 {
		t.Errorf("decoded %+v", fields)
	}
	if fields.Layout != msgid.LayoutModern {
		t.Errorf("layout %s", fields.Layout)
	}
}

func TestHardwareAddressEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		prober     ProbeFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:       "interfaces",
			prober:     mockProber(probe.Report{Entries: []probe.Entry{{Interface: "eth0", Address: "FA03C86D77D4"}}}, nil),
			wantStatus: http.StatusOK,
			wantBody:   `"interface":"eth0"`,
		},
		{
			name:       "random stand-in",
			prober:     mockProber(probe.Report{Entries: []probe.Entry{{Address: "DEADBEEF0001", Synthetic: true}}}, nil),
			wantStatus: http.StatusOK,
			wantBody:   `"synthetic":true`,
		},
		{
			name:       "failure",
			prober:     mockProber(probe.Report{}, errors.New("entropy unavailable")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "entropy unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			settings.Probe = tt.prober
			ts := newTestServer(t, settings)

			resp, err := http.Get(ts.URL + global.ProbePath)
			if err != nil {
				t.Fatalf("http request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status=%d want=%d", resp.StatusCode, tt.wantStatus)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body %q missing %q", body, tt.wantBody)
			}
		})
	}
}

func TestVersionsEndpoint(t *testing.T) {
	ts := newTestServer(t, testSettings())

	resp, err := http.Get(ts.URL + global.VersionsPath)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	var entries []versionEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("invalid body: %v", err)
	}

	expected := []versionEntry{
		{Name: "V4_9_7", Layout: msgid.LayoutLegacy},
		{Name: "V5_0_0", Layout: msgid.LayoutModern},
	}
	if len(entries) != len(expected) {
		t.Fatalf("got %d entries, want %d", len(entries), len(expected))
	}
	for i := range expected {
		if entries[i] != expected[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], expected[i])
		}
	}
}
