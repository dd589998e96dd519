package server

import (
	"context"
	"fmt"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"msgidscope/pkg/msgid"
	"net/http"
	"strings"
	"time"
)

// Handles single and batch decode requests.
// A single id answers with its fields (or 400), several ids answer with per-id results.
func handleDecode(ctx context.Context, settings Settings, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	ctx = logctx.AppendCtxTag(ctx, global.NSDecode)
	query := clientRequest.URL.Query()

	var ids []string
	for _, param := range query["id"] {
		for _, id := range strings.Split(param, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				ids = append(ids, id)
			}
		}
	}

	producerVersion := strings.TrimSpace(query.Get("version"))
	if producerVersion == "" {
		producerVersion = global.VersionAuto
	}

	if len(ids) == 0 {
		respond(ctx, serverResponder, clientRequest, http.StatusBadRequest, Jerror{Msg: "missing id parameter"})
		return
	}
	if len(ids) > global.MaxDecodeBatch {
		respond(ctx, serverResponder, clientRequest, http.StatusBadRequest,
			Jerror{Msg: fmt.Sprintf("too many ids in one request (%d, maximum %d)", len(ids), global.MaxDecodeBatch)})
		return
	}

	if len(ids) == 1 {
		fields, err := decodeTimed(ctx, settings, ids[0], producerVersion)
		if err != nil {
			respond(ctx, serverResponder, clientRequest, http.StatusBadRequest, Jerror{Msg: err.Error()})
			return
		}
		respond(ctx, serverResponder, clientRequest, http.StatusOK, fields)
		return
	}

	results := make([]decodeResult, 0, len(ids))
	for _, id := range ids {
		result := decodeResult{ID: id}

		fields, err := decodeTimed(ctx, settings, id, producerVersion)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Fields = &fields
		}
		results = append(results, result)
	}
	respond(ctx, serverResponder, clientRequest, http.StatusOK, results)
}

// Decodes one id, recording duration and outcome
func decodeTimed(ctx context.Context, settings Settings, id string, producerVersion string) (fields msgid.Fields, err error) {
	start := time.Now()
	fields, err = settings.Decode(id, producerVersion)
	settings.Metrics.ObserveDecode(fields.Layout.String(), err, time.Since(start))

	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"failed decoding id %q (version %s): %v\n", id, producerVersion, err)
		return
	}

	logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
		"decoded id %s: address=%s pid=%d time=%s\n", id, fields.AddressText, fields.ProcessID, fields.Timestamp.Format(time.RFC3339))
	return
}
