package server

import (
	"context"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"msgidscope/pkg/msgid"
	"net/http"
)

func handleProbe(ctx context.Context, settings Settings, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	report, err := settings.Probe(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "address probe failed: %v\n", err)
		respond(ctx, serverResponder, clientRequest, http.StatusInternalServerError, Jerror{Msg: err.Error()})
		return
	}

	settings.Metrics.ObserveProbe(report.Synthetic())
	respond(ctx, serverResponder, clientRequest, http.StatusOK, report)
}

// Lists known protocol versions with the layout each routes to
func handleVersions(ctx context.Context, settings Settings, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	versions := settings.Versions()

	entries := make([]versionEntry, 0, len(versions))
	for _, version := range versions {
		entries = append(entries, versionEntry{
			Name:   version.String(),
			Layout: msgid.Route(version.String()),
		})
	}
	respond(ctx, serverResponder, clientRequest, http.StatusOK, entries)
}
