package server

import (
	"context"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Builds the upgrader for stream sessions.
// Without configured origins only same-host (or origin-less) clients are accepted.
func newUpgrader(allowedOrigins []string) (upgrader websocket.Upgrader) {
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(clientRequest *http.Request) bool {
			origin := clientRequest.Header.Get("Origin")
			if origin == "" {
				return true
			}

			if len(allowedOrigins) == 0 {
				parsed, err := url.Parse(origin)
				return err == nil && strings.EqualFold(parsed.Host, clientRequest.Host)
			}

			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
	return
}

// Long lived decode session for dashboards.
// Each text frame holds one id per line, optionally followed by a space and the producer version.
// Every id is answered with its own JSON frame.
func handleStream(ctx context.Context, settings Settings, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	ctx = logctx.AppendCtxTag(ctx, global.NSStream)

	upgrader := newUpgrader(settings.StreamOrigins)
	conn, err := upgrader.Upgrade(serverResponder, clientRequest, nil)
	if err != nil {
		// Upgrade already replied to the client
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog, "stream upgrade failed: %v\n", err)
		return
	}
	defer conn.Close()

	settings.Metrics.AddStreamSessions(1)
	defer settings.Metrics.AddStreamSessions(-1)

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog, "stream session opened from %s\n", clientRequest.RemoteAddr)

	conn.SetReadLimit(global.MaxRequestBodyBytes)
	for {
		conn.SetReadDeadline(time.Now().Add(global.HTTPIdleTimeout))

		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog, "stream session ended: %v\n", err)
			} else {
				logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog, "stream session closed\n")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		for _, line := range strings.Split(string(payload), "\n") {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}

			id := fields[0]
			producerVersion := global.VersionAuto
			if len(fields) > 1 {
				producerVersion = fields[1]
			}

			result := decodeResult{ID: id}
			decoded, err := decodeTimed(ctx, settings, id, producerVersion)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Fields = &decoded
			}

			conn.SetWriteDeadline(time.Now().Add(global.HTTPWriteTimeout))
			err = conn.WriteJSON(result)
			if err != nil {
				logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog, "stream write failed: %v\n", err)
				return
			}
		}
	}
}
