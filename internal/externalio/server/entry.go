// HTTP server exposing id decoding and the address probe to dashboards and scripts
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	mimeJSON    string = "application/json"
	mimeMsgpack string = "application/msgpack"

	requestIDHeader string = "X-Request-Id"
)

// Read in web static files at compile time
//
//go:embed static-files/help.html
var webFiles embed.FS

// Sets up HTTP server configuration for id queries
func SetupListener(ctx context.Context, settings Settings) (server *http.Server, err error) {
	if settings.Decode == nil || settings.Probe == nil || settings.Versions == nil {
		err = fmt.Errorf("query server requires decode, probe and versions handlers")
		return
	}
	if settings.MetricsPath == "" {
		settings.MetricsPath = global.DefaultMetricsPath
	}

	ctx = logctx.AppendCtxTag(ctx, global.NSServer)
	listenAddr := net.JoinHostPort(settings.Addr, strconv.Itoa(settings.Port))

	helpPage, err := webFiles.ReadFile("static-files/help.html")
	if err != nil {
		err = fmt.Errorf("failed reading help html page from internal fs: %v", err)
		return
	}

	// Replace variables in html with runtime values
	replacements := map[string]string{
		"@@LISTEN_ADDR@@":   listenAddr,
		"@@DECODE_PATH@@":   global.DecodePath,
		"@@PROBE_PATH@@":    global.ProbePath,
		"@@VERSIONS_PATH@@": global.VersionsPath,
		"@@STREAM_PATH@@":   global.StreamPath,
		"@@METRICS_PATH@@":  settings.MetricsPath,
		"@@VERSION@@":       global.ProgVersion,
	}
	for placeholder, value := range replacements {
		helpPage = bytes.ReplaceAll(helpPage, []byte(placeholder), []byte(value))
	}

	requestMultiplexer := http.NewServeMux()

	// Root help page
	requestMultiplexer.HandleFunc("/", getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.URL.Path != "/" {
			serverResponder.WriteHeader(http.StatusNotFound)
			return
		}

		serverResponder.Header().Set("Content-Type", "text/html; charset=utf-8")
		serverResponder.WriteHeader(http.StatusOK)
		serverResponder.Write(helpPage)
	}))

	requestMultiplexer.HandleFunc(global.DecodePath, getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleDecode(requestContext(ctx, serverResponder), settings, serverResponder, clientRequest)
	}))

	requestMultiplexer.HandleFunc(global.ProbePath, getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleProbe(requestContext(ctx, serverResponder), settings, serverResponder, clientRequest)
	}))

	requestMultiplexer.HandleFunc(global.VersionsPath, getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleVersions(requestContext(ctx, serverResponder), settings, serverResponder, clientRequest)
	}))

	requestMultiplexer.HandleFunc(global.StreamPath, getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleStream(requestContext(ctx, serverResponder), settings, serverResponder, clientRequest)
	}))

	if settings.Metrics != nil {
		metricsHandler := settings.Metrics.Handler()
		requestMultiplexer.HandleFunc(settings.MetricsPath, getOnly(metricsHandler.ServeHTTP))
	}

	// Server configuration
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      requestMultiplexer,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     log.New(httpLogWriter{ctx: ctx}, "", 0),
	}
	return
}

// Serves requests on listener until the server is shut down
func Start(ctx context.Context, server *http.Server, listener net.Listener) (err error) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Query server listening on %s (http://%s/)\n", listener.Addr(), listener.Addr())

	err = server.Serve(listener)
	if err == http.ErrServerClosed {
		err = nil
		return
	}
	if err != nil {
		err = fmt.Errorf("query server stopped: %v", err)
		return
	}
	return
}

// Rejects every method other than GET
func getOnly(handler http.HandlerFunc) (wrapped http.HandlerFunc) {
	wrapped = func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.Header().Set("Allow", http.MethodGet)
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(serverResponder, clientRequest)
	}
	return
}

// Tags the request context with a fresh request id, echoed back to the client
func requestContext(baseCtx context.Context, serverResponder http.ResponseWriter) (ctx context.Context) {
	requestID := uuid.NewString()
	serverResponder.Header().Set(requestIDHeader, requestID)
	ctx = logctx.AppendCtxTag(baseCtx, requestID)
	return
}

// True when the client asked for msgpack bodies
func wantsMsgpack(clientRequest *http.Request) bool {
	for _, accepted := range strings.Split(clientRequest.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(accepted), ";")
		if mediaType == mimeMsgpack {
			return true
		}
	}
	return false
}

// Encodes content as JSON or msgpack (per Accept header) and sends it with status
func respond(ctx context.Context, serverResponder http.ResponseWriter, clientRequest *http.Request, status int, content any) {
	var body []byte
	var err error
	contentType := mimeJSON

	if wantsMsgpack(clientRequest) {
		contentType = mimeMsgpack
		body, err = msgpack.Marshal(content)
	} else {
		buf := new(bytes.Buffer)
		err = json.NewEncoder(buf).Encode(content)
		body = buf.Bytes()
	}
	if err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling response: %v\n", err)
		return
	}

	serverResponder.Header().Set("Content-Type", contentType)
	serverResponder.WriteHeader(status)
	serverResponder.Write(body)
}

// Logs HTTP server errors to internal program buffer (via context logger)
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return
	}
	logctx.LogEvent(
		logWriter.ctx,
		global.VerbosityStandard,
		global.ErrorLog,
		"%s\n", strings.TrimSpace(string(p)),
	)
	return
}
