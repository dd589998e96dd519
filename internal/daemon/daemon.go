// Long running query daemon wrapping the id decoder in an HTTP server
package daemon

import (
	"context"
	"fmt"
	"msgidscope/internal/config"
	"msgidscope/internal/externalio/server"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"msgidscope/internal/metrics"
	"msgidscope/internal/network"
	"msgidscope/internal/probe"
	"msgidscope/pkg/legacyid"
	"msgidscope/pkg/msgid"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Create new query daemon instance.
// configPath is re-read on Reload, leave empty when cfg did not come from a file.
func NewDaemon(cfg config.Config, configPath string) (new *Daemon) {
	ctx, cancel := context.WithCancel(context.Background())
	new = &Daemon{
		configPath: configPath,
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		prober:     probe.NewProber(),
	}
	new.decoder.Store(NewDecoder(cfg.Location))
	return
}

// Decoder with the legacy codec reconstructing times in loc
func NewDecoder(loc *time.Location) (decoder *msgid.Decoder) {
	decoder = msgid.NewDecoder(legacyid.Codec{Location: loc})
	return
}

// Decodes id routing by producerVersion, or by id length for global.VersionAuto
func Decode(decoder *msgid.Decoder, id string, producerVersion string) (fields msgid.Fields, err error) {
	if producerVersion == "" || strings.EqualFold(producerVersion, global.VersionAuto) {
		fields, err = decoder.DecodeAuto(id)
		return
	}
	fields, err = decoder.Decode(id, producerVersion)
	return
}

// Binds the listener and starts serving in the background
func (daemon *Daemon) Start(globalCtx context.Context) (err error) {
	// New context for the daemon
	daemon.ctx, daemon.cancel = context.WithCancel(context.Background())
	daemon.ctx = logctx.WithLogger(daemon.ctx, logctx.GetLogger(globalCtx))

	// Top level tag for daemon logs
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.NSDaemon)

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	daemon.cfgMutex.Lock()
	daemon.cfg.SetDefaults()
	cfg := daemon.cfg
	daemon.cfgMutex.Unlock()

	logctx.SetLogLevel(daemon.ctx, daemon.logLevel(cfg.LogLevel))

	if daemon.decoder.Load() == nil {
		daemon.decoder.Store(NewDecoder(cfg.Location))
	}

	if cfg.MetricsEnabled {
		daemon.Metrics = metrics.New()
		logctx.LogEvent(logctx.AppendCtxTag(daemon.ctx, global.NSMetric), global.VerbosityProgress, global.InfoLog,
			"Prometheus metrics enabled at %s\n", cfg.MetricsPath)
	}

	settings := server.Settings{
		Addr:          cfg.ListenAddr,
		Port:          cfg.ListenPort,
		Decode:        daemon.decode,
		Probe:         daemon.probe,
		Versions:      msgid.KnownVersions,
		Metrics:       daemon.Metrics,
		MetricsPath:   cfg.MetricsPath,
		StreamOrigins: cfg.StreamOrigins,
	}

	daemon.Server, err = server.SetupListener(daemon.ctx, settings)
	if err != nil {
		err = fmt.Errorf("failed configuring query server: %v", err)
		return
	}

	listenAddr := net.JoinHostPort(cfg.ListenAddr, strconv.Itoa(cfg.ListenPort))
	daemon.listener, err = network.ListenTCP(daemon.ctx, listenAddr, cfg.ReusePort)
	if err != nil {
		return
	}

	serverCtx := logctx.AppendCtxTag(daemon.ctx, global.NSServer)
	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()

		err := server.Start(serverCtx, daemon.Server, daemon.listener)
		if err != nil {
			logctx.LogEvent(serverCtx, global.VerbosityStandard, global.ErrorLog, "%v\n", err)
			daemon.cancel()
		}
	}()

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Startup complete.\n")
	return
}

// Address the daemon is listening on, nil before Start
func (daemon *Daemon) Addr() (addr net.Addr) {
	if daemon.listener == nil {
		return
	}
	addr = daemon.listener.Addr()
	return
}

// Blocking daemon waiter
func (daemon *Daemon) Run() {
	<-daemon.ctx.Done()
	daemon.wg.Wait()
}

// Re-reads the config file and applies settings that do not need a new listener.
// An invalid file leaves the running configuration untouched.
func (daemon *Daemon) Reload(ctx context.Context) (err error) {
	daemon.cfgMutex.Lock()
	defer daemon.cfgMutex.Unlock()

	logCtx := logctx.AppendCtxTag(daemon.ctx, global.NSConfig)

	if daemon.configPath == "" {
		logctx.LogEvent(logCtx, global.VerbosityStandard, global.InfoLog,
			"No configuration file in use, nothing to reload\n")
		return
	}

	fileCfg, err := config.LoadConfig(daemon.configPath)
	if err != nil {
		return
	}
	newCfg, err := config.NewServeConf(fileCfg)
	if err != nil {
		return
	}

	if newCfg.ListenAddr != daemon.cfg.ListenAddr || newCfg.ListenPort != daemon.cfg.ListenPort ||
		newCfg.ReusePort != daemon.cfg.ReusePort || newCfg.MetricsEnabled != daemon.cfg.MetricsEnabled ||
		newCfg.MetricsPath != daemon.cfg.MetricsPath {
		logctx.LogEvent(logCtx, global.VerbosityStandard, global.WarnLog,
			"Listener and metrics settings changed, a restart is required to apply them\n")
	}

	if newCfg.Location.String() != daemon.cfg.Location.String() {
		daemon.decoder.Store(NewDecoder(newCfg.Location))
		logctx.LogEvent(logCtx, global.VerbosityStandard, global.InfoLog,
			"Legacy time zone changed from %s to %s\n", daemon.cfg.Location, newCfg.Location)
	}

	if daemon.logLevel(newCfg.LogLevel) != daemon.logLevel(daemon.cfg.LogLevel) {
		logctx.SetLogLevel(daemon.ctx, daemon.logLevel(newCfg.LogLevel))
	}

	// Listener settings stay with the running server
	newCfg.ListenAddr = daemon.cfg.ListenAddr
	newCfg.ListenPort = daemon.cfg.ListenPort
	newCfg.ReusePort = daemon.cfg.ReusePort
	newCfg.MetricsEnabled = daemon.cfg.MetricsEnabled
	newCfg.MetricsPath = daemon.cfg.MetricsPath
	newCfg.StreamOrigins = daemon.cfg.StreamOrigins
	daemon.cfg = newCfg
	return
}

// Gracefully stops the query server, bounded by global.ServerShutdownTimeout
func (daemon *Daemon) Shutdown() {
	daemon.shutdownOnce.Do(func() {
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
			"Daemon shutdown started...\n")

		if daemon.Server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), global.ServerShutdownTimeout)
			err := daemon.Server.Shutdown(shutdownCtx)
			cancel()
			if err != nil && err != http.ErrServerClosed {
				logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
					"query HTTP server did not shutdown gracefully: %v\n", err)
			}
		}

		// Stop the run loop after the server has drained
		daemon.cancel()

		done := make(chan struct{})
		go func() {
			daemon.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
				"Daemon shutdown completed successfully\n")
		case <-time.After(global.ServerShutdownTimeout):
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"Timeout: query daemon did not shutdown within %v seconds\n",
				global.ServerShutdownTimeout.Seconds())
		}
	})
}

// Config log level, never below the command line request
func (daemon *Daemon) logLevel(configLevel int) (level int) {
	level = max(configLevel, daemon.MinLogLevel)
	return
}

func (daemon *Daemon) decode(id string, producerVersion string) (fields msgid.Fields, err error) {
	fields, err = Decode(daemon.decoder.Load(), id, producerVersion)
	return
}

func (daemon *Daemon) probe(ctx context.Context) (report probe.Report, err error) {
	report, err = daemon.prober.Run(ctx)
	return
}
