package daemon

import (
	"context"
	"msgidscope/internal/config"
	"msgidscope/internal/metrics"
	"msgidscope/internal/probe"
	"msgidscope/pkg/msgid"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
)

// Query daemon serving decode, probe and version lookups over HTTP
type Daemon struct {
	configPath  string // empty when running on defaults, reload then keeps the current config
	MinLogLevel int    // level requested on the command line, config files only raise it
	cfg         config.Config
	cfgMutex    sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	decoder atomic.Pointer[msgid.Decoder] // swapped whole on reload
	prober  *probe.Prober
	Metrics *metrics.Registry

	Server   *http.Server
	listener net.Listener

	shutdownOnce sync.Once
}
