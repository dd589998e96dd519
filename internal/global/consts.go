package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgName    string = "msgidscope"
	ProgVersion string = "v0.3.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath string = "/etc/msgidscope.json"

	// Output formats
	FormatText    string = "text"
	FormatJSON    string = "json"
	FormatMsgpack string = "msgpack"

	// Special producer version requesting layout inference from the id itself
	VersionAuto string = "auto"

	// Query HTTP server
	DecodePath          string        = "/decode"
	ProbePath           string        = "/probe"
	VersionsPath        string        = "/versions"
	StreamPath          string        = "/stream"
	DefaultServerPort   int           = 9876
	DefaultServerAddr   string        = "localhost" // Queries only exposed to local machine unless configured
	DefaultMetricsPath  string        = "/metrics"
	HTTPReadTimeout     time.Duration = 10 * time.Second
	HTTPWriteTimeout    time.Duration = 10 * time.Second
	HTTPIdleTimeout     time.Duration = 120 * time.Second
	MaxDecodeBatch      int           = 256 // ids per request
	MaxRequestBodyBytes int64         = 1 << 20

	// Timeout values
	ServerShutdownTimeout time.Duration = 10 * time.Second

	// Namespacing Name Components
	NSCLI     string = "CLI"
	NSServer  string = "Server"
	NSDecode  string = "Decode"
	NSProbe   string = "Probe"
	NSStream  string = "Stream"
	NSMetric  string = "Metrics"
	NSConfig  string = "Config"
	NSDaemon  string = "Daemon"
	NSTest    string = "Test"
)
