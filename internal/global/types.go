package global

type CommandSet struct {
	CommandName     string                 // Exact name of cli command
	UsageOption     string                 // Expected command value in usage top line
	Description     string                 // Short text displayed on parent command
	FullDescription string                 // Long text displayed on current command
	ChildCommands   map[string]*CommandSet // Available subcommands
	Notes           []string               // Extra lines printed after the options
}

type CtxKey string

// Query daemon configuration file layout

type JSONConfig struct {
	Server  ServerConf  `json:"server" yaml:"server"`
	Legacy  LegacyConf  `json:"legacy" yaml:"legacy"`
	Metrics MetricConf  `json:"metrics" yaml:"metrics"`
	Output  OutputConf  `json:"output" yaml:"output"`
	Logging LoggingConf `json:"logging" yaml:"logging"`
}

type ServerConf struct {
	Address   string `json:"address" yaml:"address"`
	Port      int    `json:"port" yaml:"port"`
	ReusePort bool   `json:"reusePort" yaml:"reusePort"`

	// Origins allowed to open a websocket decode stream, empty allows same-origin only
	StreamOrigins []string `json:"streamOrigins,omitempty" yaml:"streamOrigins,omitempty"`
}

type LegacyConf struct {
	TimeZone string `json:"timeZone" yaml:"timeZone"` // IANA zone name the legacy producers ran in
}

type MetricConf struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

type OutputConf struct {
	Format string `json:"format" yaml:"format"`
}

type LoggingConf struct {
	Level int `json:"logLevel" yaml:"logLevel"`
}
