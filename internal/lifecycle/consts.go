package lifecycle

const (
	EnvNameNotifySocket string = "NOTIFY_SOCKET"

	// sd_notify state messages
	msgReady     string = "READY=1"
	msgStopping  string = "STOPPING=1"
	msgReloading string = "RELOADING=1"
	prefixStatus string = "STATUS="
)
