// Daemon lifecycle: systemd notifications and signal driven reload/shutdown
package lifecycle

import (
	"context"
	"fmt"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// Sends RELOADING=1 with the monotonic timestamp systemd requires alongside it
func NotifyReload(ctx context.Context) (err error) {
	var ts unix.Timespec
	err = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	if err != nil {
		err = fmt.Errorf("failed reading monotonic clock: %v", err)
		return
	}

	usec := ts.Sec*1_000_000 + int64(ts.Nsec)/1_000

	err = notify(ctx, fmt.Sprintf("%s\nMONOTONIC_USEC=%d", msgReloading, usec))
	return
}

// Sends READY=1 to systemd to indicate startup (or reload) complete
func NotifyReady(ctx context.Context) (err error) {
	err = notify(ctx, msgReady)
	return
}

// Sends STOPPING=1 to systemd before shutdown begins
func NotifyStopping(ctx context.Context) (err error) {
	err = notify(ctx, msgStopping)
	return
}

// Sends custom status message to systemd for context
func NotifyStatus(ctx context.Context, msg string) (err error) {
	err = notify(ctx, prefixStatus+msg)
	return
}

// Sends a raw sd_notify message.
// If NOTIFY_SOCKET is unset, this is a no-op and returns nil.
func notify(ctx context.Context, msg string) (err error) {
	sockPath := os.Getenv(EnvNameNotifySocket)
	if sockPath == "" {
		// Not running under systemd
		return
	}

	// Abstract namespace sockets are announced with a leading '@'
	if sockPath[0] == '@' {
		sockPath = "\x00" + sockPath[1:]
	}

	addr := &net.UnixAddr{
		Name: sockPath,
		Net:  "unixgram",
	}

	conn, err := net.DialUnix("unixgram", nil, addr)
	if err != nil {
		err = fmt.Errorf("notify dial failed: %v", err)
		return
	}
	defer conn.Close()

	_, err = conn.Write([]byte(msg))
	if err != nil {
		err = fmt.Errorf("notify write failed: %v", err)
		return
	}

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog, "Successfully notified systemd with message '%s'\n", msg)
	return
}
