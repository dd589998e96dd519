package lifecycle

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Listens on a temporary notify socket and returns a reader for received messages
func fakeNotifySocket(t *testing.T) (receive func() string) {
	t.Helper()

	sockPath := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: sockPath, Net: "unixgram"})
	if err != nil {
		t.Fatalf("failed to listen on notify socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	t.Setenv(EnvNameNotifySocket, sockPath)

	receive = func() string {
		buf := make([]byte, 512)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := conn.Read(buf)
		if err != nil {
			t.Fatalf("no notify message received: %v", err)
		}
		return string(buf[:n])
	}
	return
}

func TestNotifyMessages(t *testing.T) {
	receive := fakeNotifySocket(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		send   func() error
		expect string
	}{
		{"ready", func() error { return NotifyReady(ctx) }, "READY=1"},
		{"stopping", func() error { return NotifyStopping(ctx) }, "STOPPING=1"},
		{"status", func() error { return NotifyStatus(ctx, "serving") }, "STATUS=serving"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.send(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := receive(); got != tt.expect {
				t.Errorf("got %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestNotifyReload(t *testing.T) {
	receive := fakeNotifySocket(t)

	if err := NotifyReload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := receive()
	if !strings.HasPrefix(got, "RELOADING=1\nMONOTONIC_USEC=") {
		t.Errorf("unexpected reload message %q", got)
	}
}

func TestNotifyWithoutSystemd(t *testing.T) {
	t.Setenv(EnvNameNotifySocket, "")

	if err := NotifyReady(context.Background()); err != nil {
		t.Errorf("expected no-op without NOTIFY_SOCKET, got %v", err)
	}
}

func TestNotifyUnreachableSocket(t *testing.T) {
	t.Setenv(EnvNameNotifySocket, filepath.Join(t.TempDir(), "absent.sock"))

	if err := NotifyReady(context.Background()); err == nil {
		t.Errorf("expected error for missing socket")
	}
}
