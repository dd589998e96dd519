package network

import (
	"context"
	"testing"
)

func TestListenTCPReusePort(t *testing.T) {
	first, err := ListenTCP(context.Background(), "127.0.0.1:0", true)
	if err != nil {
		t.Fatalf("first listener: unexpected error: %v", err)
	}
	defer first.Close()

	second, err := ListenTCP(context.Background(), first.Addr().String(), true)
	if err != nil {
		t.Fatalf("second listener on shared port: unexpected error: %v", err)
	}
	second.Close()
}

func TestListenTCPExclusive(t *testing.T) {
	first, err := ListenTCP(context.Background(), "127.0.0.1:0", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer first.Close()

	second, err := ListenTCP(context.Background(), first.Addr().String(), false)
	if err == nil {
		second.Close()
		t.Fatalf("expected bind failure without port reuse")
	}
}
