package network

import (
	"errors"
	"net"
	"testing"
)

func withInterfaces(t *testing.T, ifaces []Interface, err error) {
	t.Helper()
	original := listInterfaces
	listInterfaces = func() ([]Interface, error) { return ifaces, err }
	t.Cleanup(func() { listInterfaces = original })
}

var testInterfaces = []Interface{
	{Name: "lo", Addrs: []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")}},
	{
		Name:         "eth0",
		HardwareAddr: net.HardwareAddr{0xFA, 0x03, 0xC8, 0x6D, 0x77, 0xD4},
		Addrs:        []net.IP{net.ParseIP("192.168.0.10"), net.ParseIP("2001:db8::1")},
	},
	{Name: "wg0", HardwareAddr: net.HardwareAddr{}},
}

func TestHardwareInterfaces(t *testing.T) {
	tests := []struct {
		name     string
		ifaces   []Interface
		listErr  error
		expected []string
	}{
		{"Skips interfaces without hardware address", testInterfaces, nil, []string{"eth0"}},
		{"Enumeration failure reads as none", testInterfaces, errors.New("permission denied"), nil},
		{"No interfaces", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withInterfaces(t, tt.ifaces, tt.listErr)

			got := HardwareInterfaces()
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d interfaces, want %d", len(got), len(tt.expected))
			}
			for i, iface := range got {
				if iface.Name != tt.expected[i] {
					t.Errorf("interface %d = %s, want %s", i, iface.Name, tt.expected[i])
				}
			}
		})
	}
}

func TestInterfaceLookups(t *testing.T) {
	withInterfaces(t, testInterfaces, nil)

	iface, err := InterfaceForHardwareAddr([]byte{0xFA, 0x03, 0xC8, 0x6D, 0x77, 0xD4})
	if err != nil || iface.Name != "eth0" {
		t.Errorf("InterfaceForHardwareAddr = (%s, %v), want eth0", iface.Name, err)
	}

	_, err = InterfaceForHardwareAddr([]byte{1, 2, 3, 4, 5, 6})
	if err == nil {
		t.Errorf("expected error for unknown hardware address")
	}

	iface, err = InterfaceForAddress(net.IPv4(192, 168, 0, 10))
	if err != nil || iface.Name != "eth0" {
		t.Errorf("InterfaceForAddress(v4) = (%s, %v), want eth0", iface.Name, err)
	}

	iface, err = InterfaceForAddress(net.ParseIP("::1"))
	if err != nil || iface.Name != "lo" {
		t.Errorf("InterfaceForAddress(v6) = (%s, %v), want lo", iface.Name, err)
	}

	_, err = InterfaceForAddress(net.ParseIP("10.9.9.9"))
	if err == nil {
		t.Errorf("expected error for unknown address")
	}
}
