package network

import (
	"bytes"
	"fmt"
	"net"
)

// Local interface snapshot
type Interface struct {
	Name         string
	HardwareAddr net.HardwareAddr
	Addrs        []net.IP
}

// Replaced in tests
var listInterfaces = systemInterfaces

// Reads interfaces and their unicast addresses from the OS
func systemInterfaces() (ifaces []Interface, err error) {
	sysIfaces, err := net.Interfaces()
	if err != nil {
		err = fmt.Errorf("failed to enumerate network interfaces: %v", err)
		return
	}

	for _, sysIface := range sysIfaces {
		iface := Interface{
			Name:         sysIface.Name,
			HardwareAddr: sysIface.HardwareAddr,
		}

		addrs, lerr := sysIface.Addrs()
		if lerr == nil {
			for _, addr := range addrs {
				ipNet, ok := addr.(*net.IPNet)
				if ok {
					iface.Addrs = append(iface.Addrs, ipNet.IP)
				}
			}
		}

		ifaces = append(ifaces, iface)
	}
	return
}

// Interfaces that carry a hardware address.
// Enumeration failures are reported as no interfaces.
func HardwareInterfaces() (ifaces []Interface) {
	all, err := listInterfaces()
	if err != nil {
		return
	}

	for _, iface := range all {
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		ifaces = append(ifaces, iface)
	}
	return
}

// Retrieves the interface owning the given hardware address
func InterfaceForHardwareAddr(hwAddr []byte) (iface Interface, err error) {
	for _, candidate := range HardwareInterfaces() {
		if bytes.Equal(candidate.HardwareAddr, hwAddr) {
			iface = candidate
			return
		}
	}

	err = fmt.Errorf("no matching interface found for hardware address %X", hwAddr)
	return
}

// Retrieves the interface corresponding to a specific IP address
func InterfaceForAddress(ip net.IP) (iface Interface, err error) {
	all, err := listInterfaces()
	if err != nil {
		return
	}

	for _, candidate := range all {
		for _, addr := range candidate.Addrs {
			if addr.Equal(ip) {
				iface = candidate
				return
			}
		}
	}

	err = fmt.Errorf("no matching interface found for address %v", ip)
	return
}
