// Diagnostic listing of the hardware addresses a producer on this host would embed in its ids
package probe

import (
	"context"
	"msgidscope/internal/crypto/random"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"msgidscope/internal/network"
	"msgidscope/pkg/msgid"
	"net"
)

// One reported address
type Entry struct {
	Interface string `json:"interface,omitempty" msgpack:"interface,omitempty"`
	Address   string `json:"address" msgpack:"address"`
	Synthetic bool   `json:"synthetic" msgpack:"synthetic"`
}

type Report struct {
	Entries []Entry `json:"entries" msgpack:"entries"`
}

// Sources the probe reads from
type Prober struct {
	Interfaces func() []network.Interface
	Random     *random.Source
}

// Prober over the real interface list and the shared random source
func NewProber() (prober *Prober) {
	prober = &Prober{
		Interfaces: network.HardwareInterfaces,
		Random:     random.Shared(),
	}
	return
}

// Convenience wrapper using the default prober
func Run(ctx context.Context) (report Report, err error) {
	report, err = NewProber().Run(ctx)
	return
}

// Lists every interface hardware address, or a single random stand-in when there are none.
// Always produces a report; err is reserved for callers substituting their own probe.
func (prober *Prober) Run(ctx context.Context) (report Report, err error) {
	ctx = logctx.AppendCtxTag(ctx, global.NSProbe)

	for _, iface := range prober.Interfaces() {
		if len(iface.HardwareAddr) == 0 {
			continue
		}

		entry := Entry{
			Interface: iface.Name,
			Address:   msgid.FormatAddress(iface.HardwareAddr),
		}
		report.Entries = append(report.Entries, entry)
		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"interface %s has hardware address %s\n", entry.Interface, entry.Address)
	}

	if len(report.Entries) > 0 {
		return
	}

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"no hardware addresses found, generating random stand-in\n")

	addr, randErr := prober.Random.HardwareAddress()
	if randErr != nil {
		// Still answer, with an all-zero stand-in
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"failed generating random stand-in address, reporting zeros: %v\n", randErr)
		addr = make([]byte, random.HardwareAddrLen)
	}

	report.Entries = append(report.Entries, Entry{
		Address:   msgid.FormatAddress(addr),
		Synthetic: true,
	})
	return
}

// True when the report holds only a random stand-in
func (report Report) Synthetic() (synthetic bool) {
	synthetic = len(report.Entries) == 1 && report.Entries[0].Synthetic
	return
}

// Finds the local interface owning a decoded address.
// 6-byte values are hardware addresses (modern ids), 4 and 16 byte values are IPs (legacy ids).
func MatchLocal(address []byte) (ifaceName string, found bool) {
	var iface network.Interface
	var err error

	switch len(address) {
	case random.HardwareAddrLen:
		iface, err = network.InterfaceForHardwareAddr(address)
	case net.IPv4len, net.IPv6len:
		iface, err = network.InterfaceForAddress(net.IP(address))
	default:
		return
	}
	if err != nil {
		return
	}

	ifaceName = iface.Name
	found = true
	return
}
