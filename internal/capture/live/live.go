// Package live captures frames from a network interface through libpcap.
package live

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gopacket/pcap"

	"layerscope/internal/capture"
	"layerscope/internal/dissect"
)

const (
	DefaultSnapLen = 8192
	DefaultTimeout = time.Second
)

// Options describes a live capture.
type Options struct {
	Interface   string
	SnapLen     int
	Promiscuous bool
	Timeout     time.Duration
	BPFFilter   string
}

// Capture is a live capture session on one interface.
type Capture struct {
	handle    *pcap.Handle
	iface     string
	closeOnce sync.Once
}

// InterfaceInfo describes a network interface.
type InterfaceInfo struct {
	Name        string
	Description string
	Addresses   []string
}

// ListInterfaces returns all available capture interfaces.
func ListInterfaces() ([]InterfaceInfo, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	var out []InterfaceInfo
	for _, d := range devs {
		info := InterfaceInfo{
			Name:        d.Name,
			Description: d.Description,
		}
		for _, addr := range d.Addresses {
			info.Addresses = append(info.Addresses, addr.IP.String())
		}
		out = append(out, info)
	}
	return out, nil
}

// Open starts a live capture. The interface must deliver Ethernet frames.
func Open(opts Options) (*Capture, error) {
	if opts.Interface == "" {
		return nil, errors.New("open live capture: no interface given")
	}
	if opts.SnapLen <= 0 {
		opts.SnapLen = DefaultSnapLen
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	handle, err := pcap.OpenLive(opts.Interface, int32(opts.SnapLen), opts.Promiscuous, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("open live capture on %s: %w", opts.Interface, err)
	}
	if err := capture.CheckLinkType(handle.LinkType()); err != nil {
		handle.Close()
		return nil, fmt.Errorf("open live capture on %s: %w", opts.Interface, err)
	}
	if opts.BPFFilter != "" {
		if err := handle.SetBPFFilter(opts.BPFFilter); err != nil {
			handle.Close()
			return nil, fmt.Errorf("set BPF filter %q: %w", opts.BPFFilter, err)
		}
	}
	return &Capture{handle: handle, iface: opts.Interface}, nil
}

// NextFrame blocks until a frame arrives. Read timeouts are retried.
func (c *Capture) NextFrame() (dissect.Frame, error) {
	for {
		data, ci, err := c.handle.ReadPacketData()
		switch {
		case err == nil:
			return capture.FrameFromCapture(data, ci), nil
		case errors.Is(err, pcap.NextErrorTimeoutExpired):
			continue
		default:
			return dissect.Frame{}, fmt.Errorf("read from %s: %w", c.iface, err)
		}
	}
}

// Interface returns the interface name.
func (c *Capture) Interface() string {
	return c.iface
}

// Stats returns capture statistics.
func (c *Capture) Stats() (received, dropped int, err error) {
	stats, err := c.handle.Stats()
	if err != nil {
		return 0, 0, err
	}
	return stats.PacketsReceived, stats.PacketsDropped, nil
}

// Close stops the capture. It is safe to call more than once.
func (c *Capture) Close() error {
	c.closeOnce.Do(c.handle.Close)
	return nil
}
