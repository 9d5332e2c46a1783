package capture

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"layerscope/internal/dissect"
)

var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// PcapReader reads frames from a pcap or pcapng stream.
type PcapReader struct {
	src      gopacket.PacketDataSource
	linkType layers.LinkType
	closer   io.Closer
}

// NewPcapReader opens a capture file for reading.
func NewPcapReader(path string) (*PcapReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pcap file %q: %w", path, err)
	}
	pr, err := ReadPcap(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open pcap file %q: %w", path, err)
	}
	pr.closer = f
	return pr, nil
}

// ReadPcap reads a capture from r. The format is detected from the first
// block; only Ethernet captures are accepted.
func ReadPcap(r io.Reader) (*PcapReader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(pcapngMagic))
	if err != nil {
		return nil, fmt.Errorf("read capture header: %w", err)
	}

	pr := &PcapReader{}
	if bytes.Equal(magic, pcapngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("pcapng: %w", err)
		}
		pr.src, pr.linkType = ng, ng.LinkType()
	} else {
		rd, err := pcapgo.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("pcap: %w", err)
		}
		pr.src, pr.linkType = rd, rd.LinkType()
	}
	if err := CheckLinkType(pr.linkType); err != nil {
		return nil, err
	}
	return pr, nil
}

// LinkType returns the link layer type of the capture.
func (pr *PcapReader) LinkType() layers.LinkType {
	return pr.linkType
}

// NextFrame returns the next frame in the file, or io.EOF.
func (pr *PcapReader) NextFrame() (dissect.Frame, error) {
	data, ci, err := pr.src.ReadPacketData()
	if err == io.EOF {
		return dissect.Frame{}, io.EOF
	}
	if err != nil {
		return dissect.Frame{}, fmt.Errorf("read pcap: %w", err)
	}
	return FrameFromCapture(data, ci), nil
}

// Close releases the underlying file, if any.
func (pr *PcapReader) Close() error {
	if pr.closer != nil {
		return pr.closer.Close()
	}
	return nil
}
