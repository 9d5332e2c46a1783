package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"layerscope/internal/capture"
	"layerscope/internal/dissect"
	"layerscope/internal/logging"
	"layerscope/internal/metrics"
	"layerscope/internal/models"
)

const (
	// paceEvery and paceDelay throttle file playback so clients keep up.
	paceEvery = 200
	paceDelay = 5 * time.Millisecond
)

// Client represents a connected WebSocket client that receives reports.
type Client interface {
	SendMessage(msg models.WSMessage) error
}

// Opener starts a live capture for a client request.
type Opener func(req models.StartCaptureRequest) (capture.Source, error)

// Options configures an Engine. Every field is optional.
type Options struct {
	// Output receives a text report for every frame.
	Output io.Writer
	// HexDump adds a hex dump of the captured bytes to each report.
	HexDump bool
	// MaxFrames ends Run after this many frames; zero means no limit.
	MaxFrames int
	Metrics   *metrics.Collector
	Opener    Opener
	// Interfaces lists capture devices for clients.
	Interfaces func() ([]models.InterfaceInfo, error)
}

// Engine runs frames from a capture source through the dissector, writes the
// text reports and broadcasts them to clients. Frames are dissected one at a
// time in capture order.
type Engine struct {
	opts Options
	log  *logrus.Entry

	mu        sync.Mutex
	clients   map[Client]bool
	session   *session
	pktCount  int
	startTime time.Time
	outMu     sync.Mutex
}

// session is one running live capture.
type session struct {
	src       capture.Source
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func (s *session) close() {
	s.closeOnce.Do(func() { s.src.Close() })
}

// New creates a new Engine.
func New(opts Options) *Engine {
	return &Engine{
		opts:    opts,
		log:     logging.For("engine"),
		clients: make(map[Client]bool),
	}
}

// RegisterClient adds a client to receive report broadcasts.
func (e *Engine) RegisterClient(c Client) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clients[c] = true
}

// UnregisterClient removes a client.
func (e *Engine) UnregisterClient(c Client) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.clients, c)
}

// GetInterfaces returns available network interfaces.
func (e *Engine) GetInterfaces() ([]models.InterfaceInfo, error) {
	if e.opts.Interfaces == nil {
		return nil, errors.New("interface listing not available")
	}
	return e.opts.Interfaces()
}

// Capturing reports whether a live capture is running.
func (e *Engine) Capturing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// Run dissects frames from src until it is exhausted, ctx is cancelled or
// MaxFrames is reached. It returns the number of frames processed. src is
// not closed.
func (e *Engine) Run(ctx context.Context, src capture.Source) (int, error) {
	return e.run(ctx, src, false)
}

func (e *Engine) run(ctx context.Context, src capture.Source, pace bool) (int, error) {
	e.resetCount()
	processed := 0
	for {
		if ctx.Err() != nil {
			return processed, nil
		}
		if e.opts.MaxFrames > 0 && processed >= e.opts.MaxFrames {
			return processed, nil
		}

		f, err := src.NextFrame()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return processed, nil
			}
			return processed, err
		}
		e.Process(f)
		processed++

		if pace && processed%paceEvery == 0 {
			select {
			case <-ctx.Done():
			case <-time.After(paceDelay):
			}
		}
	}
}

func (e *Engine) resetCount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pktCount = 0
	e.startTime = time.Time{}
}

// Process numbers, dissects and reports one frame.
func (e *Engine) Process(f dissect.Frame) models.FrameReport {
	e.mu.Lock()
	e.pktCount++
	num := e.pktCount
	if e.startTime.IsZero() {
		e.startTime = f.Timestamp
	}
	start := e.startTime
	e.mu.Unlock()

	res := dissect.Dissect(f)
	report := buildReport(num, start, f, res, e.opts.HexDump)

	if e.opts.Metrics != nil {
		e.opts.Metrics.Observe(f, res)
	}
	if res.Err != nil {
		e.log.WithFields(logrus.Fields{"frame": num, "stop": res.Stop}).Debug(res.Err)
	}
	if e.opts.Output != nil {
		e.writeText(report)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		e.log.WithError(err).Error("encode frame report")
		return report
	}
	e.broadcast(models.WSMessage{Type: models.TypeFrame, Payload: payload})
	return report
}

func (e *Engine) writeText(r models.FrameReport) {
	e.outMu.Lock()
	defer e.outMu.Unlock()
	out := e.opts.Output
	fmt.Fprintf(out, "(No.%d) %d bytes captured\n", r.Number, r.CapturedLength)
	if r.Text != "" {
		fmt.Fprintf(out, "%s\n", r.Text)
	}
	if r.HexDump != "" {
		fmt.Fprintf(out, "\n%s", r.HexDump)
	}
	fmt.Fprint(out, "\n\n")
}

func buildReport(num int, start time.Time, f dissect.Frame, res dissect.Result, hexDump bool) models.FrameReport {
	r := models.FrameReport{
		Number:         num,
		CapturedLength: len(f.Bytes()),
		OriginalLength: f.OriginalLength,
		Protocol:       "Unknown",
		Stop:           res.Stop.String(),
		Layers:         make([]models.LayerSummary, 0, len(res.Layers)),
		Text:           dissect.Render(res),
	}
	if start.IsZero() || f.Timestamp.IsZero() {
		r.Timestamp = f.Timestamp.Format("15:04:05.000000")
	} else {
		r.Timestamp = fmt.Sprintf("%.6f", f.Timestamp.Sub(start).Seconds())
	}
	if res.Err != nil {
		r.StopDetail = res.Err.Error()
	}
	if top := res.Top(); top != nil {
		r.Protocol = top.Name()
	}
	for _, l := range res.Layers {
		v := l.View()
		r.Layers = append(r.Layers, models.LayerSummary{
			Tier:          l.Tier().Tag(),
			Name:          l.Name(),
			Protocol:      uint16(l.Protocol()),
			ChildProtocol: uint16(l.ChildProtocol()),
			Offset:        v.Offset(),
			Length:        v.Len(),
			HeaderLength:  int(l.HeaderLength()),
		})
	}
	if hexDump {
		r.HexDump = formatHexDump(f.Bytes())
	}
	return r
}

// StartCapture begins a live capture using the configured Opener.
func (e *Engine) StartCapture(req models.StartCaptureRequest) error {
	if e.opts.Opener == nil {
		return errors.New("live capture not available")
	}
	e.mu.Lock()
	if e.session != nil {
		e.mu.Unlock()
		return fmt.Errorf("capture already running")
	}
	e.mu.Unlock()

	src, err := e.opts.Opener(req)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{src: src, cancel: cancel, done: make(chan struct{})}

	e.mu.Lock()
	if e.session != nil {
		e.mu.Unlock()
		cancel()
		src.Close()
		return fmt.Errorf("capture already running")
	}
	e.session = s
	e.mu.Unlock()

	payload, _ := json.Marshal(models.CaptureStats{InterfaceName: req.Interface})
	e.broadcast(models.WSMessage{Type: models.TypeCaptureStarted, Payload: payload})
	e.log.WithField("interface", req.Interface).Info("capture started")

	go e.captureLoop(ctx, s)
	return nil
}

func (e *Engine) captureLoop(ctx context.Context, s *session) {
	defer close(s.done)
	defer s.close()

	n, err := e.Run(ctx, s.src)
	if err != nil {
		e.log.WithError(err).Error("capture loop")
	}

	e.mu.Lock()
	stoppedHere := e.session == s
	if stoppedHere {
		e.session = nil
	}
	e.mu.Unlock()

	e.log.WithField("frames", n).Info("capture finished")
	if stoppedHere {
		payload, _ := json.Marshal(models.CaptureStats{FrameCount: n})
		e.broadcast(models.WSMessage{Type: models.TypeCaptureStopped, Payload: payload})
	}
}

// StopCapture stops the active capture and waits for its loop to exit.
func (e *Engine) StopCapture() {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.mu.Unlock()
	if s == nil {
		return
	}

	// Broadcast first so clients get instant feedback; closing the source
	// may block until the pending read returns.
	e.broadcast(models.WSMessage{Type: models.TypeCaptureStopped})
	s.cancel()
	s.close()
	<-s.done
}

// LoadPcap reads a capture file from r and streams its frames with pacing.
func (e *Engine) LoadPcap(r io.Reader) (int, error) {
	reader, err := capture.ReadPcap(r)
	if err != nil {
		return 0, err
	}
	defer reader.Close()
	return e.run(context.Background(), reader, true)
}

func (e *Engine) broadcast(msg models.WSMessage) {
	e.mu.Lock()
	clients := make([]Client, 0, len(e.clients))
	for c := range e.clients {
		clients = append(clients, c)
	}
	e.mu.Unlock()

	for _, c := range clients {
		if err := c.SendMessage(msg); err != nil {
			e.log.WithError(err).Debug("send to client")
		}
	}
}
