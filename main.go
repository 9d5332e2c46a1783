package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"layerscope/internal/capture"
	"layerscope/internal/capture/live"
	"layerscope/internal/config"
	"layerscope/internal/engine"
	"layerscope/internal/handlers"
	"layerscope/internal/logging"
	"layerscope/internal/metrics"
	"layerscope/internal/models"
)

var Version = "unversioned"

var (
	app        = kingpin.New("layerscope", "Layer-by-layer dissection of captured Ethernet frames.")
	configPath = app.Flag("config", "TOML configuration file.").Short('c').OverrideDefaultFromEnvar("LAYERSCOPE_CONFIG").String()
	logLevel   = app.Flag("log-level", "Log level (debug, info, warn, error).").String()
	snapLen    = app.Flag("snaplen", "Bytes to capture per frame.").Int()
	filter     = app.Flag("filter", "BPF filter expression.").Short('f').String()
	count      = app.Flag("count", "Stop after this many frames.").Short('n').Int()
	hexDump    = app.Flag("hexdump", "Append a hex dump to each report.").Bool()

	captureCmd   = app.Command("capture", "Capture from a live interface and print reports.")
	captureIface = captureCmd.Arg("interface", "Interface to capture on, e.g. wlan0.").String()

	readCmd  = app.Command("read", "Print reports for every frame in a pcap or pcapng file.")
	readFile = readCmd.Arg("file", "Capture file.").Required().ExistingFile()

	serveCmd  = app.Command("serve", "Stream reports to websocket clients.")
	serveAddr = serveCmd.Flag("addr", "Listen address.").String()

	interfacesCmd = app.Command("interfaces", "List capture interfaces.")
)

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *snapLen > 0 {
		cfg.Capture.SnapLen = *snapLen
	}
	if *filter != "" {
		cfg.Capture.BPFFilter = *filter
	}
	if *count > 0 {
		cfg.Output.MaxFrames = *count
	}
	if *hexDump {
		cfg.Output.HexDump = true
	}
	if *captureIface != "" {
		cfg.Capture.Interface = *captureIface
	}
	if *serveAddr != "" {
		cfg.Server.Addr = *serveAddr
	}
	return cfg, cfg.Validate()
}

func liveOptions(cfg config.Config) live.Options {
	return live.Options{
		Interface:   cfg.Capture.Interface,
		SnapLen:     cfg.Capture.SnapLen,
		Promiscuous: cfg.Capture.Promiscuous,
		Timeout:     cfg.Capture.Timeout.Duration,
		BPFFilter:   cfg.Capture.BPFFilter,
	}
}

func listInterfaces() ([]models.InterfaceInfo, error) {
	ifaces, err := live.ListInterfaces()
	if err != nil {
		return nil, err
	}
	out := make([]models.InterfaceInfo, 0, len(ifaces))
	for _, i := range ifaces {
		out = append(out, models.InterfaceInfo{
			Name:        i.Name,
			Description: i.Description,
			Addresses:   i.Addresses,
		})
	}
	return out, nil
}

// runSource prints a report for every frame of src until it ends or a
// signal arrives.
func runSource(cfg config.Config, src capture.Source) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	eng := engine.New(engine.Options{
		Output:    os.Stdout,
		HexDump:   cfg.Output.HexDump,
		MaxFrames: cfg.Output.MaxFrames,
	})
	n, err := eng.Run(ctx, src)
	logrus.WithField("frames", n).Debug("done")
	return err
}

func runCapture(cfg config.Config) error {
	if cfg.Capture.Interface == "" {
		return errors.New("no interface given (argument or capture.interface)")
	}
	lc, err := live.Open(liveOptions(cfg))
	if err != nil {
		return err
	}
	defer lc.Close()
	logrus.WithField("interface", lc.Interface()).Info("capturing")
	return runSource(cfg, lc)
}

func runRead(cfg config.Config) error {
	pr, err := capture.NewPcapReader(*readFile)
	if err != nil {
		return err
	}
	defer pr.Close()
	return runSource(cfg, pr)
}

func runServe(cfg config.Config) error {
	reg := prometheus.NewRegistry()
	eng := engine.New(engine.Options{
		HexDump:    true,
		Metrics:    metrics.New(reg),
		Interfaces: listInterfaces,
		Opener: func(req models.StartCaptureRequest) (capture.Source, error) {
			opts := liveOptions(cfg)
			opts.Interface = req.Interface
			if req.BPFFilter != "" {
				opts.BPFFilter = req.BPFFilter
			}
			if req.SnapLen > 0 {
				opts.SnapLen = req.SnapLen
			}
			return live.Open(opts)
		},
	})
	defer eng.StopCapture()

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, eng, reg)

	logrus.Infof("layerscope listening on http://localhost%s", cfg.Server.Addr)
	return http.ListenAndServe(cfg.Server.Addr, mux)
}

func runInterfaces() error {
	ifaces, err := listInterfaces()
	if err != nil {
		return err
	}
	for _, i := range ifaces {
		os.Stdout.WriteString(i.Name)
		if i.Description != "" {
			os.Stdout.WriteString(" (" + i.Description + ")")
		}
		for _, addr := range i.Addresses {
			os.Stdout.WriteString(" " + addr)
		}
		os.Stdout.WriteString("\n")
	}
	return nil
}

func main() {
	app.Version(Version)
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := logging.Configure(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		logrus.Fatal(err)
	}

	switch cmd {
	case captureCmd.FullCommand():
		err = runCapture(cfg)
	case readCmd.FullCommand():
		err = runRead(cfg)
	case serveCmd.FullCommand():
		err = runServe(cfg)
	case interfacesCmd.FullCommand():
		err = runInterfaces()
	}
	if err != nil {
		logrus.Fatal(err)
	}
}
