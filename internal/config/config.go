package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration for the layerscope command.
type Config struct {
	Capture CaptureConfig `toml:"capture"`
	Output  OutputConfig  `toml:"output"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// CaptureConfig controls how frames are pulled off an interface.
type CaptureConfig struct {
	Interface   string   `toml:"interface"`
	SnapLen     int      `toml:"snaplen"`
	Promiscuous bool     `toml:"promiscuous"`
	Timeout     Duration `toml:"timeout"`
	BPFFilter   string   `toml:"bpf_filter"`
}

// OutputConfig controls text reports.
type OutputConfig struct {
	// HexDump appends a full hex dump of the frame after each report.
	HexDump bool `toml:"hexdump"`
	// MaxFrames stops after this many frames; zero means no limit.
	MaxFrames int `toml:"max_frames"`
}

// ServerConfig controls the web server used by the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as a string such as "1s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Capture: CaptureConfig{
			SnapLen:     8192,
			Promiscuous: true,
			Timeout:     Duration{time.Second},
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Capture.SnapLen <= 0 || c.Capture.SnapLen > 262144 {
		errs = append(errs, fmt.Errorf("capture.snaplen %d out of range (1-262144)", c.Capture.SnapLen))
	}
	if c.Capture.Timeout.Duration < 0 {
		errs = append(errs, errors.New("capture.timeout must not be negative"))
	}
	if c.Output.MaxFrames < 0 {
		errs = append(errs, errors.New("output.max_frames must not be negative"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	return errors.Join(errs...)
}
