package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/tcpspec/internal/logging"
	"github.com/danmuck/tcpspec/internal/protocol/beginex"
)

var ErrInvalidConfig = errors.New("invalid records config")

// File is a loaded records file.
type File struct {
	Shape   beginex.Shape
	Workers int
	IDNA    bool
	Records []Record
}

// Record is one [[record]] table. RemoteHost is nil when remote_host is
// absent and points at "" when it is present but empty.
type Record struct {
	Name          string
	TypeID        *int32
	LocalAddress  string
	LocalPort     int
	RemoteAddress string
	RemoteHost    *string
	RemotePort    int
}

type fileConfig struct {
	Shape   string         `toml:"shape"`
	Workers int            `toml:"workers"`
	IDNA    bool           `toml:"idna"`
	Records []recordConfig `toml:"record"`
}

type recordConfig struct {
	Name          string  `toml:"name"`
	TypeID        *int32  `toml:"type_id"`
	LocalAddress  string  `toml:"local_address"`
	LocalPort     int     `toml:"local_port"`
	RemoteAddress string  `toml:"remote_address"`
	RemoteHost    *string `toml:"remote_host"`
	RemotePort    int     `toml:"remote_port"`
}

// Load reads and validates a records file. Unknown keys are rejected.
func Load(path string) (File, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return File{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return File{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	cfg := File{
		Workers: runtime.NumCPU(),
		IDNA:    raw.IDNA,
		Records: make([]Record, 0, len(raw.Records)),
	}
	if !meta.IsDefined("shape") {
		return File{}, fmt.Errorf("%w: shape is required", ErrInvalidConfig)
	}
	shape, err := beginex.ParseShape(raw.Shape)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Shape = shape
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	for _, r := range raw.Records {
		cfg.Records = append(cfg.Records, Record{
			Name:          strings.TrimSpace(r.Name),
			TypeID:        r.TypeID,
			LocalAddress:  strings.TrimSpace(r.LocalAddress),
			LocalPort:     r.LocalPort,
			RemoteAddress: strings.TrimSpace(r.RemoteAddress),
			RemoteHost:    trimmed(r.RemoteHost),
			RemotePort:    r.RemotePort,
		})
	}
	if err := Validate(cfg); err != nil {
		return File{}, err
	}
	logger := logging.Component("config")
	logger.Debug().
		Str("path", path).
		Stringer("shape", cfg.Shape).
		Int("records", len(cfg.Records)).
		Msg("records config loaded")
	return cfg, nil
}

// Validate checks file-level structure. Address and port checks are left to
// the codec.
func Validate(cfg File) error {
	if !cfg.Shape.Valid() {
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, beginex.ErrUnknownShape, cfg.Shape)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, cfg.Workers)
	}
	if len(cfg.Records) == 0 {
		return fmt.Errorf("%w: at least one [[record]] is required", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(cfg.Records))
	for i, r := range cfg.Records {
		if r.Name == "" {
			return fmt.Errorf("%w: record[%d] missing name", ErrInvalidConfig, i)
		}
		if _, ok := seen[r.Name]; ok {
			return fmt.Errorf("%w: duplicate record name %q", ErrInvalidConfig, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
