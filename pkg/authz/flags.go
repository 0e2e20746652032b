package authz

import (
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Mode controls how enforcement outcomes are applied.
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeShadow   Mode = "shadow"
	ModeEnforce  Mode = "enforce"
)

func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeDisabled:
		return ModeDisabled
	case ModeEnforce:
		return ModeEnforce
	default:
		return ModeShadow
	}
}

// FlagProvider yields the current enforcement mode. Providers may re-read
// their backing store on every call; callers must not cache the result.
type FlagProvider interface {
	Mode() Mode
}

type staticFlagProvider struct {
	mode Mode
}

// NewStaticFlagProvider pins the mode; used by tests and CLI tools.
func NewStaticFlagProvider(mode Mode) FlagProvider {
	return &staticFlagProvider{mode: mode}
}

func (p *staticFlagProvider) Mode() Mode {
	return p.mode
}

type flagFile struct {
	Mode string `yaml:"mode"`
}

type fileFlagProvider struct {
	path     string
	fallback Mode

	mu     sync.Mutex
	cached Mode
	loaded bool
}

// NewFileFlagProvider reads the mode from a yaml flag file, falling back to
// the configured default when the file is absent or malformed.
func NewFileFlagProvider(path string, fallback Mode) FlagProvider {
	return &fileFlagProvider{path: path, fallback: fallback}
}

func (p *fileFlagProvider) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.cached
	}

	p.loaded = true
	p.cached = p.fallback

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return p.cached
	}
	var f flagFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return p.cached
	}
	if strings.TrimSpace(f.Mode) != "" {
		p.cached = ParseMode(f.Mode)
	}
	return p.cached
}
