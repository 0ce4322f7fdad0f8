package emu

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"vppu/emu/log"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
)

type Config struct {
	Render  RenderConfig  `toml:"render"`
	General GeneralConfig `toml:"general"`
}

type GeneralConfig struct {
	// LogModules lists the module names whose debug logging is enabled
	// by default, before any command line override.
	LogModules []string `toml:"log_modules"`
}

type RenderConfig struct {
	// Parallel renders scanline bands on a worker pool instead of the
	// calling goroutine.
	Parallel bool `toml:"parallel"`

	// Workers is the pool size. 0 means one worker per CPU.
	Workers int `toml:"workers"`
}

// NumWorkers resolves the configured pool size to an actual worker count.
func (rc RenderConfig) NumWorkers() int {
	if rc.Workers > 0 {
		return rc.Workers
	}
	return runtime.NumCPU()
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("vppu")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the vppu config directory,
// or provide a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		return Config{}
	}
	return cfg
}

// SaveConfig into vppu config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
