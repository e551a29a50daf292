package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultTileSize is the edge length of tiles used for cached and parallel rasterization.
	DefaultTileSize = 256

	// DefaultCachedTiles is the number of tiles kept by a block cache.
	DefaultCachedTiles = 64
)

// Config is the TOML configuration for maskview tools.
type Config struct {
	Logging LogConfig
	Mask    MaskConfig
	Cache   CacheConfig
}

// MaskConfig holds the pixel values and scan settings used when masking.
type MaskConfig struct {
	// NoData is the pixel value treated as absent by create_mask.
	NoData int64 `toml:"nodata"`

	// Fill replaces invalid pixels when a mask is applied.
	Fill int64 `toml:"fill"`

	// Strategy selects the edge mask algorithm: "scan" or "flood".
	Strategy string `toml:"strategy"`

	// Workers is the number of goroutines used to build an edge mask.  Zero or one
	// builds sequentially.
	Workers int `toml:"workers"`
}

// CacheConfig sizes the tile cache used when rasterizing expensive views.
type CacheConfig struct {
	TileSize int `toml:"tile_size"`
	Tiles    int `toml:"tiles"`
}

// DefaultConfig returns the configuration used when no TOML file is given.
func DefaultConfig() *Config {
	return &Config{
		Mask: MaskConfig{
			Strategy: "scan",
		},
		Cache: CacheConfig{
			TileSize: DefaultTileSize,
			Tiles:    DefaultCachedTiles,
		},
	}
}

// LoadConfig decodes a TOML file on top of the default configuration.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("no TOML configuration file provided")
	}
	c := DefaultConfig()
	md, err := toml.DecodeFile(filename, c)
	if err != nil {
		return nil, fmt.Errorf("could not decode TOML config %q: %w", filename, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		Warningf("Ignoring unknown keys in TOML config %q: %v\n", filename, undecoded)
	}
	if err := c.convertPathsToAbsolute(filename); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	Debugf("Loaded config from %s: %+v\n", filename, *c)
	return c, nil
}

// Validate checks numeric settings that have no sensible fallback.  Strategy names
// are checked by the mask package when an edge mask is built.
func (c *Config) Validate() error {
	if c.Mask.Workers < 0 {
		return fmt.Errorf("number of workers must be non-negative, got %d", c.Mask.Workers)
	}
	if c.Cache.TileSize < 0 || c.Cache.Tiles < 0 {
		return fmt.Errorf("cache tile size and count must be non-negative, got %d and %d",
			c.Cache.TileSize, c.Cache.Tiles)
	}
	return nil
}

// Some settings in the TOML can be given as relative paths.
// This function converts them in-place to absolute paths,
// assuming the given paths were relative to the TOML file's own directory.
func (c *Config) convertPathsToAbsolute(configPath string) error {
	if c.Logging.Logfile == "" {
		return nil
	}
	path, err := ConvertToAbsolute(c.Logging.Logfile, filepath.Dir(configPath))
	if err != nil {
		return fmt.Errorf("error converting logfile setting to absolute path: %w", err)
	}
	c.Logging.Logfile = path
	return nil
}

// ConvertToAbsolute returns an absolute path for a path that may be relative to
// the given directory.
func ConvertToAbsolute(path, relativeTo string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if relativeTo == "" {
		var err error
		if relativeTo, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return filepath.Abs(filepath.Join(relativeTo, path))
}
