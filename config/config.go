// Package config loads the cmd/demo harness's settings with
// github.com/spf13/viper, the way niceyeti-tabular's
// tabular/reinforcement.FromYaml loads its TrainingConfig. The core graph
// packages take no configuration beyond explicit constructor arguments —
// matching the teacher, where engine/animator/scene are all configured via
// functional options, never global config — so this package exists only
// for the demo harness and the debug server's bind address.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Demo holds everything cmd/demo needs to stand up a window, tick the
// graph, and (optionally) serve debug introspection.
type Demo struct {
	// WindowWidth/WindowHeight size the demo's glfw window.
	WindowWidth int `mapstructure:"window_width"`
	WindowHeight int `mapstructure:"window_height"`
	// WindowTitle is the glfw window's title bar text.
	WindowTitle string `mapstructure:"window_title"`
	// TickRate is the fixed simulation rate Evaluate is driven at,
	// independent of the present loop's frame rate.
	TickRate time.Duration `mapstructure:"tick_rate"`
	// DatasetPath is unused by the in-code demo graph today but reserved
	// for a future on-disk dataset; kept so the config's shape matches
	// what a real asset-backed demo would need.
	DatasetPath string `mapstructure:"dataset_path"`
	// DebugAddr is the bind address for the debug introspection server;
	// empty disables it.
	DebugAddr string `mapstructure:"debug_addr"`
}

// defaults mirrors FromYaml's viper.New() + SetDefault pattern: every
// field gets a sane value before the file/env layers are applied, so a
// missing config file still produces a runnable Demo.
func defaults() Demo {
	return Demo{
 WindowWidth: 1280,
 WindowHeight: 720,
 WindowTitle: "animgraph demo",
 TickRate: time.Second / 60,
 DebugAddr: "127.0.0.1:8089",
	}
}

// keys lists every field viper needs an explicit SetDefault/BindEnv call
// for — Unmarshal only sees keys viper already knows about, so (unlike a
// plain struct literal) defaults and env bindings both have to be
// registered by name before ReadInConfig/Unmarshal run.
var keys = []string{
	"window_width", "window_height", "window_title",
	"tick_rate", "dataset_path", "debug_addr",
}

// Load reads a Demo config from path (yaml/json/toml — whatever
// extension it carries), falling back to defaults() for any field the
// file doesn't set. Environment variables prefixed ANIMGRAPH_ override
// both — e.g. ANIMGRAPH_DEBUG_ADDR — the same vp.AutomaticEnv() pattern
// FromYaml uses, extended here with explicit BindEnv per key since
// AutomaticEnv alone only resolves a key once something asks Get for it
// by name, not for Unmarshal's struct-wide decode. A missing file at path
// is not an error: the demo still runs off defaults and env alone, which
// FromYaml does not allow but suits a demo harness with no required
// config.
func Load(path string) (*Demo, error) {
	def := defaults()

	vp := viper.New()
	vp.SetEnvPrefix("ANIMGRAPH")
	vp.AutomaticEnv()
	vp.SetDefault("window_width", def.WindowWidth)
	vp.SetDefault("window_height", def.WindowHeight)
	vp.SetDefault("window_title", def.WindowTitle)
	vp.SetDefault("tick_rate", def.TickRate)
	vp.SetDefault("dataset_path", def.DatasetPath)
	vp.SetDefault("debug_addr", def.DebugAddr)
	for _, k := range keys {
 _ = vp.BindEnv(k)
	}

	if path != "" {
 vp.SetConfigFile(path)
 vp.SetConfigType(configType(path))
 if err := vp.ReadInConfig(); err != nil {
 if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
 return nil, fmt.Errorf("config: reading %s: %w", path, err)
 }
 }
	}

	var d Demo
	if err := vp.Unmarshal(&d); err != nil {
 return nil, fmt.Errorf("config: unmarshaling demo config: %w", err)
	}

	return &d, nil
}

func configType(path string) string {
	ext := filepath.Ext(path)
	if len(ext) > 1 {
 return ext[1:]
	}
	return "yaml"
}
