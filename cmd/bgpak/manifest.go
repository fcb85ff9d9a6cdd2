package main

import "github.com/BurntSushi/toml"

// Manifest configures a pack operation. It only needs a nice exported name
// for the TOML parser to produce more meaningful error messages on
// malformed input data.
type Manifest struct {
	Pack PackSection
}

// PackSection mirrors the knobs sarc.Writer exposes: target endianness,
// hash multiplier, minimum alignment, legacy-mode rules, and per-extension
// alignment overrides beyond the built-in AGL defaults.
type PackSection struct {
	Endian         string
	HashMultiplier uint32
	MinAlignment   uint64
	Legacy         bool
	Alignment      map[string]uint64
}

func loadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
