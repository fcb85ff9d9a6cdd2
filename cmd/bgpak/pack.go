package main

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/switchtools/bgpak/sarc"
)

func resolveEndian(name string) binary.ByteOrder {
	if name == "big" {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// packDirectory walks root and archives every regular file it finds,
// relative to root, into a SARC archive configured per manifest. Files that
// cannot be read are collected and reported together rather than aborting
// the walk at the first failure.
func packDirectory(root string, manifest *Manifest) ([]byte, error) {
	w := sarc.NewWriter(resolveEndian(manifest.Pack.Endian))
	if manifest.Pack.HashMultiplier != 0 {
		w.HashMultiplier = manifest.Pack.HashMultiplier
	}
	if manifest.Pack.MinAlignment != 0 {
		w.MinAlignment = manifest.Pack.MinAlignment
	}
	w.Legacy = manifest.Pack.Legacy
	for ext, alignment := range manifest.Pack.Alignment {
		if err := w.SetAlignmentRequirement(ext, alignment); err != nil {
			return nil, err
		}
	}

	ec := &errorCollector{}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ec.Add(err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			ec.Add(err)
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			ec.Add(err)
			return nil
		}
		w.AddFile(filepath.ToSlash(rel), data)
		return nil
	})
	ec.Add(walkErr)

	if ec.HasErrors() {
		ec.ShowAll()
		return nil, errors.New("pack: one or more files could not be read")
	}

	return w.Write()
}
