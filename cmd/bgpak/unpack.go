package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/switchtools/bgpak/sarc"
)

// unpackArchive extracts every member of a parsed SARC archive into outDir,
// creating subdirectories as needed. Entries without a recovered name are
// written under a synthetic placeholder name.
func unpackArchive(data []byte, outDir string) error {
	arc, err := sarc.Parse(data)
	if err != nil {
		return err
	}
	files, err := arc.Files()
	if err != nil {
		return err
	}

	ec := &errorCollector{}
	for i, f := range files {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("_unnamed_%04d.bin", i)
		}
		dest := filepath.Join(outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			ec.Add(err)
			continue
		}
		if err := os.WriteFile(dest, f.Data, 0o644); err != nil {
			ec.Add(err)
			continue
		}
	}

	if ec.HasErrors() {
		ec.ShowAll()
		return errors.New("unpack: one or more files could not be written")
	}
	return nil
}
