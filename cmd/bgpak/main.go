package main

import (
	"fmt"
	"os"

	"github.com/ogier/pflag"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "pack":
		err = runPack(os.Args[2:])
	case "unpack":
		err = runUnpack(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	case "--help", "-h", "help":
		printHelp()
		return
	default:
		showError(fmt.Errorf("unrecognized subcommand: %q", os.Args[1]))
		printHelp()
		os.Exit(1)
	}

	if err != nil {
		showError(err)
		os.Exit(1)
	}
}

func runPack(args []string) error {
	fs := pflag.NewFlagSet("pack", pflag.ExitOnError)
	manifestPath := fs.StringP("manifest", "m", "", "TOML manifest with endianness/alignment/hash-multiplier overrides")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: bgpak pack [--manifest FILE] <input-dir> <output.sarc>")
	}
	inputDir, outputPath := fs.Arg(0), fs.Arg(1)

	manifest := &Manifest{Pack: PackSection{Endian: "little"}}
	if *manifestPath != "" {
		m, err := loadManifest(*manifestPath)
		if err != nil {
			return fmt.Errorf("cannot read manifest: %w", err)
		}
		manifest = m
	}

	data, err := packDirectory(inputDir, manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func runUnpack(args []string) error {
	fs := pflag.NewFlagSet("unpack", pflag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: bgpak unpack <archive.sarc> <output-dir>")
	}
	archivePath, outDir := fs.Arg(0), fs.Arg(1)

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return err
	}
	return unpackArchive(data, outDir)
}

func runDump(args []string) error {
	fs := pflag.NewFlagSet("dump", pflag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: bgpak dump <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	return dumpFile(data)
}

func printHelp() {
	fmt.Printf("Usage: %s <pack|unpack|dump> [options] ...\n\n", os.Args[0])
	fmt.Println("  pack [--manifest FILE] <input-dir> <output.sarc>")
	fmt.Println("      Archive a directory tree into a SARC file.")
	fmt.Println("  unpack <archive.sarc> <output-dir>")
	fmt.Println("      Extract every member of a SARC file into a directory.")
	fmt.Println("  dump <file>")
	fmt.Println("      Print a readable rendering of an AAMP or BYML file.")
}
