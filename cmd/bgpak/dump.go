package main

import (
	"fmt"
	"strings"

	"github.com/switchtools/bgpak/aamp"
	"github.com/switchtools/bgpak/byml"
	"github.com/switchtools/bgpak/names"
)

// dumpFile prints a human-readable rendering of an AAMP or BYML document to
// stdout. BYML documents are rendered as canonical YAML via byml.ToText;
// AAMP has no textual surface of its own (spec.md's Non-goals exclude
// alternate textual AAMP formats), so its tree is rendered with recovered
// names where the default name table can guess them.
func dumpFile(data []byte) error {
	if pio, err := aamp.Parse(data); err == nil {
		dumpParameterList(pio.Root, 0, 0, 0, false)
		return nil
	}
	doc, err := byml.Parse(data)
	if err != nil {
		return fmt.Errorf("could not parse input as AAMP or BYML: %w", err)
	}
	text, err := byml.ToText(doc)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func dumpParameterList(list *aamp.ParameterList, depth, index int, parentHash uint32, parentKnown bool) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s:\n", indent, resolveName(list.Name, index, parentHash, parentKnown))

	for _, obj := range list.Objects() {
		fmt.Printf("%s  %s:\n", indent, resolveName(obj.Name, 0, list.Name, true))
		for i, pname := range obj.Names() {
			v, _ := obj.Get(pname)
			fmt.Printf("%s    %s = %v\n", indent, resolveName(pname, i, obj.Name, true), v)
		}
	}
	for i, child := range list.Lists() {
		dumpParameterList(child, depth+1, i, list.Name, true)
	}
}

func resolveName(hash uint32, index int, parentHash uint32, parentKnown bool) string {
	if !parentKnown {
		parentHash = 0
	}
	if s, ok := names.Default().GetName(hash, index, parentHash); ok {
		return s
	}
	return fmt.Sprintf("0x%08x", hash)
}
