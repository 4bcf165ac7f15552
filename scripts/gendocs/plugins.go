package main

import (
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/oserror"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/pep585"
)

// generatePluginDocs writes one page listing the built-in plugins.
func generatePluginDocs(outDir string) error {
	log.Printf("Generating plugin docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Plugins", "Built-in rewrite plugins")
	w.GeneratedMarker()
	w.Header(1, "Plugins")
	w.Paragraph("Every plugin is enabled by default. Use `--enable` to run a subset or `--disable` to skip some; the two cannot be combined.")

	var rows [][]string
	for _, m := range plugins.All() {
		var kinds []string
		for _, k := range m.Kinds() {
			kinds = append(kinds, InlineCode(k.String()))
		}
		rows = append(rows, []string{InlineCode(m.Name), cleanDescription(m.Description), strings.Join(kinds, ", ")})
	}
	w.Table([]string{"Plugin", "Description", "Node kinds"}, rows)

	w.Header(2, "oserror_aliases")
	w.Paragraph("Names rewritten to `OSError`:")
	names := append([]string(nil), oserror.ErrorNames...)
	for _, mod := range oserror.ErrorModules {
		names = append(names, mod+".error")
	}
	for i, n := range names {
		names[i] = InlineCode(n)
	}
	w.BulletList(names)

	w.Header(2, "typing_pep585")
	w.Paragraph("Typing aliases replaced with builtin generics:")
	var pairs [][]string
	for _, name := range slices.Sorted(maps.Keys(pep585.Builtins)) {
		pairs = append(pairs, []string{InlineCode("typing." + name), InlineCode(pep585.Builtins[name])})
	}
	w.Table([]string{"Alias", "Builtin"}, pairs)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}
