package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/leapup/internal/cli"
	"github.com/leapstack-labs/leapup/internal/cli/config"
)

// generateCLIDocs writes index.md plus one page per command. Subcommands
// get their own page named "<parent>-<sub>.md".
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	if err := writePage(filepath.Join(outDir, "index.md"), indexPage(root)); err != nil {
		return err
	}

	queue := documented(root)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = append(queue[1:], documented(cmd)...)
		if err := writePage(filepath.Join(outDir, pageName(cmd)+".md"), commandPage(cmd)); err != nil {
			return err
		}
	}
	return nil
}

func writePage(path string, w *MarkdownWriter) error {
	if err := os.WriteFile(path, w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("  Generated %s", filepath.Base(path))
	return nil
}

// documented returns the visible subcommands of cmd.
func documented(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			out = append(out, sub)
		}
	}
	return out
}

// pageName is the command path without the binary name, dash-joined.
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	return strings.Join(parts[1:], "-")
}

func commandTable(w *MarkdownWriter, cmds []*cobra.Command) {
	rows := make([][]string, 0, len(cmds))
	for _, c := range cmds {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(c.CommandPath()), pageName(c))
		rows = append(rows, []string{link, cleanDescription(c.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)
}

func indexPage(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for leapup")
	w.GeneratedMarker()
	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)

	w.Header(2, "Usage")
	w.CodeBlock("bash", root.UseLine())
	if root.Example != "" {
		w.CodeBlock("bash", cleanExample(root.Example))
	}

	w.Header(2, "Commands")
	commandTable(w, documented(root))

	w.Header(2, "Options")
	flagTable(w, root.LocalFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings come from %s (searched upward from the working directory), then %s environment variables, then flags. Later sources win. Every option with an environment column can also be set as a key of the config file, with dashes replaced by underscores.",
		InlineCode(config.ConfigFileNames[0]), InlineCode(config.EnvPrefix+"*")))

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "No file changed"},
		{InlineCode("1"), "A file was rewritten (unless --exit-zero-even-if-changed), could not be processed, or the command failed"},
	})
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()
	w.Header(1, cmd.CommandPath())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	if subs := documented(cmd); len(subs) > 0 {
		w.CodeBlock("bash", cmd.CommandPath()+" <subcommand> [options]")
		w.Header(2, "Subcommands")
		commandTable(w, subs)
	} else {
		w.CodeBlock("bash", cmd.UseLine())
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		flagTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		flagTable(w, cmd.InheritedFlags())
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w
}

// flagTable lists flags with the environment variable that sets the same
// option, when there is one.
func flagTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := f.DefValue
		if def != "" && def != "[]" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		} else if def == "[]" {
			def = ""
		}
		env := ""
		if v := envVar(f.Name); v != "" {
			env = InlineCode(v)
		}
		rows = append(rows, []string{name, env, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Environment", "Default", "Description"}, rows)
}

// envVar returns the LEAPUP_* variable for a flag, or "" for flags that only
// exist on the command line.
func envVar(flag string) string {
	if _, ok := config.VersionFlags[flag]; ok {
		return ""
	}
	switch flag {
	case "config", "help", "version", "watch":
		return ""
	}
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// cleanExample strips the two-space indent cobra examples are written with.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
