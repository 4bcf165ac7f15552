package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapup/internal/cli/output"
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins"
)

// PluginInfo describes one rule module for listing.
type PluginInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Kinds       []string `json:"kinds"`
	Enabled     bool     `json:"enabled"`
}

// PluginsJSONOutput is the JSON output structure for the plugin listing.
type PluginsJSONOutput struct {
	Plugins []PluginInfo `json:"plugins"`
	Enabled int          `json:"enabled"`
	Total   int          `json:"total"`
}

// NewPluginsCommand creates the plugins command.
func NewPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List available rewrite plugins",
		Long: `List built-in and scripted rewrite plugins with the node kinds they
inspect and whether the current settings enable them.

Output adapts to environment:
  - Terminal: table
  - Piped/Scripted: Markdown table
  - JSON: Machine-readable format`,
		Example: `  # List plugins
  leapup plugins

  # Show which plugins remain with a disable list
  leapup plugins --disable mock,io_open

  # Output as JSON
  leapup plugins -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			eng, err := cc.Engine(nil)
			if err != nil {
				return err
			}
			infos, err := collectPlugins(eng.Registry(), eng.Settings())
			if err != nil {
				return err
			}
			return renderPlugins(cc.Renderer, infos)
		},
	}
}

func collectPlugins(reg *rewrite.Registry, settings rewrite.Settings) ([]PluginInfo, error) {
	builtin := make(map[string]bool)
	for _, m := range plugins.All() {
		builtin[m.Name] = true
	}

	infos := make([]PluginInfo, 0, reg.Len())
	for _, name := range reg.Names() {
		m, _ := reg.Module(name)
		enabled, err := settings.IsPluginEnabled(name)
		if err != nil {
			return nil, err
		}
		info := PluginInfo{
			Name:        name,
			Description: m.Description,
			Source:      "scripted",
			Enabled:     enabled,
		}
		if builtin[name] {
			info.Source = "built-in"
		}
		for _, k := range m.Kinds() {
			info.Kinds = append(info.Kinds, k.String())
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func renderPlugins(r *output.Renderer, infos []PluginInfo) error {
	enabled := 0
	for _, p := range infos {
		if p.Enabled {
			enabled++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(PluginsJSONOutput{Plugins: infos, Enabled: enabled, Total: len(infos)})
	}

	rows := make([][]string, 0, len(infos))
	for _, p := range infos {
		state := "no"
		if p.Enabled {
			state = "yes"
		}
		rows = append(rows, []string{p.Name, output.Title(p.Source), state, strings.Join(p.Kinds, ", "), p.Description})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("# Plugins")
		r.Println("")
	} else {
		r.Println(r.Styles().Header.Render("Plugins"))
	}
	r.Table([]string{"Name", "Source", "Enabled", "Kinds", "Description"}, rows)
	r.Printf("\n%d of %d plugins enabled\n", enabled, len(infos))
	return nil
}
