package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Theme picks the field colormap of the terminal player together with the
// sidebar colors that go with it.
type Theme struct {
	Name     string
	Colormap string
	Value    lipgloss.Color
	Graph    lipgloss.Color
	Border   lipgloss.Color
}

var themes = []Theme{
	{Name: "ember", Colormap: "inferno", Value: "#fca50a", Graph: "#f57d15", Border: "#420a68"},
	{Name: "forest", Colormap: "viridis", Value: "#5ec962", Graph: "#21918c", Border: "#3b528b"},
	{Name: "dusk", Colormap: "magma", Value: "#fc8961", Graph: "#b73779", Border: "#51127c"},
	{Name: "neon", Colormap: "plasma", Value: "#f89540", Graph: "#cc4778", Border: "#7e03a8"},
	{Name: "spectrum", Colormap: "turbo", Value: "#a4fc3c", Graph: "#1ae4b6", Border: "#4662d7"},
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// ThemeByName looks a theme up by its name.
func ThemeByName(name string) (Theme, error) {
	for _, t := range themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: theme %q (available: %v)", dynamo.ErrUnsupportedMode, name, ThemeNames())
}

// themeFor returns the theme built on colormap, or the first theme.
func themeFor(colormap string) Theme {
	for _, t := range themes {
		if t.Colormap == colormap {
			return t
		}
	}
	return themes[0]
}

// Next returns the theme after t, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range themes {
		if th.Name == t.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
