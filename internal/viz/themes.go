package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the canvas and the stats pane.
type Theme struct {
	Name       string
	Arm1       lipgloss.Color // inner bob trail
	Arm2       lipgloss.Color // outer bob trail and title
	Rod        lipgloss.Color
	Bob        lipgloss.Color
	Grab       lipgloss.Color // bob under the pointer, notices
	Background lipgloss.Color
	Muted      lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:       "neon",
		Arm1:       lipgloss.Color("#00e5ff"),
		Arm2:       lipgloss.Color("#ff3df2"),
		Rod:        lipgloss.Color("#f5f5f5"),
		Bob:        lipgloss.Color("#fff35c"),
		Grab:       lipgloss.Color("#ff8a00"),
		Background: lipgloss.Color("#0b0b12"),
		Muted:      lipgloss.Color("#5c5c70"),
	}

	ThemePhosphor = Theme{
		Name:       "phosphor",
		Arm1:       lipgloss.Color("#1fbf4a"),
		Arm2:       lipgloss.Color("#7dff9b"),
		Rod:        lipgloss.Color("#39ff6a"),
		Bob:        lipgloss.Color("#d8ffe0"),
		Grab:       lipgloss.Color("#e6ff3d"),
		Background: lipgloss.Color("#001005"),
		Muted:      lipgloss.Color("#0f5a22"),
	}

	ThemeChalk = Theme{
		Name:       "chalk",
		Arm1:       lipgloss.Color("#9aa5b1"),
		Arm2:       lipgloss.Color("#3d8bfd"),
		Rod:        lipgloss.Color("#ffffff"),
		Bob:        lipgloss.Color("#ffffff"),
		Grab:       lipgloss.Color("#ffb020"),
		Background: lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#7a7a7a"),
	}

	ThemeTide = Theme{
		Name:       "tide",
		Arm1:       lipgloss.Color("#2a9df4"),
		Arm2:       lipgloss.Color("#52e0c4"),
		Rod:        lipgloss.Color("#dcefff"),
		Bob:        lipgloss.Color("#ffd23f"),
		Grab:       lipgloss.Color("#ff6f59"),
		Background: lipgloss.Color("#021526"),
		Muted:      lipgloss.Color("#3b6e8f"),
	}

	ThemeEmber = Theme{
		Name:       "ember",
		Arm1:       lipgloss.Color("#ffb347"),
		Arm2:       lipgloss.Color("#ff5e62"),
		Rod:        lipgloss.Color("#fff1e6"),
		Bob:        lipgloss.Color("#ffe66d"),
		Grab:       lipgloss.Color("#ff2e63"),
		Background: lipgloss.Color("#1f0f14"),
		Muted:      lipgloss.Color("#7d5260"),
	}

	Themes = []Theme{
		ThemeNeon,
		ThemePhosphor,
		ThemeChalk,
		ThemeTide,
		ThemeEmber,
	}
)

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Canvas tones. Each trail gets fadeLevels tones from Muted up to its
// colour; rods and masses sit above them so they are drawn over trails.
const fadeLevels = 4

const (
	toneBlank  uint8 = 0
	toneTrail1 uint8 = 1
	toneTrail2 uint8 = toneTrail1 + fadeLevels
	toneRod    uint8 = toneTrail2 + fadeLevels
	toneMass   uint8 = toneRod + 1
	toneDrag   uint8 = toneMass + 1
)

// trailTone picks the fade level for an opacity in (0, 1].
func trailTone(base uint8, alpha float64) uint8 {
	level := int(alpha*fadeLevels + 0.5)
	level = max(1, min(fadeLevels, level))
	return base + uint8(level-1)
}

// Palette returns the style for every canvas tone.
func (t Theme) Palette() []lipgloss.Style {
	p := make([]lipgloss.Style, toneDrag+1)
	p[toneBlank] = lipgloss.NewStyle().Foreground(t.Muted)
	for i := 0; i < fadeLevels; i++ {
		f := float64(i+1) / fadeLevels
		p[toneTrail1+uint8(i)] = lipgloss.NewStyle().Foreground(Blend(t.Background, t.Arm1, f))
		p[toneTrail2+uint8(i)] = lipgloss.NewStyle().Foreground(Blend(t.Background, t.Arm2, f))
	}
	p[toneRod] = lipgloss.NewStyle().Foreground(t.Rod)
	p[toneMass] = lipgloss.NewStyle().Foreground(t.Bob).Bold(true)
	p[toneDrag] = lipgloss.NewStyle().Foreground(t.Grab).Bold(true)
	return p
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
