package process

import "github.com/charmbracelet/lipgloss"

// Color is a sum type over the fixed 8-base + 8-bright ANSI palette used
// to colourise concurrent children's output prefixes.
type Color int

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

var colorsByName = map[string]Color{
	"black":          ColorBlack,
	"red":            ColorRed,
	"green":          ColorGreen,
	"yellow":         ColorYellow,
	"blue":           ColorBlue,
	"magenta":        ColorMagenta,
	"cyan":           ColorCyan,
	"white":          ColorWhite,
	"bright_black":   ColorBrightBlack,
	"bright_red":     ColorBrightRed,
	"bright_green":   ColorBrightGreen,
	"bright_yellow":  ColorBrightYellow,
	"bright_blue":    ColorBrightBlue,
	"bright_magenta": ColorBrightMagenta,
	"bright_cyan":    ColorBrightCyan,
	"bright_white":   ColorBrightWhite,
}

// ansiIndex maps each named colour to its ANSI 4-bit terminal code
// (0-7 base, 8-15 bright), the form lipgloss.Color expects for basic
// terminal colours.
var ansiIndex = map[Color]string{
	ColorBlack:         "0",
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightBlack:   "8",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
}

// SixColorPalette is the round-robin rotation spec.md's prefix plugin
// assigns to concurrent children, by name.
var SixColorPalette = []string{"cyan", "magenta", "yellow", "green", "blue", "red"}

// colorize wraps text in the named colour's ANSI escape via lipgloss.
// An unknown or empty name, or ColorDefault, renders text unchanged.
func colorize(name, text string) string {
	c, ok := colorsByName[name]
	if !ok || c == ColorDefault {
		return text
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ansiIndex[c]))
	return style.Render(text)
}
