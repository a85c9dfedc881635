package styles

import (
	"image/color"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// GlamourStyleConfig returns the dark glamour style with headings and links
// recolored from the active palette, so rendered markdown matches the rest
// of the TUI.
func GlamourStyleConfig() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	primary := hexOf(CurrentPalette.Primary)
	secondary := hexOf(CurrentPalette.Secondary)

	cfg.H1.Color = &primary
	cfg.H2.Color = &primary
	cfg.H3.Color = &secondary
	cfg.Link.Color = &secondary

	return cfg
}

// PrimaryHex returns the active primary color as a hex string, for
// components still styled through lipgloss v1.
func PrimaryHex() string {
	return hexOf(CurrentPalette.Primary)
}

func hexOf(c color.Color) string {
	if c == nil {
		return "#ffffff"
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#ffffff"
	}
	return cf.Hex()
}
