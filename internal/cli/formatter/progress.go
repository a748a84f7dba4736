package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// sparkBlocks are the eighth-height bar glyphs, lowest first.
var sparkBlocks = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

func clampFraction(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

func bar(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(clampFraction(pct) * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored by how far along the session is: purple until
// halfway, blue after, green when full.
func RenderProgress(pct float64, width int) string {
	pct = clampFraction(pct)

	style := StylePurple
	switch {
	case pct >= 1:
		style = StyleGreen
	case pct >= 0.5:
		style = StyleBlue
	}

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar(pct, width)), pctStr)
}

// RenderCompactBar renders a bare bar with no brackets or percentage.
func RenderCompactBar(pct float64, width int, dim bool) string {
	b := bar(pct, width)
	if dim {
		return b
	}
	return StyleGreen.Render(b)
}

// Sparkline renders one glyph per value scaled against max. Zero values
// render as a dim baseline dot.
func Sparkline(values []int, max int) string {
	var b strings.Builder
	for _, v := range values {
		if v <= 0 || max <= 0 {
			b.WriteString(StyleDim.Render("·"))
			continue
		}
		idx := (v*len(sparkBlocks) - 1) / max
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		b.WriteString(StyleGreen.Render(sparkBlocks[idx]))
	}
	return b.String()
}
