package viz

import (
	"fmt"
	"strings"
)

// CanvasToSVG converts a braille canvas to a dot-matrix SVG.
func CanvasToSVG(canvas *Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#e8e8e8">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
