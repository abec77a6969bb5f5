package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the framebuffer into area of a terminal screen. Each cell
// shows two pixel rows with an upper half block, so a framebuffer meant to
// fill the area should be area.Dx() wide and 2*area.Dy() tall (see
// Resample).
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	fb.mu.RLock()
	defer fb.mu.RUnlock()

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := 2 * (row - area.Min.Y)
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			var bot color.RGBA
			if botY < fb.Height {
				bot = fb.pixel(x, botY)
			}

			// ▀ takes the top pixel as foreground, the bottom as background
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.pixel(x, topY)),
					Bg: rgbaToColor(bot),
				},
			})
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
