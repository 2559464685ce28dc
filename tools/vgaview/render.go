package main

import (
	"vgaos/device/video/console"

	"github.com/gdamore/tcell/v2"
)

// paletteColors converts the text-mode palette into tcell colors indexed by
// console.Color.
func paletteColors() [16]tcell.Color {
	var colors [16]tcell.Color
	for i, c := range console.Palette() {
		r, g, b, _ := c.RGBA()
		colors[i] = tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
	}
	return colors
}

// render draws cells onto screen with the top-left cell at (0, 0).
func render(screen tcell.Screen, cells []console.Cell) {
	colors := paletteColors()

	screen.Clear()
	for i, cell := range cells {
		attr := cell.Attr()
		style := tcell.StyleDefault.
			Foreground(colors[attr.Fg()]).
			Background(colors[attr.Bg()])
		screen.SetContent(i%gridWidth, i/gridWidth, cp437[cell.Char()], nil, style)
	}
	screen.Show()
}

// view renders cells and blocks until the user presses Esc or q.
func view(screen tcell.Screen, cells []console.Cell) {
	render(screen, cells)

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return
			}
		}
	}
}
