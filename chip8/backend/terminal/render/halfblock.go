package render

import "github.com/valerio/go-chip8/chip8/video"

// HalfBlock returns the character showing two vertically stacked pixels in
// one terminal cell.
func HalfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

// FrameLines renders the framebuffer as Height/2 lines of half blocks.
func FrameLines(frame *video.FrameBuffer) []string {
	w, h := frame.Width(), frame.Height()
	lines := make([]string, 0, (h+1)/2)

	row := make([]rune, w)
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			bottom := y+1 < h && frame.GetPixel(x, y+1)
			row[x] = HalfBlock(frame.GetPixel(x, y), bottom)
		}
		lines = append(lines, string(row))
	}
	return lines
}
