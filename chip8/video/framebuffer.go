package video

import "github.com/valerio/go-chip8/chip8/bit"

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32
	FramebufferSize   = FramebufferWidth * FramebufferHeight

	// SpriteWidth is the width in pixels of every sprite row (one byte).
	SpriteWidth = 8
)

// FrameBuffer is the monochrome display. Pixels are stored row-major in a
// single flat array, so every cell is independent.
type FrameBuffer struct {
	buffer [FramebufferSize]bool
}

// NewFrameBuffer creates a cleared frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) Width() int  { return FramebufferWidth }
func (fb *FrameBuffer) Height() int { return FramebufferHeight }

// GetPixel returns the pixel at (x, y). Coordinates wrap around the edges.
func (fb *FrameBuffer) GetPixel(x, y int) bool {
	return fb.buffer[index(x, y)]
}

// SetPixel sets the pixel at (x, y). Coordinates wrap around the edges.
func (fb *FrameBuffer) SetPixel(x, y int, on bool) {
	fb.buffer[index(x, y)] = on
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = false
	}
}

// Blit XORs the sprite rows onto the display with (x, y) as the top left
// corner. Each row is 8 pixels wide, most significant bit first. Pixels past
// an edge wrap around to the opposite one. Returns true if any pixel was
// turned off by the draw.
func (fb *FrameBuffer) Blit(x, y uint8, rows []byte) bool {
	collision := false

	for row, data := range rows {
		for col := 0; col < SpriteWidth; col++ {
			if !bit.IsSet(uint8(SpriteWidth-1-col), data) {
				continue
			}

			i := index(int(x)+col, int(y)+row)
			if fb.buffer[i] {
				collision = true
			}
			fb.buffer[i] = !fb.buffer[i]
		}
	}

	return collision
}

// ToSlice returns a copy of the pixels, row-major.
func (fb *FrameBuffer) ToSlice() []bool {
	out := make([]bool, FramebufferSize)
	copy(out, fb.buffer[:])
	return out
}

// Equal reports whether two frame buffers hold the same pixels.
func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	return fb.buffer == other.buffer
}

// Clone returns an independent copy of the frame buffer.
func (fb *FrameBuffer) Clone() *FrameBuffer {
	c := *fb
	return &c
}

func index(x, y int) int {
	x %= FramebufferWidth
	if x < 0 {
		x += FramebufferWidth
	}
	y %= FramebufferHeight
	if y < 0 {
		y += FramebufferHeight
	}
	return y*FramebufferWidth + x
}
