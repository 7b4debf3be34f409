package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-chip8/chip8/video"
)

var palette = color.Palette{
	color.Gray{Y: 0x00}, // off
	color.Gray{Y: 0xFF}, // on
}

// FrameImage converts a framebuffer into a two-colour image, each display
// pixel drawn as a scale×scale block.
func FrameImage(frame *video.FrameBuffer, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}

	w, h := frame.Width(), frame.Height()
	img := image.NewPaletted(image.Rect(0, 0, w*scale, h*scale), palette)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !frame.GetPixel(x, y) {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				row := (y*scale + dy) * img.Stride
				for dx := 0; dx < scale; dx++ {
					img.Pix[row+x*scale+dx] = 1
				}
			}
		}
	}

	return img
}

// TakeSnapshot saves the frame in the working directory, used by backends
// when the user asks for a snapshot.
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, "chip8_snapshot", ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// SaveFramePNGToDir saves a framebuffer as <baseName>_<timestamp>.png in
// directory, or in the working directory when directory is empty. It returns
// the path written.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	timestamp := time.Now().Format("20060102_150405")
	filePath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.png", baseName, timestamp))

	if err := SaveFramePNG(frame, filePath, snapshotScale); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width(), frame.Height()))
	return filePath, nil
}

const snapshotScale = 4

// SaveFramePNG encodes the frame as a PNG at path.
func SaveFramePNG(frame *video.FrameBuffer, path string, scale int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := png.Encode(file, FrameImage(frame, scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
