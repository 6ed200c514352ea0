package loaders

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/texture"
)

// srgbToLinear is a 16-bit lookup table for the sRGB transfer function.
var srgbToLinear = func() []float64 {
	lut := make([]float64, 65536)
	for i := range lut {
		c := float64(i) / 65535.0
		if c <= 0.04045 {
			lut[i] = c / 12.92
		} else {
			lut[i] = math.Pow((c+0.055)/1.055, 2.4)
		}
	}
	return lut
}()

// LoadTexture loads an image file and converts it to a linear-light texture.
// The format is detected from the file header.
func LoadTexture(filename string) (*texture.ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	tex, err := DecodeTexture(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return tex, nil
}

// DecodeTexture decodes an sRGB encoded image from r into linear RGB.
func DecodeTexture(r io.Reader) (*texture.ImageTexture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns alpha-premultiplied 16-bit channels; textures are opaque
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewVec3(srgbToLinear[r], srgbToLinear[g], srgbToLinear[b])
		}
	}

	return texture.NewImageTexture(width, height, pixels), nil
}
