package renderer

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ln64-git/setwallpaper/src/config"
	wperrors "github.com/ln64-git/setwallpaper/src/errors"
)

// LoadImage decodes an image file. Any failure is an ImageLoadError.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wperrors.WithPath(wperrors.KindImageLoad, "load image", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, wperrors.WithPath(wperrors.KindImageLoad, "decode image", path, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, wperrors.WithPath(wperrors.KindImageLoad, "decode image", path, fmt.Errorf("empty image"))
	}
	return img, nil
}

// Interpolator picks the resampling kernel for a scaler setting
func Interpolator(s config.Scaler) draw.Interpolator {
	if s == config.ScalerFast {
		return draw.ApproxBiLinear
	}
	return draw.CatmullRom
}

// Scale resizes the full extent of src to exactly width x height. The aspect
// ratio is not preserved.
func Scale(src image.Image, width, height int, interp draw.Interpolator) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// encodeRows converts rows [y0, y0+rows) of img into 32-bit ZPixmap data.
// LSB-first servers expect B,G,R,X; MSB-first servers expect X,R,G,B.
func encodeRows(img *image.RGBA, y0, rows int, msbFirst bool) []byte {
	width := img.Rect.Dx()
	out := make([]byte, width*rows*4)
	i := 0
	for y := y0; y < y0+rows; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width*4; x += 4 {
			r, g, b := row[x], row[x+1], row[x+2]
			if msbFirst {
				out[i], out[i+1], out[i+2], out[i+3] = 0, r, g, b
			} else {
				out[i], out[i+1], out[i+2], out[i+3] = b, g, r, 0
			}
			i += 4
		}
	}
	return out
}
