package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Thumbnail scales img down to fit within maxW×maxH, keeping the aspect
// ratio. Images that already fit are copied unscaled.
func Thumbnail(img image.Image, maxW, maxH int) *image.RGBA {
	return scaleTo(img, min(1, fitScale(img.Bounds(), maxW, maxH)))
}

// Fit scales img up or down to the largest size within maxW×maxH that
// keeps the aspect ratio.
func Fit(img image.Image, maxW, maxH int) *image.RGBA {
	return scaleTo(img, fitScale(img.Bounds(), maxW, maxH))
}

func fitScale(b image.Rectangle, maxW, maxH int) float64 {
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 1
	}
	return min(float64(maxW)/float64(b.Dx()), float64(maxH)/float64(b.Dy()))
}

func scaleTo(img image.Image, scale float64) *image.RGBA {
	b := img.Bounds()
	tw, th := max(1, int(float64(b.Dx())*scale+0.5)), max(1, int(float64(b.Dy())*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	if tw == b.Dx() && th == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
