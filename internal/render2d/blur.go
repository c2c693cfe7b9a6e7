package render2d

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// BlurImage applies a Gaussian blur with a (2*radius+1) square kernel.
func BlurImage(img image.Image, radius int) (image.Image, error) {
	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("convert to mat: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	k := 2*radius + 1
	gocv.GaussianBlur(src, &dst, image.Pt(k, k), 0, 0, gocv.BorderReplicate)

	out, err := dst.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert from mat: %w", err)
	}
	return out, nil
}
