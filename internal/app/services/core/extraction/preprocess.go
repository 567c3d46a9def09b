package extraction

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

const fixedBinarizeThreshold = 150

// preprocessVariants decodes a document image and produces the two
// binarized variants the recognizer runs over: a fixed-threshold pass and a
// contrast-boosted pass thresholded at the image mean. Whichever variant
// the recognizer reads more text from wins downstream.
func preprocessVariants(data []byte) ([][]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	gray := imaging.Grayscale(img)
	fixed := binarize(gray, fixedBinarizeThreshold)

	contrasted := imaging.AdjustContrast(gray, 20)
	adaptive := binarize(contrasted, meanLuminance(contrasted))

	variants := make([][]byte, 0, 2)
	for _, variant := range []*image.NRGBA{fixed, adaptive} {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, variant, imaging.PNG); err != nil {
			return nil, err
		}
		variants = append(variants, buf.Bytes())
	}
	return variants, nil
}

// binarize maps every pixel strictly above the threshold to white and the
// rest to black. The input is already grayscale, so the red channel carries
// the luminance.
func binarize(src *image.NRGBA, threshold uint8) *image.NRGBA {
	dst := imaging.Clone(src)
	for i := 0; i < len(dst.Pix); i += 4 {
		v := uint8(0)
		if dst.Pix[i] > threshold {
			v = 255
		}
		dst.Pix[i] = v
		dst.Pix[i+1] = v
		dst.Pix[i+2] = v
		dst.Pix[i+3] = 255
	}
	return dst
}

func meanLuminance(src *image.NRGBA) uint8 {
	var sum, count uint64
	for i := 0; i < len(src.Pix); i += 4 {
		sum += uint64(src.Pix[i])
		count++
	}
	if count == 0 {
		return fixedBinarizeThreshold
	}
	return uint8(sum / count)
}
