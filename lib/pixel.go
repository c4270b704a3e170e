package lib

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Green filter thresholds. These are fixed for the demo.
const (
	MinGreen       = 100
	GreenDominance = 1.15
)

// ErrEmptyFrame is returned when a pipeline stage receives an empty Mat
var ErrEmptyFrame = errors.New("empty frame")

// Pixel holds one pixel in both BGR and HSV form
type Pixel struct {
	Red, Green, Blue       uint8
	Hue, Saturation, Value uint8
}

// IsGreen reports whether the pixel passes the green threshold test
func IsGreen(p Pixel) bool {
	g := float64(p.Green)
	return p.Green > MinGreen &&
		g > float64(p.Red)*GreenDominance &&
		g > float64(p.Blue)*GreenDominance
}

// GreenMask returns a single channel mask with 255 wherever frame is green.
// The caller owns the returned Mat.
func GreenMask(frame gocv.Mat) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), ErrEmptyFrame
	}
	if frame.Type() != gocv.MatTypeCV8UC3 {
		return gocv.NewMat(), fmt.Errorf("green mask: want 8UC3 frame, got %v", frame.Type())
	}

	src := frame
	if !frame.IsContinuous() {
		src = frame.Clone()
		defer src.Close()
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	rows, cols := src.Rows(), src.Cols()
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)

	bgr, err := src.DataPtrUint8()
	if err != nil {
		mask.Close()
		return gocv.NewMat(), fmt.Errorf("green mask: read frame: %w", err)
	}
	hsvData, err := hsv.DataPtrUint8()
	if err != nil {
		mask.Close()
		return gocv.NewMat(), fmt.Errorf("green mask: read hsv: %w", err)
	}
	out, err := mask.DataPtrUint8()
	if err != nil {
		mask.Close()
		return gocv.NewMat(), fmt.Errorf("green mask: write mask: %w", err)
	}

	var p Pixel
	for r := 0; r < rows; r++ {
		row := r * cols
		for c := 0; c < cols; c++ {
			i := (row + c) * 3
			p.Blue, p.Green, p.Red = bgr[i], bgr[i+1], bgr[i+2]
			p.Hue, p.Saturation, p.Value = hsvData[i], hsvData[i+1], hsvData[i+2]
			if IsGreen(p) {
				out[row+c] = 255
			}
		}
	}

	return mask, nil
}
