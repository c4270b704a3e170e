package lib

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MinBlobArea is the contour area a blob must exceed to count
const MinBlobArea = 10000

// Blob is a qualifying contour with its area and center of mass
type Blob struct {
	Index    int // index into Blobs.Contours
	Area     int
	Centroid image.Point
}

// Blobs is the result of contour extraction on a mask.
// Contours holds every contour found; All holds only the qualifying ones.
type Blobs struct {
	Contours gocv.PointsVector
	All      []Blob
	Largest  Blob
}

// Found reports whether any contour passed the area test
func (b *Blobs) Found() bool {
	return len(b.All) > 0
}

// Close releases the contour storage
func (b *Blobs) Close() {
	b.Contours.Close()
}

// FindBlobs extracts contours from a binary mask and keeps those whose
// area is strictly greater than minArea.
func FindBlobs(mask gocv.Mat, minArea int) Blobs {
	contours := gocv.FindContours(mask, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	result := Blobs{Contours: contours}

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := int(gocv.ContourArea(contour))
		if area <= minArea {
			continue
		}

		blob := Blob{
			Index:    i,
			Area:     area,
			Centroid: ContourCentroid(contour),
		}
		result.All = append(result.All, blob)

		if blob.Area > result.Largest.Area {
			result.Largest = blob
		}
	}

	return result
}

// DrawBlobs outlines every qualifying contour on dst
func DrawBlobs(dst *gocv.Mat, blobs Blobs) {
	outline := color.RGBA{0, 0, 255, 0}
	for _, b := range blobs.All {
		gocv.DrawContours(dst, blobs.Contours, b.Index, outline, 2)
	}
}

// ContourCentroid returns the contour's center of mass from its image
// moments, truncated to integer pixels. A zero-area contour yields (0, 0).
func ContourCentroid(contour gocv.PointVector) image.Point {
	mat := gocv.NewMatFromPointVector(contour, false)
	defer mat.Close()
	return centroid(gocv.Moments(mat, false))
}

func centroid(m map[string]float64) image.Point {
	m00 := m["m00"]
	if m00 == 0 {
		return image.Point{}
	}
	return image.Pt(int(m["m10"]/m00), int(m["m01"]/m00))
}
