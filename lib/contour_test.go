package lib

import (
	"image"
	"image/color"
	"math"
	"testing"

	"gocv.io/x/gocv"
)

func TestContourCentroid(t *testing.T) {
	tests := []struct {
		name string
		pts  []image.Point
		want image.Point
	}{
		{"square", []image.Point{{100, 100}, {100, 300}, {300, 300}, {300, 100}}, image.Pt(200, 200)},
		{"square reversed", []image.Point{{300, 100}, {300, 300}, {100, 300}, {100, 100}}, image.Pt(200, 200)},
		{"triangle", []image.Point{{0, 0}, {30, 0}, {0, 30}}, image.Pt(10, 10)},
		{"fractional centroid truncates", []image.Point{{0, 0}, {0, 5}, {5, 5}, {5, 0}}, image.Pt(2, 2)},
		{"line has no area", []image.Point{{0, 0}, {10, 10}}, image.Point{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pv := gocv.NewPointVectorFromPoints(tc.pts)
			defer pv.Close()

			if got := ContourCentroid(pv); got != tc.want {
				t.Errorf("ContourCentroid = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCentroid_ZeroArea(t *testing.T) {
	if got := centroid(map[string]float64{"m00": 0, "m10": 5, "m01": 5}); got != (image.Point{}) {
		t.Errorf("centroid = %v, want (0,0)", got)
	}
}

func TestFindBlobs_TriangleCentroid(t *testing.T) {
	mask := maskWith(600, 600)
	defer mask.Close()

	tri := gocv.NewPointsVectorFromPoints([][]image.Point{{{100, 100}, {400, 100}, {100, 400}}})
	defer tri.Close()
	gocv.FillPoly(&mask, tri, color.RGBA{255, 255, 255, 0})

	blobs := FindBlobs(mask, MinBlobArea)
	defer blobs.Close()

	if !blobs.Found() {
		t.Fatal("expected the triangle to qualify")
	}
	c := blobs.Largest.Centroid
	if math.Abs(float64(c.X-200)) > 2 || math.Abs(float64(c.Y-200)) > 2 {
		t.Errorf("centroid = %v, want ~(200,200)", c)
	}
}

// maskWith returns a black 8UC1 mask with the given filled rectangles
func maskWith(rows, cols int, rects ...image.Rectangle) gocv.Mat {
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
	for _, r := range rects {
		gocv.Rectangle(&mask, r, color.RGBA{255, 255, 255, 0}, -1)
	}
	return mask
}

func near(a, b image.Point) bool {
	return math.Abs(float64(a.X-b.X)) <= 1 && math.Abs(float64(a.Y-b.Y)) <= 1
}

func TestFindBlobs_Single(t *testing.T) {
	mask := maskWith(480, 640, image.Rect(100, 100, 300, 300))
	defer mask.Close()

	blobs := FindBlobs(mask, MinBlobArea)
	defer blobs.Close()

	if !blobs.Found() {
		t.Fatal("expected a blob")
	}
	if len(blobs.All) != 1 {
		t.Fatalf("got %d blobs, want 1", len(blobs.All))
	}
	if blobs.Largest.Area != 40000 {
		t.Errorf("area = %d, want 40000", blobs.Largest.Area)
	}
	if !near(blobs.Largest.Centroid, image.Pt(200, 200)) {
		t.Errorf("centroid = %v, want ~(200,200)", blobs.Largest.Centroid)
	}
}

func TestFindBlobs_BelowMinArea(t *testing.T) {
	// 50x50 is well below the minimum
	mask := maskWith(480, 640, image.Rect(10, 10, 60, 60))
	defer mask.Close()

	blobs := FindBlobs(mask, MinBlobArea)
	defer blobs.Close()

	if blobs.Found() {
		t.Errorf("expected no blobs, got %d", len(blobs.All))
	}
	if blobs.Largest.Centroid != (image.Point{}) {
		t.Errorf("centroid = %v, want zero", blobs.Largest.Centroid)
	}
}

func TestFindBlobs_AreaIsStrict(t *testing.T) {
	// Contour of a filled 101x101 block spans 100x100 = MinBlobArea exactly
	mask := maskWith(300, 300, image.Rect(50, 50, 150, 150))
	defer mask.Close()

	blobs := FindBlobs(mask, MinBlobArea)
	defer blobs.Close()

	if blobs.Found() {
		t.Errorf("area %d should not pass a strict > %d test", MinBlobArea, MinBlobArea)
	}
}

func TestFindBlobs_PicksLargest(t *testing.T) {
	mask := maskWith(720, 1280,
		image.Rect(50, 50, 200, 200),    // 150x150
		image.Rect(600, 300, 900, 600),  // 300x300
		image.Rect(1000, 50, 1020, 70),  // too small
	)
	defer mask.Close()

	blobs := FindBlobs(mask, MinBlobArea)
	defer blobs.Close()

	if len(blobs.All) != 2 {
		t.Fatalf("got %d qualifying blobs, want 2", len(blobs.All))
	}
	if blobs.Largest.Area != 90000 {
		t.Errorf("largest area = %d, want 90000", blobs.Largest.Area)
	}
	if !near(blobs.Largest.Centroid, image.Pt(750, 450)) {
		t.Errorf("largest centroid = %v, want ~(750,450)", blobs.Largest.Centroid)
	}
}

func TestDrawBlobs(t *testing.T) {
	mask := maskWith(240, 320, image.Rect(20, 20, 220, 200))
	defer mask.Close()

	blobs := FindBlobs(mask, MinBlobArea)
	defer blobs.Close()

	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer canvas.Close()
	DrawBlobs(&canvas, blobs)

	// Outline is blue in BGR: channel 0 set, channels 1 and 2 clear
	if v := canvas.GetVecbAt(20, 20); v[0] != 255 || v[1] != 0 || v[2] != 0 {
		t.Errorf("corner pixel = %v, want blue", v)
	}
	if v := canvas.GetVecbAt(110, 120); v[0] != 0 {
		t.Errorf("interior pixel = %v, want untouched", v)
	}
}
