package lib

import (
	"errors"
	"fmt"
	"image"

	"blobslide/internal/log"
	"gocv.io/x/gocv"
)

// ErrNoFrame is returned when the camera did not deliver a frame
var ErrNoFrame = errors.New("no frame from camera")

// Detection is the outcome of running the pipeline on one frame
type Detection struct {
	Blobs   int  // number of qualifying contours
	Found   bool // at least one contour qualified
	Largest Blob
	Action  Action
}

// CenterOfMass returns the largest blob's centroid, or (0, 0) when nothing was found
func (d Detection) CenterOfMass() image.Point {
	if !d.Found {
		return image.Point{}
	}
	return d.Largest.Centroid
}

// Pipeline turns frames into motion decisions and keeps the contour
// overlay of the last frame for display.
type Pipeline struct {
	overlay gocv.Mat
}

// NewPipeline creates a pipeline with an empty overlay
func NewPipeline() *Pipeline {
	return &Pipeline{overlay: gocv.NewMat()}
}

// Process runs filter, contour extraction and decision on one BGR frame
func (p *Pipeline) Process(frame gocv.Mat) (Detection, error) {
	mask, err := GreenMask(frame)
	if err != nil {
		return Detection{}, fmt.Errorf("process frame: %w", err)
	}
	defer mask.Close()

	blobs := FindBlobs(mask, MinBlobArea)
	defer blobs.Close()

	p.overlay.Close()
	p.overlay = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), mask.Rows(), mask.Cols(), gocv.MatTypeCV8UC3)
	DrawBlobs(&p.overlay, blobs)

	det := Detection{
		Blobs:   len(blobs.All),
		Found:   blobs.Found(),
		Largest: blobs.Largest,
	}
	det.Action = Decide(det.CenterOfMass().X)

	log.Debug("center of mass", "x", det.CenterOfMass().X, "blobs", det.Blobs, "action", det.Action)
	return det, nil
}

// Overlay returns the contour drawing of the last processed frame.
// The Mat stays owned by the pipeline and is replaced on the next Process.
func (p *Pipeline) Overlay() gocv.Mat {
	return p.overlay
}

// Close releases the overlay
func (p *Pipeline) Close() {
	p.overlay.Close()
}

// FrameDrops counts consecutive frames the camera failed to deliver
type FrameDrops struct {
	missed int
}

// Miss records a dropped frame and reports whether it started a new run of drops
func (f *FrameDrops) Miss() bool {
	f.missed++
	return f.missed == 1
}

// Recover ends a run of drops and returns how many frames it lasted
func (f *FrameDrops) Recover() int {
	n := f.missed
	f.missed = 0
	return n
}

// ColorDetector reads frames from a webcam and runs them through a Pipeline
type ColorDetector struct {
	Config   Config
	webcam   *gocv.VideoCapture
	frame    gocv.Mat
	pipeline *Pipeline
}

// NewColorDetector opens the configured camera
func NewColorDetector(config Config) (*ColorDetector, error) {
	webcam, err := gocv.OpenVideoCapture(config.CameraID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", config.CameraID, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, fmt.Errorf("open camera %d: device not available", config.CameraID)
	}

	return &ColorDetector{
		Config:   config,
		webcam:   webcam,
		frame:    gocv.NewMat(),
		pipeline: NewPipeline(),
	}, nil
}

// Step reads the next frame and returns the detection for it
func (cd *ColorDetector) Step() (Detection, error) {
	if ok := cd.webcam.Read(&cd.frame); !ok || cd.frame.Empty() {
		return Detection{}, ErrNoFrame
	}
	return cd.pipeline.Process(cd.frame)
}

// Overlay returns the contour drawing of the last frame
func (cd *ColorDetector) Overlay() gocv.Mat {
	return cd.pipeline.Overlay()
}

// Close releases the camera and all buffers
func (cd *ColorDetector) Close() {
	if cd.webcam != nil {
		cd.webcam.Close()
	}
	cd.frame.Close()
	cd.pipeline.Close()
}
