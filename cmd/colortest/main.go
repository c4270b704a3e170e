// Command colortest shows what the green filter picks up: the camera frame
// with the largest blob marked on top, the raw mask below, and the
// resulting move in between. Press ESC to quit.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"

	"blobslide/internal/log"
	"blobslide/lib"
	"gocv.io/x/gocv"
)

const statusBarHeight = 60

type options struct {
	cameraID int
	logLevel string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("colortest", flag.ContinueOnError)
	fs.IntVar(&opts.cameraID, "camera", 0, "Camera device index")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	err := fs.Parse(args)
	return opts, err
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	log.Init(opts.logLevel)

	webcam, err := gocv.OpenVideoCapture(opts.cameraID)
	if err != nil {
		log.Error("error opening webcam", "camera", opts.cameraID, "error", err)
		os.Exit(1)
	}
	defer webcam.Close()

	window := gocv.NewWindow("Green Mask")
	defer window.Close()

	img := gocv.NewMat()
	defer img.Close()

	green := color.RGBA{0, 255, 0, 0}
	red := color.RGBA{255, 0, 0, 0}
	white := color.RGBA{255, 255, 255, 0}

	for {
		if ok := webcam.Read(&img); !ok {
			log.Warn("cannot read from webcam")
			break
		}
		if img.Empty() {
			continue
		}

		display, status, err := render(img, green, red, white)
		if err != nil {
			log.Warn("skipping frame", "error", err)
			continue
		}
		log.Debug("frame", "status", status)

		window.IMShow(display)
		display.Close()

		if window.WaitKey(1) == lib.KeyEscape {
			break
		}
	}
}

// render builds the stacked frame/status/mask view for one frame
func render(img gocv.Mat, green, red, white color.RGBA) (gocv.Mat, string, error) {
	mask, err := lib.GreenMask(img)
	if err != nil {
		return gocv.NewMat(), "", err
	}
	defer mask.Close()

	blobs := lib.FindBlobs(mask, lib.MinBlobArea)
	defer blobs.Close()

	original := img.Clone()
	defer original.Close()

	coloredMask := gocv.NewMat()
	defer coloredMask.Close()
	gocv.CvtColor(mask, &coloredMask, gocv.ColorGrayToBGR)

	width, height := img.Cols(), img.Rows()

	// Dead zone between the two decision thresholds
	deadZone := image.Rect(lib.MoveRightBelowX, 0, lib.MoveLeftAboveX, height)
	gocv.Rectangle(&original, deadZone, white, 1)

	status := "NOT FOUND"
	statusColor := red
	if blobs.Found() {
		largest := blobs.Largest
		rect := gocv.BoundingRect(blobs.Contours.At(largest.Index))
		gocv.Rectangle(&original, rect, green, 2)
		gocv.Rectangle(&coloredMask, rect, green, 2)
		gocv.Circle(&original, largest.Centroid, 6, red, -1)

		action := lib.Decide(largest.Centroid.X)
		status = fmt.Sprintf("%s  x=%d  area=%d", action, largest.Centroid.X, largest.Area)
		if action == lib.ActionNone {
			statusColor = green
		}
	}

	totalHeight := height*2 + statusBarHeight
	display := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), totalHeight, width, gocv.MatTypeCV8UC3)

	roi := display.Region(image.Rect(0, 0, width, height))
	original.CopyTo(&roi)
	roi.Close()

	roi = display.Region(image.Rect(0, height+statusBarHeight, width, totalHeight))
	coloredMask.CopyTo(&roi)
	roi.Close()

	gocv.PutText(&display, "Original", image.Pt(10, 25), gocv.FontHersheyPlain, 1.2, white, 2)
	gocv.PutText(&display, "Green Mask", image.Pt(10, height+statusBarHeight+25), gocv.FontHersheyPlain, 1.2, white, 2)

	textSize := gocv.GetTextSize(status, gocv.FontHersheyDuplex, 1.0, 2)
	textX := (width - textSize.X) / 2
	textY := height + statusBarHeight/2 + 10
	gocv.PutText(&display, status, image.Pt(textX, textY), gocv.FontHersheyDuplex, 1.0, statusColor, 2)

	return display, status, nil
}
