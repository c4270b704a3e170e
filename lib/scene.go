package lib

import (
	"fmt"
	"image"
	"image/color"

	"blobslide/internal/log"
	"gocv.io/x/gocv"
)

// KeyEscape is the WaitKey code for ESC
const KeyEscape = 27

// Scene renders the sprite and the contour overlay in two windows
type Scene struct {
	window  *gocv.Window
	live    *gocv.Window
	canvas  gocv.Mat
	sprite  gocv.Mat // as loaded
	scaled  gocv.Mat // sprite resized to the sprite rect
	scaleTo image.Point
}

// NewScene creates both windows and loads the sprite image. A sprite that
// fails to load is logged and drawn as a filled rectangle instead.
func NewScene(config Config) *Scene {
	s := &Scene{
		window: gocv.NewWindow(config.SceneWindow),
		live:   gocv.NewWindow(config.LiveWindow),
		canvas: gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), config.SceneHeight, config.SceneWidth, gocv.MatTypeCV8UC3),
		sprite: gocv.IMRead(config.SpritePath, gocv.IMReadColor),
		scaled: gocv.NewMat(),
	}

	if s.sprite.Empty() {
		log.Error("failed to load sprite", "path", config.SpritePath)
	}

	log.Info("window created", "name", config.SceneWindow, "width", config.SceneWidth, "height", config.SceneHeight)
	return s
}

// placeholderColor fills the sprite rect when no sprite image is loaded
var placeholderColor = color.RGBA{255, 140, 0, 0}

// Render clears the scene, draws the sprite and shows both windows
func (s *Scene) Render(sprite Sprite, overlay gocv.Mat) {
	if err := s.compose(sprite); err != nil {
		log.Warn("error with rendering", "error", err)
	}

	if !overlay.Empty() {
		s.live.IMShow(overlay)
	}
	s.window.IMShow(s.canvas)
}

// compose clears the canvas and draws the sprite on it
func (s *Scene) compose(sprite Sprite) error {
	gocv.Rectangle(&s.canvas, image.Rect(0, 0, s.canvas.Cols(), s.canvas.Rows()), color.RGBA{0, 0, 0, 0}, -1)
	return s.drawSprite(sprite)
}

func (s *Scene) drawSprite(sprite Sprite) error {
	bounds := image.Rect(0, 0, s.canvas.Cols(), s.canvas.Rows())
	rect := sprite.Rect()
	visible := rect.Intersect(bounds)
	if visible.Empty() {
		return fmt.Errorf("sprite at %v is outside the scene", rect)
	}

	if s.sprite.Empty() {
		gocv.Rectangle(&s.canvas, visible, placeholderColor, -1)
		return nil
	}

	size := image.Pt(rect.Dx(), rect.Dy())
	if s.scaled.Empty() || s.scaleTo != size {
		gocv.Resize(s.sprite, &s.scaled, size, 0, 0, gocv.InterpolationLinear)
		s.scaleTo = size
	}

	src := s.scaled.Region(visible.Sub(rect.Min))
	defer src.Close()
	dst := s.canvas.Region(visible)
	defer dst.Close()
	src.CopyTo(&dst)
	return nil
}

// Poll services window events and reports whether the user asked to quit
func (s *Scene) Poll() bool {
	key := s.window.WaitKey(1)
	return quitRequested(key, s.window.GetWindowProperty(gocv.WindowPropertyVisible))
}

// quitRequested is true for ESC or once the window is no longer visible.
// Closing a highgui window from its title bar drops WindowPropertyVisible below 1.
func quitRequested(key int, visible float64) bool {
	return key == KeyEscape || visible < 1
}

// Close destroys the windows and releases image buffers
func (s *Scene) Close() {
	s.window.Close()
	s.live.Close()
	s.canvas.Close()
	s.sprite.Close()
	s.scaled.Close()
}
