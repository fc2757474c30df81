// Package vision describes camera frames and the face regions found in them.
// The OpenCV implementation lives in vision/opencv so that consumers can be
// built and tested without the native library.
package vision

import (
	"FaceStream/internal/entity"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrEmptyFrame   = errors.New("camera returned an empty frame")
	ErrCameraClosed = errors.New("camera is closed")
)

// Grabber yields one captured frame at a time, already scanned for faces.
type Grabber interface {
	Grab(ctx context.Context) (Shot, error)
	Close() error
}

// Shot is one colour frame owned by the caller until Close.
type Shot interface {
	Size() (width, height int)
	Faces() []image.Rectangle
	Crop(r image.Rectangle) ([]byte, error)
	Draw(r image.Rectangle, label string)
	Encode() ([]byte, error)
	Close()
}

func ToBox(r image.Rectangle) entity.Box {
	return entity.Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Label is the caption drawn above a face box. Hershey fonts only cover
// ASCII, so it uses the analyzer's own vocabulary.
func Label(a *entity.Analysis) string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("%s, %s, %d", a.DominantEmotion, a.DominantGender, int(math.Round(a.Age)))
}
