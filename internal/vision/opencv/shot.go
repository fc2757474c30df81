package opencv

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var boxColor = color.RGBA{G: 255, A: 0}

const boxThickness = 2

type shot struct {
	mat     gocv.Mat
	faces   []image.Rectangle
	quality int
}

func (s *shot) Size() (int, int) {
	return s.mat.Cols(), s.mat.Rows()
}

func (s *shot) Faces() []image.Rectangle {
	return s.faces
}

func (s *shot) bounds() image.Rectangle {
	return image.Rect(0, 0, s.mat.Cols(), s.mat.Rows())
}

// Crop encodes the face region of the untouched colour frame.
func (s *shot) Crop(r image.Rectangle) ([]byte, error) {
	r = r.Intersect(s.bounds())
	if r.Empty() {
		return nil, errors.New("face region outside frame")
	}

	region := s.mat.Region(r)
	defer region.Close()

	return encode(region, s.quality)
}

func (s *shot) Draw(r image.Rectangle, label string) {
	gocv.Rectangle(&s.mat, r, boxColor, boxThickness)

	if label == "" {
		return
	}

	org := image.Pt(r.Min.X, r.Min.Y-8)
	if org.Y < 12 {
		org.Y = r.Max.Y + 18
	}
	gocv.PutText(&s.mat, label, org, gocv.FontHersheySimplex, 0.5, boxColor, 1)
}

func (s *shot) Encode() ([]byte, error) {
	return encode(s.mat, s.quality)
}

func (s *shot) Close() {
	s.mat.Close()
}

func encode(mat gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, errors.Wrap(err, "JPEG encode failed")
	}
	defer buf.Close()

	// the native buffer is freed on Close
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
