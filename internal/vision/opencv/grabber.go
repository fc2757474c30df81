package opencv

import (
	"FaceStream/internal/vision"
	"context"
	"image"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

type Config struct {
	Driver       string
	Device       string
	Width        int
	Height       int
	CascadeFile  string
	Scale        float64
	MinNeighbors int
	MinFaceSize  int
	JPEGQuality  int
}

// Grabber reads frames from a camera and runs the Haar cascade on each.
// It is owned by a single goroutine.
type Grabber struct {
	src        source
	classifier gocv.CascadeClassifier
	cfg        Config
	log        *logrus.Logger

	mu     sync.Mutex
	closed bool
}

func Open(cfg Config, log *logrus.Logger) (*Grabber, error) {
	if cfg.Scale <= 1 {
		cfg.Scale = 1.3
	}
	if cfg.MinNeighbors <= 0 {
		cfg.MinNeighbors = 5
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 95
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadeFile) {
		classifier.Close()
		return nil, errors.Errorf("Error loading cascade file: %s", cfg.CascadeFile)
	}

	src, err := openSource(cfg)
	if err != nil {
		classifier.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"driver":        cfg.Driver,
		"device":        cfg.Device,
		"cascade":       cfg.CascadeFile,
		"scale":         cfg.Scale,
		"min_neighbors": cfg.MinNeighbors,
	}).Info("Camera opened")

	return &Grabber{
		src:        src,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (g *Grabber) Grab(ctx context.Context) (vision.Shot, error) {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return nil, vision.ErrCameraClosed
	}

	mat := gocv.NewMat()
	if err := g.src.read(ctx, &mat); err != nil {
		mat.Close()
		return nil, err
	}
	if mat.Empty() {
		mat.Close()
		return nil, vision.ErrEmptyFrame
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	minSize := image.Point{}
	if g.cfg.MinFaceSize > 0 {
		minSize = image.Pt(g.cfg.MinFaceSize, g.cfg.MinFaceSize)
	}
	rects := g.classifier.DetectMultiScaleWithParams(gray, g.cfg.Scale, g.cfg.MinNeighbors, 0, minSize, image.Point{})

	return &shot{mat: mat, faces: rects, quality: g.cfg.JPEGQuality}, nil
}

func (g *Grabber) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true

	g.classifier.Close()
	return g.src.close()
}

// Versions reports the OpenCV and gocv versions linked into the binary.
func Versions() (openCV, goCV string) {
	return gocv.OpenCVVersion(), gocv.Version()
}
