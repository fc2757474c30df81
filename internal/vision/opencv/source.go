package opencv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const (
	DriverGoCV = "gocv"
	DriverV4L2 = "v4l2"
)

// source fills dst with the next colour (BGR) frame.
type source interface {
	read(ctx context.Context, dst *gocv.Mat) error
	close() error
}

func openSource(cfg Config) (source, error) {
	switch cfg.Driver {
	case "", DriverGoCV:
		return openCapture(cfg.Device, cfg.Width, cfg.Height)
	case DriverV4L2:
		return openV4L2(v4l2Device(cfg.Device), cfg.Width, cfg.Height)
	default:
		return nil, fmt.Errorf("unknown camera driver %q", cfg.Driver)
	}
}

type captureSource struct {
	vc *gocv.VideoCapture
}

// openCapture accepts a device index, a file path or a stream URL.
func openCapture(device string, width, height int) (*captureSource, error) {
	var id interface{} = device
	if n, err := strconv.Atoi(device); err == nil {
		id = n
	}

	vc, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open video capture %q", device)
	}

	if width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	return &captureSource{vc: vc}, nil
}

func (s *captureSource) read(ctx context.Context, dst *gocv.Mat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ok := s.vc.Read(dst); !ok {
		return errors.New("Read frame failed")
	}
	return nil
}

func (s *captureSource) close() error {
	return s.vc.Close()
}

func v4l2Device(device string) string {
	if device == "" {
		return "/dev/video0"
	}
	if _, err := strconv.Atoi(device); err == nil {
		return "/dev/video" + device
	}
	if !strings.HasPrefix(device, "/") {
		return "/dev/" + device
	}
	return device
}
