package opencv

import (
	"context"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// pixFmtMJPEG is the V4L2 fourcc for Motion-JPEG.
const pixFmtMJPEG webcam.PixelFormat = 0x47504A4D

const waitTimeoutSeconds = 1

type v4l2Source struct {
	cam *webcam.Webcam
}

func openV4L2(device string, width, height int) (*v4l2Source, error) {
	cam, err := webcam.Open(device)
	if err != nil {
		return nil, errors.Wrap(err, "Can not open device")
	}

	if _, ok := cam.GetSupportedFormats()[pixFmtMJPEG]; !ok {
		cam.Close()
		return nil, errors.Errorf("device %s does not support MJPEG", device)
	}

	if width <= 0 || height <= 0 {
		width, height = 640, 480
	}
	if _, _, _, err := cam.SetImageFormat(pixFmtMJPEG, uint32(width), uint32(height)); err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not set image format")
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not start streaming")
	}

	return &v4l2Source{cam: cam}, nil
}

func (s *v4l2Source) read(ctx context.Context, dst *gocv.Mat) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.cam.WaitForFrame(waitTimeoutSeconds)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			continue
		default:
			return errors.Wrap(err, "Frame wait failed")
		}

		frame, err := s.cam.ReadFrame()
		if err != nil {
			return errors.Wrap(err, "Read frame failed")
		}
		if len(frame) == 0 {
			continue
		}

		decoded, err := gocv.IMDecode(frame, gocv.IMReadColor)
		if err != nil {
			return errors.Wrap(err, "Decode MJPEG frame failed")
		}
		decoded.CopyTo(dst)
		decoded.Close()

		return nil
	}
}

func (s *v4l2Source) close() error {
	s.cam.StopStreaming()
	return s.cam.Close()
}
