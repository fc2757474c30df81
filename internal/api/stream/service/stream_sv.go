package streamService

import (
	"FaceStream/internal/api/stream"
	"FaceStream/internal/entity"
	contextPkg "FaceStream/pkg/context"
	"FaceStream/pkg/response"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *streamService) Publish(frame entity.Frame) {
	s.mu.Lock()
	s.latest = &frame
	s.mu.Unlock()

	s.frames.publish(frame.JPEG)
}

// UpdateAttributes stores the faces of an analyzed frame. The last face of
// the frame becomes the current attribute record.
func (s *streamService) UpdateAttributes(ctx context.Context, frame entity.Frame) {
	if len(frame.Faces) == 0 {
		return
	}

	faces := make([]entity.Face, len(frame.Faces))
	copy(faces, frame.Faces)
	attrs := faces[len(faces)-1].Attributes

	s.mu.Lock()
	changed := attrs != s.attributes
	s.attributes = attrs
	s.faces = stream.FacesResponse{
		Seq:        frame.Seq,
		CapturedAt: frame.CapturedAt,
		Faces:      faces,
	}
	s.mu.Unlock()

	if changed {
		s.attrEvents.publish(attrs)
	}

	if s.redis != nil {
		if err := s.redis.SetAttributes(ctx, attrs, s.ttl); err != nil {
			s.log.WithFields(logrus.Fields{
				"frame_seq": contextPkg.GetFrameSeq(ctx),
				"error":     err.Error(),
			}).Warn("Failed to mirror attributes to redis")
		}
	}
}

func (s *streamService) Attributes() entity.Attributes {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.attributes
}

func (s *streamService) Faces() stream.FacesResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := s.faces
	res.Faces = make([]entity.Face, len(s.faces.Faces))
	copy(res.Faces, s.faces.Faces)
	return res
}

func (s *streamService) Latest() (entity.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return entity.Frame{}, stream.ErrNoFrame
	}
	return *s.latest, nil
}

// Subscribe registers a video client. The channel starts with the latest
// frame and is closed when the service shuts down or cancel is called.
// After shutdown it reports ErrStreamClosed.
func (s *streamService) Subscribe() (<-chan []byte, func(), error) {
	ch := s.frames.subscribe()
	if ch == nil {
		return nil, nil, stream.ErrStreamClosed
	}

	return ch, func() { s.frames.unsubscribe(ch) }, nil
}

func (s *streamService) SubscribeAttributes() (<-chan entity.Attributes, func()) {
	ch := s.attrEvents.subscribe()
	if ch == nil {
		closed := make(chan entity.Attributes)
		close(closed)
		return closed, func() {}
	}

	return ch, func() { s.attrEvents.unsubscribe(ch) }
}

func (s *streamService) Subscribers() int {
	return s.frames.count()
}

func (s *streamService) SnapshotsEnabled() bool {
	return s.s3Client != nil
}

func (s *streamService) UploadSnapshot(ctx context.Context) (*stream.SnapshotResponse, error) {
	if !s.SnapshotsEnabled() {
		return nil, stream.ErrSnapshotDisabled
	}

	frame, err := s.Latest()
	if err != nil {
		return nil, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, response.Wrap(stream.ErrUploadSnapshot, err)
	}
	key := fmt.Sprintf("snapshots/%s.jpg", id)

	location, err := s.s3Client.UploadBytes(ctx, key, frame.JPEG, "image/jpeg")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"key":        key,
			"error":      err.Error(),
		}).Error("Failed to upload snapshot")
		return nil, response.Wrap(stream.ErrUploadSnapshot, err)
	}

	res := &stream.SnapshotResponse{
		Key:        key,
		Location:   location,
		Seq:        frame.Seq,
		CapturedAt: frame.CapturedAt,
	}

	if url, err := s.s3Client.PresignUrl(key); err == nil {
		res.URL = url
	} else {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"key":        key,
			"error":      err.Error(),
		}).Warn("Failed to presign snapshot url")
	}

	return res, nil
}

// Close ends every video and attribute stream and clears the redis mirror.
func (s *streamService) Close() {
	s.closeOnce.Do(func() {
		s.frames.close()
		s.attrEvents.close()

		if s.redis != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.redis.DeleteAttributes(ctx); err != nil {
				s.log.Warnf("Failed to clear attributes mirror: %v", err)
			}
		}
	})
}
