package pipeline

import (
	"FaceStream/internal/entity"
	"FaceStream/internal/vision"
	contextPkg "FaceStream/pkg/context"
	"FaceStream/pkg/log"
	"context"
	"fmt"
	"image"
	"time"
)

// Run loops until ctx is cancelled or the camera fails MaxCaptureFailures
// times in a row, in which case ErrCaptureFailed is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	p.running.Store(true)
	defer p.running.Store(false)

	p.log.Info("Capture pipeline started")
	defer p.log.Info("Capture pipeline stopped")

	records := make(chan recordJob, p.cfg.RecordQueueSize)
	p.records = records
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		p.recordLoop(ctx, records)
	}()
	defer func() {
		close(records)
		<-writerDone
	}()

	failures := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		shot, err := p.grabber.Grab(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			failures++
			p.captureErrors.Add(1)
			p.log.WithFields(log.Fields{
				"attempt": failures,
				"error":   err.Error(),
			}).Error("Failed to capture frame from camera")

			if failures >= p.cfg.MaxCaptureFailures {
				return fmt.Errorf("%w after %d attempts: %v", ErrCaptureFailed, failures, err)
			}

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.cfg.CaptureRetryDelay):
			}
			continue
		}

		failures = 0
		p.process(ctx, shot)
		shot.Close()
	}
}

func (p *Pipeline) process(ctx context.Context, shot vision.Shot) {
	seq := p.seq.Add(1)
	p.framesCaptured.Add(1)
	fctx := contextPkg.WithFrameSeq(ctx, seq)

	width, height := shot.Size()
	frame := entity.Frame{
		Seq:        seq,
		CapturedAt: time.Now(),
		Width:      width,
		Height:     height,
	}

	if rects := shot.Faces(); len(rects) > 0 {
		if p.shouldAnalyze() {
			p.annotateAnalyzed(fctx, shot, rects, &frame)
		} else {
			p.annotateKnown(shot, rects, &frame)
		}
	}

	jpeg, err := shot.Encode()
	if err != nil {
		p.encodeErrors.Add(1)
		p.log.WithFields(log.Fields{
			log.FrameSeqKey: seq,
			"error":         err.Error(),
		}).Error("Failed to encode frame")
	} else {
		frame.JPEG = jpeg
		p.publisher.Publish(frame)
		p.framesPublished.Add(1)
		p.lastFrameAt.Store(frame.CapturedAt.UnixNano())
	}

	if frame.Analyzed {
		uctx, cancel := context.WithTimeout(fctx, p.cfg.SideEffectTimeout)
		p.publisher.UpdateAttributes(uctx, frame)
		cancel()

		p.enqueueRecord(seq, frame.Faces)
	}
}

func (p *Pipeline) shouldAnalyze() bool {
	return p.analyzeLimiter == nil || p.analyzeLimiter.Allow()
}

// annotateAnalyzed analyzes every face and only draws when all of them
// succeed. On any failure the frame is left untouched.
func (p *Pipeline) annotateAnalyzed(ctx context.Context, shot vision.Shot, rects []image.Rectangle, frame *entity.Frame) {
	faces, err := p.analyzeFaces(ctx, shot, rects)
	if err != nil {
		p.analysisErrors.Add(1)
		p.log.WithFields(log.Fields{
			log.FrameSeqKey: frame.Seq,
			"faces":         len(rects),
			"error":         err.Error(),
		}).Warn("Face analysis failed, publishing frame unmodified")
		return
	}

	for i, r := range rects {
		shot.Draw(r, p.label(faces[i].Analysis))
	}

	frame.Faces = faces
	frame.Analyzed = true
	p.lastFaces = faces
}

// annotateKnown draws boxes for frames skipped by the analyze limiter,
// reusing the labels of the last analyzed frame.
func (p *Pipeline) annotateKnown(shot vision.Shot, rects []image.Rectangle, frame *entity.Frame) {
	faces := make([]entity.Face, len(rects))
	for i, r := range rects {
		faces[i] = entity.Face{Box: vision.ToBox(r), Attributes: entity.DefaultAttributes()}
		if i < len(p.lastFaces) {
			faces[i].Attributes = p.lastFaces[i].Attributes
			faces[i].Analysis = p.lastFaces[i].Analysis
		}
		shot.Draw(r, p.label(faces[i].Analysis))
	}
	frame.Faces = faces
}

func (p *Pipeline) analyzeFaces(ctx context.Context, shot vision.Shot, rects []image.Rectangle) ([]entity.Face, error) {
	faces := make([]entity.Face, 0, len(rects))

	for i, r := range rects {
		crop, err := shot.Crop(r)
		if err != nil {
			return nil, fmt.Errorf("crop face %d: %w", i, err)
		}

		actx, cancel := context.WithTimeout(ctx, p.cfg.AnalyzerTimeout)
		started := time.Now()
		analysis, err := p.analyzer.Analyze(actx, crop)
		cancel()
		p.analyses.Add(1)
		if err != nil {
			return nil, fmt.Errorf("analyze face %d: %w", i, err)
		}
		if analysis == nil {
			return nil, fmt.Errorf("analyze face %d: empty result", i)
		}

		p.log.WithFields(log.Fields{
			log.FrameSeqKey: contextPkg.GetFrameSeq(ctx),
			"face":          i,
			"latency_ms":    time.Since(started).Milliseconds(),
		}).Debug("Face analyzed")

		faces = append(faces, entity.Face{
			Box:        vision.ToBox(r),
			Attributes: p.translator.Localize(*analysis),
			Analysis:   analysis,
		})
	}

	return faces, nil
}

func (p *Pipeline) label(a *entity.Analysis) string {
	if !p.cfg.DrawLabels {
		return ""
	}
	return vision.Label(a)
}

type recordJob struct {
	seq   uint64
	faces []entity.Face
}

// enqueueRecord hands faces to the history writer without blocking. When
// the queue is full the record is dropped.
func (p *Pipeline) enqueueRecord(seq uint64, faces []entity.Face) {
	if p.recorder == nil || !p.recorder.Enabled() {
		return
	}
	if p.historyLimiter != nil && !p.historyLimiter.Allow() {
		return
	}

	select {
	case p.records <- recordJob{seq: seq, faces: faces}:
	default:
		p.recordsDropped.Add(1)
		p.log.WithField(log.FrameSeqKey, seq).Warn("History writer is behind, dropping record")
	}
}

func (p *Pipeline) recordLoop(ctx context.Context, records <-chan recordJob) {
	for job := range records {
		if ctx.Err() != nil {
			p.recordsDropped.Add(1)
			continue
		}

		for _, face := range job.faces {
			rctx, cancel := context.WithTimeout(contextPkg.WithFrameSeq(ctx, job.seq), p.cfg.SideEffectTimeout)
			err := p.recorder.Record(rctx, face)
			cancel()
			if err != nil {
				p.log.WithFields(log.Fields{
					log.FrameSeqKey: job.seq,
					"error":         err.Error(),
				}).Warn("Failed to record face analysis")
			}
		}
	}
}
