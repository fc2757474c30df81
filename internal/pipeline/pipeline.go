// Package pipeline runs the single capture loop: grab a frame, analyze each
// detected face, annotate, encode and publish.
package pipeline

import (
	"FaceStream/internal/entity"
	"FaceStream/internal/vision"
	"FaceStream/pkg/locale"
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var ErrCaptureFailed = errors.New("camera capture failed")

// Analyzer estimates the attributes of one JPEG face crop.
type Analyzer interface {
	Analyze(ctx context.Context, jpeg []byte) (*entity.Analysis, error)
}

// Publisher receives every encoded frame and the faces of analyzed ones.
type Publisher interface {
	Publish(frame entity.Frame)
	UpdateAttributes(ctx context.Context, frame entity.Frame)
}

// Recorder persists analyzed faces.
type Recorder interface {
	Enabled() bool
	Record(ctx context.Context, face entity.Face) error
}

type Config struct {
	MaxCaptureFailures int
	CaptureRetryDelay  time.Duration
	AnalyzerTimeout    time.Duration
	// AnalyzeInterval throttles analyzer calls; zero analyzes every frame.
	AnalyzeInterval time.Duration
	HistoryInterval time.Duration
	DrawLabels      bool
	// SideEffectTimeout bounds each attribute mirror and history write.
	SideEffectTimeout time.Duration
	RecordQueueSize   int
}

type Pipeline struct {
	grabber    vision.Grabber
	analyzer   Analyzer
	translator locale.ITranslator
	publisher  Publisher
	recorder   Recorder
	log        *logrus.Logger
	cfg        Config

	analyzeLimiter *rate.Limiter
	historyLimiter *rate.Limiter

	// lastFaces and records are only touched by the loop goroutine.
	lastFaces []entity.Face
	records   chan recordJob

	seq             atomic.Uint64
	framesCaptured  atomic.Uint64
	framesPublished atomic.Uint64
	captureErrors   atomic.Uint64
	encodeErrors    atomic.Uint64
	recordsDropped  atomic.Uint64
	analyses        atomic.Uint64
	analysisErrors  atomic.Uint64
	lastFrameAt     atomic.Int64
	running         atomic.Bool
}

// New wires a pipeline. recorder may be nil.
func New(
	log *logrus.Logger,
	cfg Config,
	grabber vision.Grabber,
	analyzer Analyzer,
	translator locale.ITranslator,
	publisher Publisher,
	recorder Recorder,
) *Pipeline {
	if cfg.MaxCaptureFailures <= 0 {
		cfg.MaxCaptureFailures = 10
	}
	if cfg.CaptureRetryDelay <= 0 {
		cfg.CaptureRetryDelay = 100 * time.Millisecond
	}
	if cfg.AnalyzerTimeout <= 0 {
		cfg.AnalyzerTimeout = 10 * time.Second
	}
	if cfg.SideEffectTimeout <= 0 {
		cfg.SideEffectTimeout = 2 * time.Second
	}
	if cfg.RecordQueueSize <= 0 {
		cfg.RecordQueueSize = 16
	}

	p := &Pipeline{
		grabber:    grabber,
		analyzer:   analyzer,
		translator: translator,
		publisher:  publisher,
		recorder:   recorder,
		log:        log,
		cfg:        cfg,
	}

	if cfg.AnalyzeInterval > 0 {
		p.analyzeLimiter = rate.NewLimiter(rate.Every(cfg.AnalyzeInterval), 1)
	}
	if cfg.HistoryInterval > 0 {
		p.historyLimiter = rate.NewLimiter(rate.Every(cfg.HistoryInterval), 1)
	}

	return p
}

func (p *Pipeline) Stats() entity.PipelineStats {
	stats := entity.PipelineStats{
		FramesCaptured:  p.framesCaptured.Load(),
		FramesPublished: p.framesPublished.Load(),
		CaptureErrors:   p.captureErrors.Load(),
		EncodeErrors:    p.encodeErrors.Load(),
		RecordsDropped:  p.recordsDropped.Load(),
		Analyses:        p.analyses.Load(),
		AnalysisErrors:  p.analysisErrors.Load(),
		Running:         p.running.Load(),
	}
	if ns := p.lastFrameAt.Load(); ns > 0 {
		stats.LastFrameAt = time.Unix(0, ns).UTC()
	}
	return stats
}
