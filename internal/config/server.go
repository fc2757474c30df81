package config

import (
	"FaceStream/database"
	analysisHandler "FaceStream/internal/api/analysis/handler"
	analysisRepository "FaceStream/internal/api/analysis/repository"
	analysisService "FaceStream/internal/api/analysis/service"
	"FaceStream/internal/api/stream"
	streamHandler "FaceStream/internal/api/stream/handler"
	streamService "FaceStream/internal/api/stream/service"
	"FaceStream/internal/middleware"
	"FaceStream/internal/pipeline"
	"FaceStream/internal/vision"
	"FaceStream/pkg/locale"
	"FaceStream/pkg/redis"
	"FaceStream/pkg/s3"
	"FaceStream/pkg/utils"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	env         *Env
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	translator  locale.ITranslator
	handlers    []handler
	redisServer redis.IRedis
	s3Client    s3.ItfS3
	analyzer    Analyzer
	grabber     vision.Grabber
	buildInfo   stream.BuildInfo

	streamService streamService.IStreamService
	streamRoutes  *streamHandler.StreamHandler
	pipeline      *pipeline.Pipeline

	cancelPipeline context.CancelFunc
	pipelineDone   chan struct{}
	shutdownOnce   sync.Once
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.env == nil {
		return nil, fmt.Errorf("environment is required")
	}
	if server.grabber == nil {
		return nil, fmt.Errorf("camera grabber is required")
	}
	if server.analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.translator == nil {
		server.translator = locale.New(server.env.LabelLocale)
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, middleware.Config{
			Rate:  server.env.RateLimit,
			Burst: server.env.RateBurst,
		})
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithEnv(env *Env) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase opens the history store. It is a no-op when DB_DRIVER is
// empty.
func WithDatabase(ctx context.Context) ServerOption {
	return func(s *Server) error {
		if s.env == nil || !s.env.HistoryEnabled() {
			return nil
		}

		db, err := database.New(ctx, s.env.DBDriver, s.env.DBDSN)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.env == nil {
			return fmt.Errorf("environment must be loaded before middleware")
		}
		s.middleware = middleware.New(s.log, middleware.Config{
			Rate:  s.env.RateLimit,
			Burst: s.env.RateBurst,
		})
		return nil
	}
}

// WithS3Client enables snapshot uploads. It is a no-op when
// AWS_BUCKET_NAME is empty.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		if s.env == nil || !s.env.SnapshotsEnabled() {
			return nil
		}

		client, err := s3.New(s3.Config{
			Region:          s.env.AWSRegion,
			BucketName:      s.env.AWSBucketName,
			AccessKeyID:     s.env.AWSAccessKeyID,
			SecretAccessKey: s.env.AWSSecretAccessKey,
		})
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithAnalyzer(analyzer Analyzer) ServerOption {
	return func(s *Server) error {
		s.analyzer = analyzer
		return nil
	}
}

func WithGrabber(grabber vision.Grabber) ServerOption {
	return func(s *Server) error {
		s.grabber = grabber
		return nil
	}
}

func WithBuildInfo(info stream.BuildInfo) ServerOption {
	return func(s *Server) error {
		s.buildInfo = info
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithTranslator(translator locale.ITranslator) ServerOption {
	return func(s *Server) error {
		s.translator = translator
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Stream Domain
	s.streamService = streamService.NewStreamService(s.log, streamService.Config{
		AttributesTTL: s.env.AttributesTTL,
	}, s.redisServer, s.s3Client, s.utils)

	// Analysis History
	var analysisRepo analysisRepository.Repository
	if s.db != nil {
		analysisRepo = analysisRepository.New(s.db, s.log)
	}
	analysisServices := analysisService.NewAnalysisService(s.log, analysisRepo, s.utils)
	analysisHandlers := analysisHandler.New(s.log, s.validator, s.middleware, analysisServices)

	// Capture Pipeline
	s.pipeline = pipeline.New(s.log, pipeline.Config{
		MaxCaptureFailures: s.env.CaptureMaxFailures,
		AnalyzerTimeout:    s.env.AnalyzerTimeout,
		AnalyzeInterval:    s.env.AnalyzeInterval,
		HistoryInterval:    s.env.HistoryInterval,
		DrawLabels:         s.env.DrawLabels,
	}, s.grabber, s.analyzer, s.translator, s.streamService, analysisServices)

	s.buildInfo.Analyzer = s.env.AnalyzerBackend
	s.streamRoutes = streamHandler.New(s.log, s.middleware, s.streamService, s.translator, s.pipeline,
		streamHandler.PageConfig{
			ShowLogo: fileExists(filepath.Join(s.env.StaticDir, "icei.png")),
		},
		streamHandler.RuntimeInfo{
			BuildInfo:      s.buildInfo,
			HistoryEnabled: analysisServices.Enabled(),
		})

	s.handlers = append(s.handlers, s.streamRoutes, analysisHandlers)
}

// Run starts the capture pipeline and serves HTTP until Shutdown.
func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	s.engine.Static("/static", s.env.StaticDir)

	s.streamRoutes.Mount(s.engine)

	router := s.engine.Group("/api/v1", s.middleware.NewRateLimiter)
	for _, h := range s.handlers {
		h.Start(router)
	}

	s.startPipeline()

	s.engine.Hooks().OnListen(func(data fiber.ListenData) error {
		s.log.WithFields(logrus.Fields{
			"host": data.Host,
			"port": data.Port,
		}).Info("HTTP server listening")

		if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			s.log.Warnf("Failed to notify systemd: %v", err)
		} else if sent {
			s.log.Debug("Notified systemd readiness")
		}
		return nil
	})

	if err := s.engine.Listen(fmt.Sprintf(":%s", s.env.AppPort)); err != nil {
		s.stopPipeline()
		return err
	}

	return nil
}

func (s *Server) startPipeline() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelPipeline = cancel
	s.pipelineDone = make(chan struct{})

	go func() {
		defer close(s.pipelineDone)
		// Every stream ends with the capture loop.
		defer s.streamService.Close()

		if err := s.pipeline.Run(ctx); err != nil {
			s.log.WithField("error", err.Error()).Error("Capture pipeline stopped with error")
		}
	}()
}

func (s *Server) stopPipeline() {
	if s.cancelPipeline == nil {
		return
	}
	s.cancelPipeline()
	<-s.pipelineDone
}

// Shutdown stops capturing, ends every stream, drains HTTP and releases
// the external clients.
func (s *Server) Shutdown(timeout time.Duration) error {
	var errs []error

	s.shutdownOnce.Do(func() {
		s.stopPipeline()
		if s.streamService != nil {
			s.streamService.Close()
		}

		if err := s.engine.ShutdownWithTimeout(timeout); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http: %w", err))
		}

		s.analyzer.Close()

		if err := s.grabber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close camera: %w", err))
		}
		if s.db != nil {
			if err := s.db.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
		if s.redisServer != nil {
			if err := s.redisServer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}
	})

	return errors.Join(errs...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
