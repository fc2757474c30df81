package main

import (
	"FaceStream/internal/api/stream"
	"FaceStream/internal/config"
	"FaceStream/internal/vision/opencv"
	"FaceStream/pkg/log"
	"FaceStream/pkg/redis"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	validator := config.NewValidator()

	env, err := config.LoadEnv(validator)
	if err != nil {
		log.NewLogger().Fatalf("Error loading configuration: %v", err)
	}

	logger := log.NewLogger(log.Options{
		Level: env.LogLevel,
		Debug: env.AppDebug,
		Dir:   env.LogDir,
		Env:   env.AppEnv,
	})

	openCVVersion, goCVVersion := opencv.Versions()
	logger.Infof("OpenCV %s, GoCV %s", openCVVersion, goCVVersion)

	ctx := context.Background()

	grabber, err := opencv.Open(opencv.Config{
		Driver:       env.CameraDriver,
		Device:       env.CameraDevice,
		Width:        env.CameraWidth,
		Height:       env.CameraHeight,
		CascadeFile:  env.CascadeFile,
		Scale:        env.DetectScale,
		MinNeighbors: env.DetectMinNeighbors,
		JPEGQuality:  env.JPEGQuality,
	}, logger)
	if err != nil {
		logger.Fatalf("Error opening camera: %v", err)
	}

	analyzer, err := config.NewAnalyzer(ctx, env, logger)
	if err != nil {
		logger.Fatalf("Error creating analyzer: %v", err)
	}

	options := []config.ServerOption{
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithEnv(env),
		config.WithValidator(validator),
		config.WithDatabase(ctx),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithAnalyzer(analyzer),
		config.WithGrabber(grabber),
		config.WithBuildInfo(stream.BuildInfo{
			OpenCVVersion: openCVVersion,
			GoCVVersion:   goCVVersion,
		}),
		config.WithUtils(),
	}
	if env.RedisEnabled() {
		options = append(options, config.WithRedisServer(redis.New(redis.Config{
			Address:  env.RedisAddress,
			Password: env.RedisPassword,
			DB:       env.RedisDB,
		})))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
