package stream

import (
	"FaceStream/pkg/response"
	"net/http"
)

var (
	ErrNoFrame          = response.NewError(http.StatusNotFound, "no frame captured yet")
	ErrStreamClosed     = response.NewError(http.StatusServiceUnavailable, "video stream has ended")
	ErrSnapshotDisabled = response.NewError(http.StatusServiceUnavailable, "snapshot storage is not configured")
	ErrUploadSnapshot   = response.NewError(http.StatusBadGateway, "failed to upload snapshot")
)
