package analysis

import (
	"FaceStream/pkg/response"
	"net/http"
)

var (
	ErrHistoryDisabled = response.NewError(http.StatusServiceUnavailable, "analysis history is disabled")
	ErrRecordAnalysis  = response.NewError(http.StatusInternalServerError, "failed to record analysis")
	ErrListAnalyses    = response.NewError(http.StatusInternalServerError, "failed to list analyses")
	ErrSummary         = response.NewError(http.StatusInternalServerError, "failed to summarize analyses")
	ErrInvalidQuery    = response.NewError(http.StatusBadRequest, "invalid query parameters")
)
