package util

import "errors"

var (
	ErrSessionNotFound   = errors.New("no assessment data found")
	ErrMissingFields     = errors.New("all fields are required")
	ErrMissingData       = errors.New("missing required data")
	ErrInvalidStage      = errors.New("invalid stage")
	ErrInvalidQuestion   = errors.New("unknown question")
	ErrScoreOutOfRange   = errors.New("score out of range")
	ErrTextTooLong       = errors.New("text exceeds maximum length")
	ErrNoResponses       = errors.New("unable to calculate scores, please complete the assessment first")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidToken      = errors.New("invalid session token")
)

// 客户端协作方错误
var (
	ErrServerRejection = errors.New("server rejected request")
	ErrNetworkFailure  = errors.New("request could not complete")
)
