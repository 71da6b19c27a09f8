package controller

import (
	"errors"
	"net/http"
	"resilience_assessment/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 把服务层错误映射为统一响应
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.Error(ctx, http.StatusNotFound, util.ErrSessionNotFound.Error())
	case errors.Is(err, util.ErrNoResponses):
		util.BadRequest(ctx, util.ErrNoResponses.Error())
	case errors.Is(err, util.ErrUnsupportedFormat):
		util.BadRequest(ctx, "Unsupported format")
	case errors.Is(err, util.ErrMissingFields),
		errors.Is(err, util.ErrMissingData),
		errors.Is(err, util.ErrInvalidStage),
		errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrScoreOutOfRange),
		errors.Is(err, util.ErrTextTooLong):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func sessionID(ctx *gin.Context) string {
	if claims := util.GetSessionFromContext(ctx); claims != nil {
		return claims.SessionID
	}
	return ""
}
