package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iluvios/menumagic-sub001/logger"
	"github.com/iluvios/menumagic-sub001/middlewares"
	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

func currentSession(c *gin.Context) (models.Session, bool) {
	sess, ok := middlewares.CurrentSession(c)
	if !ok {
		utils.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return models.Session{}, false
	}
	return sess, true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

func getInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// queryTime accepts RFC3339 or a bare YYYY-MM-DD date (UTC midnight).
func queryTime(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, &service.ValidationError{Field: key, Message: "expected RFC3339 timestamp or YYYY-MM-DD"}
	}
	return &t, nil
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrAuthenticationRequired):
		utils.Error(c, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, service.ErrNotFound):
		utils.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
			"field":   verr.Field,
		})
	case errors.Is(err, service.ErrConflict):
		utils.Error(c, http.StatusConflict, err.Error(), nil)
	default:
		logger.FromGin(c).Error("request failed", "error", err)
		_ = c.Error(err)
		utils.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
