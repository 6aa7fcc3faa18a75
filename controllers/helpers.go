package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"trainer-backend/models"
	"trainer-backend/services"
	"trainer-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Helper: parse :id param
// ---------------------------
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// ---------------------------
// Helper: แปลง service error → HTTP status
// business-rule violations ตอบ 4xx พร้อม code - อย่างอื่นเป็น 500
// ---------------------------
func respondServiceError(c *gin.Context, err error) {
	var invalidTransition *models.InvalidTransitionError
	var duplicate *services.DuplicateScanError

	switch {
	case errors.Is(err, services.ErrQRCodeNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrVolumeNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())

	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{
			"success":    false,
			"error":      "duplicate_scan",
			"message":    duplicate.Error(),
			"session_id": duplicate.SessionID,
			"volume_id":  duplicate.VolumeID,
		})

	case errors.Is(err, services.ErrVolumeExists):
		utils.JSONError(c, http.StatusConflict, err.Error())

	case errors.As(err, &invalidTransition):
		utils.JSONError(c, http.StatusBadRequest, invalidTransition.Error())

	case errors.Is(err, services.ErrCustomerInactive),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrVolumeNotEditable),
		errors.Is(err, services.ErrVolumeImmutable),
		errors.Is(err, services.ErrInvalidPeriod):
		utils.JSONError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrPermissionDenied):
		utils.JSONError(c, http.StatusForbidden, err.Error())

	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}
