// controllers/session_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"trainer-backend/middleware"
	"trainer-backend/models"
	"trainer-backend/services"
	"trainer-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type TrackSessionPayload struct {
	Token       string `json:"token" binding:"required"`
	SessionDate string `json:"session_date"` // YYYY-MM-DD (optional, default = วันนี้)
}

// ---------------------------
// Controller
// ---------------------------

type SessionController struct {
	SessionSvc *services.SessionService
}

func NewSessionController(svc *services.SessionService) *SessionController {
	return &SessionController{SessionSvc: svc}
}

// TrackSession : POST /api/sessions/track
// บันทึก 1 session ต่อ (trainer, customer, วัน) ผ่านการสแกน QR
func (sc *SessionController) TrackSession(c *gin.Context) {
	trainerID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	role, _ := middleware.CurrentRole(c)
	if !services.CanTrackSession(role) {
		utils.JSONError(c, http.StatusForbidden, "only trainers can track sessions")
		return
	}

	var payload TrackSessionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "token required")
		return
	}

	var sessionDate *time.Time
	if payload.SessionDate != "" {
		parsed, err := time.Parse("2006-01-02", payload.SessionDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "session_date must be YYYY-MM-DD")
			return
		}
		sessionDate = &parsed
	}

	result, err := sc.SessionSvc.Track(trainerID, payload.Token, sessionDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"session_id":    result.Session.ID,
		"volume_id":     result.Volume.ID,
		"session_count": result.Volume.SessionCount,
		"session_date":  result.Session.SessionDate,
		"customer_name": result.CustomerName,
		"message":       "Session recorded for " + result.CustomerName,
	}
	if result.Warning != "" {
		resp["warning"] = result.Warning
	}
	utils.JSONSuccess(c, http.StatusCreated, resp)
}

// GetSessions : GET /api/sessions (admin: ทุก record, filter ได้)
func (sc *SessionController) GetSessions(c *gin.Context) {
	filter := services.SessionFilter{}

	if raw := c.Query("trainer_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.TrainerID = uint(id)
		}
	}
	if raw := c.Query("volume_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.VolumeID = uint(id)
		}
	}
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.EndDate = &t
		}
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	sessions, err := sc.SessionSvc.GetFiltered(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sessions)
}

// GetSessionByID : GET /api/sessions/:id
// ดูได้เฉพาะ admin / trainer เจ้าของ / customer เจ้าของ
func (sc *SessionController) GetSessionByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := sc.SessionSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	callerID, _ := middleware.CurrentUserID(c)
	role, _ := middleware.CurrentRole(c)
	if !services.CanViewSession(role, callerID, session.TrainerID, session.QRCode.UserID) {
		utils.JSONError(c, http.StatusForbidden, "not authorized to view this session")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, session)
}

// GetTrainerSessions : GET /api/sessions/trainer/:id
// trainer ดูของตัวเอง, admin ดูได้หมด
func (sc *SessionController) GetTrainerSessions(c *gin.Context) {
	trainerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	callerID, _ := middleware.CurrentUserID(c)
	role, _ := middleware.CurrentRole(c)
	if role != models.RoleAdmin && callerID != trainerID {
		utils.JSONError(c, http.StatusForbidden, "can only view your own sessions")
		return
	}

	filter := services.SessionFilter{TrainerID: trainerID}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	sessions, err := sc.SessionSvc.GetFiltered(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sessions)
}

// DeleteSession : DELETE /api/sessions/:id (admin correction)
// soft delete แล้ว recompute count ของ volume เจ้าของ
func (sc *SessionController) DeleteSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.SessionSvc.Remove(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Session deleted successfully")
}
