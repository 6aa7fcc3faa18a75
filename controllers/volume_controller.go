// controllers/volume_controller.go
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

type CreateVolumePayload struct {
	TrainerID  uint   `json:"trainer_id"`
	CustomerID uint   `json:"customer_id" binding:"required"`
	Period     string `json:"period" binding:"required"` // YYYY-MM-DD หรือ YYYY-MM
}

type UpdateVolumePayload struct {
	Plans        *string `json:"plans"`
	Notes        *string `json:"notes"`
	SessionCount *int    `json:"session_count"`
}

type WorkflowPayload struct {
	Notes string `json:"notes"`
}

// ---------------------------
// Controller
// ---------------------------

type VolumeController struct {
	VolumeSvc   *services.VolumeService
	WorkflowSvc *services.WorkflowService
}

func NewVolumeController(volumeSvc *services.VolumeService, workflowSvc *services.WorkflowService) *VolumeController {
	return &VolumeController{VolumeSvc: volumeSvc, WorkflowSvc: workflowSvc}
}

func parsePeriod(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01", raw)
}

// loadVolumeForAction โหลด volume + เช็ค policy ในจังหวะเดียว
func (vc *VolumeController) loadVolumeForAction(c *gin.Context, action services.PolicyAction) (*models.SessionVolume, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	volume, err := vc.VolumeSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	callerID, _ := middleware.CurrentUserID(c)
	role, _ := middleware.CurrentRole(c)
	if !services.CanActOnVolume(role, callerID, action, volume) {
		utils.JSONError(c, http.StatusForbidden, "not authorized for this volume")
		return nil, false
	}
	return volume, true
}

// CreateVolume : POST /api/volumes (trainer สร้างล่วงหน้าก่อนมีสแกน)
// trainer สร้างให้ตัวเองเท่านั้น admin ระบุ trainer_id ได้
func (vc *VolumeController) CreateVolume(c *gin.Context) {
	callerID, _ := middleware.CurrentUserID(c)
	role, _ := middleware.CurrentRole(c)

	var payload CreateVolumePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "customer_id and period required")
		return
	}

	trainerID := payload.TrainerID
	if role != models.RoleAdmin || trainerID == 0 {
		trainerID = callerID
	}

	period, err := parsePeriod(payload.Period)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "period must be YYYY-MM or YYYY-MM-DD")
		return
	}

	volume, err := vc.VolumeSvc.Create(trainerID, payload.CustomerID, period)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, volume)
}

// GetVolumes : GET /api/volumes?trainer_id=&customer_id=&status=&start_period=&end_period=
// filter ถูก scope ตาม role: trainer เห็นของตัวเอง, customer เห็นฝั่งตัวเอง
func (vc *VolumeController) GetVolumes(c *gin.Context) {
	callerID, _ := middleware.CurrentUserID(c)
	role, _ := middleware.CurrentRole(c)

	filter := services.VolumeFilter{}
	if raw := c.Query("trainer_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.TrainerID = uint(id)
		}
	}
	if raw := c.Query("customer_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CustomerID = uint(id)
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := models.VolumeStatus(raw)
		if !status.Valid() {
			utils.JSONError(c, http.StatusBadRequest, "unknown status")
			return
		}
		filter.Status = status
	}
	if raw := c.Query("start_period"); raw != "" {
		if t, err := parsePeriod(raw); err == nil {
			filter.StartPeriod = &t
		}
	}
	if raw := c.Query("end_period"); raw != "" {
		if t, err := parsePeriod(raw); err == nil {
			filter.EndPeriod = &t
		}
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	// role-based scoping ทับ filter ที่ user ส่งมา
	switch role {
	case models.RoleAdmin:
		// เห็นทั้งหมด
	case models.RoleTrainer:
		filter.TrainerID = callerID
	case models.RoleCustomer:
		filter.CustomerID = callerID
	default:
		utils.JSONError(c, http.StatusForbidden, "not enough permissions")
		return
	}

	volumes, err := vc.VolumeSvc.GetFiltered(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, volumes)
}

// GetVolumesByPeriod : GET /api/volumes/period/:year/:month (convenience)
func (vc *VolumeController) GetVolumesByPeriod(c *gin.Context) {
	year, errY := strconv.Atoi(c.Param("year"))
	month, errM := strconv.Atoi(c.Param("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 || year < 2000 {
		utils.JSONError(c, http.StatusBadRequest, "invalid year/month")
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	callerID, _ := middleware.CurrentUserID(c)
	role, _ := middleware.CurrentRole(c)

	filter := services.VolumeFilter{StartPeriod: &start, EndPeriod: &start}
	switch role {
	case models.RoleAdmin:
	case models.RoleTrainer:
		filter.TrainerID = callerID
	case models.RoleCustomer:
		filter.CustomerID = callerID
	default:
		utils.JSONError(c, http.StatusForbidden, "not enough permissions")
		return
	}

	volumes, err := vc.VolumeSvc.GetFiltered(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, volumes)
}

// GetVolumeByID : GET /api/volumes/:id
func (vc *VolumeController) GetVolumeByID(c *gin.Context) {
	volume, ok := vc.loadVolumeForAction(c, services.PolicyView)
	if !ok {
		return
	}
	utils.JSONSuccess(c, http.StatusOK, volume)
}

// UpdateVolume : PUT /api/volumes/:id (content edit เฉพาะ draft/rejected)
func (vc *VolumeController) UpdateVolume(c *gin.Context) {
	volume, ok := vc.loadVolumeForAction(c, services.PolicyEdit)
	if !ok {
		return
	}

	var payload UpdateVolumePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := vc.VolumeSvc.EditContent(volume.ID, services.VolumeContentUpdate{
		Plans:        payload.Plans,
		Notes:        payload.Notes,
		SessionCount: payload.SessionCount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// DeleteVolume : DELETE /api/volumes/:id (admin only, ห้ามลบ approved)
func (vc *VolumeController) DeleteVolume(c *gin.Context) {
	volume, ok := vc.loadVolumeForAction(c, services.PolicyDelete)
	if !ok {
		return
	}

	if err := vc.VolumeSvc.SoftDelete(volume.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Session volume deleted successfully")
}

// ---------------------------
// Workflow endpoints
// ---------------------------

func (vc *VolumeController) respondStatusChange(c *gin.Context, volume *models.SessionVolume, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"new_status": volume.Status,
		"updated_at": volume.UpdatedAt,
	})
}

// SubmitVolume : POST /api/volumes/:id/submit (trainer/admin)
func (vc *VolumeController) SubmitVolume(c *gin.Context) {
	volume, ok := vc.loadVolumeForAction(c, services.PolicySubmit)
	if !ok {
		return
	}

	updated, err := vc.WorkflowSvc.Submit(volume.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	vc.respondStatusChange(c, updated, "Session volume submitted to customer for review")
}

// ApproveVolume : POST /api/volumes/:id/approve (customer/admin, note optional)
func (vc *VolumeController) ApproveVolume(c *gin.Context) {
	volume, ok := vc.loadVolumeForAction(c, services.PolicyApprove)
	if !ok {
		return
	}

	var payload WorkflowPayload
	_ = c.ShouldBindJSON(&payload) // body เป็น optional

	updated, err := vc.WorkflowSvc.Approve(volume.ID, payload.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	vc.respondStatusChange(c, updated, "Session volume approved successfully")
}

// RejectVolume : POST /api/volumes/:id/reject (customer/admin, reason บังคับ)
func (vc *VolumeController) RejectVolume(c *gin.Context) {
	volume, ok := vc.loadVolumeForAction(c, services.PolicyReject)
	if !ok {
		return
	}

	var payload WorkflowPayload
	_ = c.ShouldBindJSON(&payload)

	updated, err := vc.WorkflowSvc.Reject(volume.ID, payload.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	vc.respondStatusChange(c, updated, "Session volume rejected")
}

// ReopenVolume : POST /api/volumes/:id/reopen (trainer/admin)
func (vc *VolumeController) ReopenVolume(c *gin.Context) {
	volume, ok := vc.loadVolumeForAction(c, services.PolicyReopen)
	if !ok {
		return
	}

	updated, err := vc.WorkflowSvc.Reopen(volume.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	vc.respondStatusChange(c, updated, "Session volume reopened as draft")
}
