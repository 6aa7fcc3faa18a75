// controllers/qrcode_controller.go
package controllers

import (
	"net/http"
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

type ScanQRCodePayload struct {
	Token string `json:"token" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type QRCodeController struct {
	QRCodeSvc  *services.QRCodeService
	SessionSvc *services.SessionService
}

func NewQRCodeController(qrSvc *services.QRCodeService, sessionSvc *services.SessionService) *QRCodeController {
	return &QRCodeController{QRCodeSvc: qrSvc, SessionSvc: sessionSvc}
}

// GetMyQRCode - ลูกค้าเรียกเพื่อเอา token ไปแสดงเป็น QR ให้เทรนเนอร์สแกน
// ถ้ายังไม่เคยมี ระบบออกให้อัตโนมัติ (lazy issue)
func (qc *QRCodeController) GetMyQRCode(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	role, _ := middleware.CurrentRole(c)

	qr, err := qc.QRCodeSvc.GetOrCreateForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	instructions := "This is your unique QR code for system identification."
	switch role {
	case models.RoleCustomer:
		instructions = "Show this QR code to your trainer to record training sessions."
	case models.RoleTrainer:
		instructions = "This is your trainer QR code for identification purposes."
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":        qr.Token,
		"created_at":   qr.CreatedAt,
		"instructions": instructions,
	})
}

// ScanQRCode - validate token อย่างเดียว ไม่บันทึก session
// ใช้ตอนเทรนเนอร์อยากเช็คว่า QR ใช้ได้/เป็นของใครก่อนกดบันทึกจริง
func (qc *QRCodeController) ScanQRCode(c *gin.Context) {
	var payload ScanQRCodePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "token required")
		return
	}

	scannedAt := time.Now().UTC()

	qr, err := qc.QRCodeSvc.ResolveToken(payload.Token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid":      false,
			"message":    "Invalid QR code",
			"scanned_at": scannedAt,
		})
		return
	}

	user := qr.User
	if !user.IsActive() {
		c.JSON(http.StatusOK, gin.H{
			"valid":      false,
			"user_id":    user.ID,
			"user_name":  user.FullName,
			"message":    "User account is inactive",
			"scanned_at": scannedAt,
		})
		return
	}

	message := "Valid QR code for " + string(user.Role) + " " + user.FullName
	if trainerID, ok := middleware.CurrentUserID(c); ok {
		if warning := qc.SessionSvc.TrainerMismatchWarning(trainerID, user.ID); warning != "" {
			message = "Warning: " + warning
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"user_id":    user.ID,
		"user_name":  user.FullName,
		"user_role":  user.Role,
		"message":    message,
		"scanned_at": scannedAt,
	})
}
