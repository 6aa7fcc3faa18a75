package services

import "trainer-backend/models"

// VolumeAction ที่ policy รู้จัก - แยกจาก workflow action เพราะรวม
// view/edit/delete ที่ไม่ใช่ state transition ด้วย
type PolicyAction string

const (
	PolicyView    PolicyAction = "view"
	PolicyEdit    PolicyAction = "edit"
	PolicySubmit  PolicyAction = "submit"
	PolicyApprove PolicyAction = "approve"
	PolicyReject  PolicyAction = "reject"
	PolicyReopen  PolicyAction = "reopen"
	PolicyDelete  PolicyAction = "delete"
)

// CanActOnVolume เป็น pure function - ไม่มี DB, ไม่มี side effect
// กติกา:
//   - view:    admin | เจ้าของฝั่ง trainer | เจ้าของฝั่ง customer
//   - edit / submit / reopen: admin | เจ้าของฝั่ง trainer
//   - approve / reject:       admin | เจ้าของฝั่ง customer
//   - delete:  admin เท่านั้น
func CanActOnVolume(role models.Role, callerID uint, action PolicyAction, volume *models.SessionVolume) bool {
	if role == models.RoleAdmin {
		return true
	}
	switch action {
	case PolicyView:
		return callerID == volume.TrainerID || callerID == volume.CustomerID
	case PolicyEdit, PolicySubmit, PolicyReopen:
		return role == models.RoleTrainer && callerID == volume.TrainerID
	case PolicyApprove, PolicyReject:
		return role == models.RoleCustomer && callerID == volume.CustomerID
	case PolicyDelete:
		return false
	}
	return false
}

// CanTrackSession: บันทึกสแกนได้เฉพาะ trainer กับ admin
// หมายเหตุ: ลูกค้าที่มีเทรนเนอร์ประจำคนละคนไม่ถือว่า deny -
// SessionService จะใส่ warning ใน response แทน
func CanTrackSession(role models.Role) bool {
	return role == models.RoleTrainer || role == models.RoleAdmin
}

// CanViewSession ใช้กติกาเดียวกับ volume: คนที่เกี่ยวข้องเท่านั้น
func CanViewSession(role models.Role, callerID uint, trainerID uint, customerID uint) bool {
	if role == models.RoleAdmin {
		return true
	}
	return callerID == trainerID || callerID == customerID
}
