// services/workflow_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trainer-backend/models"

	"gorm.io/gorm"
)

// WorkflowService คุม approval state machine ของ SessionVolume
//
// การเขียน status ทุกครั้งเป็น guarded update (WHERE status = เดิม)
// ภายใน transaction - approve กับ reject ที่ยิงพร้อมกันจะสำเร็จได้แค่ฝั่งเดียว
type WorkflowService struct {
	DB *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{DB: db}
}

// Submit: draft → submitted (trainer ส่งให้ลูกค้า review)
func (s *WorkflowService) Submit(volumeID uint) (*models.SessionVolume, error) {
	return s.transition(volumeID, models.ActionSubmit, nil)
}

// Approve: submitted/read → approved โดยผ่าน read อัตโนมัติ
// note เป็น optional - ถ้ามีจะถูกต่อท้าย notes ใต้ header ประทับวันที่
func (s *WorkflowService) Approve(volumeID uint, note string) (*models.SessionVolume, error) {
	return s.transition(volumeID, models.ActionApprove, func(v *models.SessionVolume) {
		if strings.TrimSpace(note) != "" {
			v.Notes = appendWorkflowNote(v.Notes, "Customer Approval", note)
		}
	})
}

// Reject: submitted/read → rejected - reason บังคับ และถูกเก็บ verbatim
func (s *WorkflowService) Reject(volumeID uint, reason string) (*models.SessionVolume, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	return s.transition(volumeID, models.ActionReject, func(v *models.SessionVolume) {
		v.Notes = appendWorkflowNote(v.Notes, "Customer Rejection", reason)
	})
}

// Reopen: rejected → draft พร้อม audit note
func (s *WorkflowService) Reopen(volumeID uint) (*models.SessionVolume, error) {
	return s.transition(volumeID, models.ActionReopen, func(v *models.SessionVolume) {
		v.Notes = appendWorkflowNote(v.Notes, "Volume Reopened", "volume reopened for editing")
	})
}

// transition = read-modify-write ใน transaction เดียว
// precondition ถูกเช็คซ้ำตอน write: UPDATE ... WHERE status = <ที่อ่านมา>
// ถ้า RowsAffected = 0 แปลว่ามีคนแก้ status ตัดหน้า → อ่านใหม่แล้วตอบ
// InvalidTransitionError ด้วย status ปัจจุบันจริง
func (s *WorkflowService) transition(volumeID uint, action models.VolumeAction, mutate func(*models.SessionVolume)) (*models.SessionVolume, error) {
	var volume models.SessionVolume

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&volume, volumeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVolumeNotFound
			}
			return fmt.Errorf("failed to find volume: %w", err)
		}

		from := volume.Status
		next, err := from.Transition(action)
		if err != nil {
			return err
		}

		if mutate != nil {
			mutate(&volume)
		}

		updates := map[string]interface{}{
			"status": next,
			"notes":  volume.Notes,
		}
		res := tx.Model(&models.SessionVolume{}).
			Where("id = ? AND status = ?", volumeID, from).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update volume status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var current models.SessionVolume
			if fErr := tx.First(&current, volumeID).Error; fErr != nil {
				return fmt.Errorf("failed to re-read volume status: %w", fErr)
			}
			return &models.InvalidTransitionError{From: current.Status, Action: action}
		}

		volume.Status = next
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// คืนค่า row ล่าสุด (updated_at ใหม่) ให้ controller ตอบกลับ
	if err := s.DB.First(&volume, volumeID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload volume: %w", err)
	}
	return &volume, nil
}

// appendWorkflowNote ต่อข้อความใต้ header ประทับวันที่ เช่น
//
//	--- Customer Rejection (2026-09-01) ---
//	needs adjustment
func appendWorkflowNote(existing, header, body string) string {
	stamp := time.Now().UTC().Format("2006-01-02")
	note := fmt.Sprintf("\n--- %s (%s) ---\n%s", header, stamp, body)
	return existing + note
}
