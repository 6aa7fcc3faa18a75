package models

import "fmt"

// VolumeStatus เป็น state machine แบบปิด:
//
//	draft → submitted → read → approved / rejected
//	rejected → draft (reopen)
//
// ห้ามเช็ค status เป็น string ตรง ๆ - ทุก transition ต้องผ่าน Transition()
type VolumeStatus string

const (
	StatusDraft     VolumeStatus = "draft"
	StatusSubmitted VolumeStatus = "submitted"
	StatusRead      VolumeStatus = "read"
	StatusApproved  VolumeStatus = "approved"
	StatusRejected  VolumeStatus = "rejected"
)

func (s VolumeStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusRead, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// VolumeAction คือคำสั่ง workflow ที่กระทำกับ volume
type VolumeAction string

const (
	ActionSubmit     VolumeAction = "submit"
	ActionMarkAsRead VolumeAction = "mark_as_read"
	ActionApprove    VolumeAction = "approve"
	ActionReject     VolumeAction = "reject"
	ActionReopen     VolumeAction = "reopen"
)

// InvalidTransitionError บอกทั้ง status ปัจจุบันและ action ที่พยายามทำ
type InvalidTransitionError struct {
	From   VolumeStatus
	Action VolumeAction
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s volume with status '%s'", e.Action, e.From)
}

// Transition คืนค่า status ถัดไปสำหรับ action ที่กำหนด
// approve/reject จาก submitted ถือว่าผ่าน read อัตโนมัติ (mark-as-read
// เป็น transition ภายใน ระบบเรียกเองก่อน approve/reject)
// ฟังก์ชันนี้ total: ทุกคู่ (status, action) ให้คำตอบเสมอ ไม่มี fallthrough
func (s VolumeStatus) Transition(action VolumeAction) (VolumeStatus, error) {
	switch action {
	case ActionSubmit:
		if s == StatusDraft {
			return StatusSubmitted, nil
		}
	case ActionMarkAsRead:
		if s == StatusSubmitted {
			return StatusRead, nil
		}
	case ActionApprove:
		if s == StatusSubmitted || s == StatusRead {
			return StatusApproved, nil
		}
	case ActionReject:
		if s == StatusSubmitted || s == StatusRead {
			return StatusRejected, nil
		}
	case ActionReopen:
		if s == StatusRejected {
			return StatusDraft, nil
		}
	}
	return s, &InvalidTransitionError{From: s, Action: action}
}
