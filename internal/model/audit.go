package model

import "time"

// ApprovalAudit is one immutable entry in the local audit trail. Every
// workflow mutation that goes to the gateway leaves one entry per affected
// record, since the sheet itself keeps no durable history of who acted.
type ApprovalAudit struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Pipeline     string    `json:"pipeline" gorm:"type:varchar(50);index;not null"`
	RecordID     string    `json:"record_id" gorm:"type:varchar(50);index;not null"`
	Stage        int       `json:"stage"`
	Action       string    `json:"action" gorm:"type:varchar(50);not null"` // created | approved | rejected | issued | received | deleted
	StatusBefore string    `json:"status_before" gorm:"type:varchar(50)"`
	StatusAfter  string    `json:"status_after" gorm:"type:varchar(50)"`
	PerformedBy  uint      `json:"performed_by" gorm:"index"`
	PerformedAt  time.Time `json:"performed_at"`
	Notes        string    `json:"notes" gorm:"type:text"`
}
