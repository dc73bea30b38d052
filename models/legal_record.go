package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record kinds. Citations and acts share one table and one id space.
const (
	RecordKindCitation = "citation"
	RecordKindAct      = "act"
)

// Moderation status constants
const (
	RecordStatusPending  = "pending"
	RecordStatusApproved = "approved"
)

// UploadedBy identifies the user who created a record
type UploadedBy struct {
	UserID   string `gorm:"column:uploaded_by_user_id;type:uuid;not null;index" json:"userId"`
	UserName string `gorm:"column:uploaded_by_user_name" json:"userName"`
}

// LegalRecord is a citation (judgment/order) or an act (statute/notification)
type LegalRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_record_created" json:"createdAt"`

	Kind             string     `gorm:"not null;index:idx_record_kind_status" json:"type"`
	Status           string     `gorm:"not null;default:pending;index:idx_record_kind_status" json:"status"`
	InstitutionName  string     `gorm:"not null;index:idx_record_institution_date" json:"institutionName"`
	CitationNo       string     `gorm:"not null;uniqueIndex" json:"citationNo"`
	DateOfOrder      *time.Time `gorm:"index:idx_record_institution_date" json:"dateOfOrder,omitempty"`
	LastModifiedDate time.Time  `json:"lastModifiedDate"`
	UploadedBy       UploadedBy `gorm:"embedded" json:"uploadedBy"`

	// Citation content
	ApellateType        string                     `gorm:"index" json:"apellateType,omitempty"`
	CaseNo              string                     `gorm:"index" json:"caseNo,omitempty"`
	PartyNameAppealant  string                     `json:"partyNameAppealant,omitempty"`
	PartyNameRespondent string                     `json:"partyNameRespondent,omitempty"`
	Title               string                     `json:"title"`
	Judgments           string                     `gorm:"type:text" json:"judgments,omitempty"`
	JudgeName           string                     `json:"judgeName,omitempty"`
	HeadNote            string                     `gorm:"type:text" json:"headNote,omitempty"`
	ReferedJudgements   string                     `gorm:"type:text" json:"referedJudgements,omitempty"`
	Laws                datatypes.JSONSlice[string] `json:"laws,omitempty"`
	PointOfLaw          datatypes.JSONSlice[string] `json:"pointOfLaw,omitempty"`
	EquivalentCitations string                     `json:"equivalentCitations,omitempty"`
	AdvocatePetitioner  string                     `json:"advocatePetitioner,omitempty"`
	AdvocateRespondent  string                     `json:"advocateRespondent,omitempty"`
	Reportable          bool                       `gorm:"not null;default:false" json:"reportable"`
	OverRuled           bool                       `gorm:"not null;default:false" json:"overRuled"`

	// Act content
	Index        string `json:"index,omitempty"`
	Notification string `gorm:"type:text" json:"notification,omitempty"`
}

// BeforeCreate hook to generate UUID and stamp modification time
func (r *LegalRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = RecordStatusPending
	}
	if r.LastModifiedDate.IsZero() {
		r.LastModifiedDate = time.Now().UTC()
	}
	return nil
}

// BeforeSave keeps the order date at UTC midnight so date facets are timezone independent
func (r *LegalRecord) BeforeSave(tx *gorm.DB) error {
	if r.DateOfOrder != nil {
		d := NormalizeOrderDate(*r.DateOfOrder)
		r.DateOfOrder = &d
	}
	return nil
}

// TableName specifies the table name for LegalRecord model
func (LegalRecord) TableName() string {
	return "legal_records"
}

// IsApproved checks if the record passed moderation
func (r *LegalRecord) IsApproved() bool {
	return r.Status == RecordStatusApproved
}

// IsAct checks if the record is an act
func (r *LegalRecord) IsAct() bool {
	return r.Kind == RecordKindAct
}

// NormalizeOrderDate truncates a date to midnight UTC of its calendar day
func NormalizeOrderDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsValidRecordStatus checks if the status is valid
func IsValidRecordStatus(status string) bool {
	return status == RecordStatusPending || status == RecordStatusApproved
}

// IsValidRecordKind checks if the kind is valid
func IsValidRecordKind(kind string) bool {
	return kind == RecordKindCitation || kind == RecordKindAct
}

// CitationSequence is the last sequence issued for a citation number prefix
// such as "2024-SL-HC-del". Rows are never decremented.
type CitationSequence struct {
	Prefix    string    `gorm:"primarykey" json:"prefix"`
	LastValue int       `gorm:"not null;default:0" json:"lastValue"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for CitationSequence model
func (CitationSequence) TableName() string {
	return "citation_sequences"
}
