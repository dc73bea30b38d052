package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// PreviewLength bounds head note and judgment text in listings
const PreviewLength = 200

// RecordInput is the payload for creating a citation or an act
type RecordInput struct {
	InstitutionName string `json:"institutionName" validate:"notblank"`
	Title           string `json:"title" validate:"notblank"`
	DateOfOrder     string `json:"dateOfOrder"`

	ApellateType        string   `json:"apellateType"`
	CaseNo              string   `json:"caseNo"`
	PartyNameAppealant  string   `json:"partyNameAppealant"`
	PartyNameRespondent string   `json:"partyNameRespondent"`
	Judgments           string   `json:"judgments"`
	JudgeName           string   `json:"judgeName"`
	HeadNote            string   `json:"headNote"`
	ReferedJudgements   string   `json:"referedJudgements"`
	Laws                []string `json:"laws"`
	PointOfLaw          []string `json:"pointOfLaw"`
	EquivalentCitations string   `json:"equivalentCitations"`
	AdvocatePetitioner  string   `json:"advocatePetitioner"`
	AdvocateRespondent  string   `json:"advocateRespondent"`
	Reportable          bool     `json:"reportable"`
	OverRuled           bool     `json:"overRuled"`

	Index        string `json:"index"`
	Notification string `json:"notification"`
}

// RecordPatch holds the fields an update may change. Nil fields are left untouched.
type RecordPatch struct {
	InstitutionName *string `json:"institutionName"`
	Title           *string `json:"title"`
	DateOfOrder     *string `json:"dateOfOrder"`

	ApellateType        *string   `json:"apellateType"`
	CaseNo              *string   `json:"caseNo"`
	PartyNameAppealant  *string   `json:"partyNameAppealant"`
	PartyNameRespondent *string   `json:"partyNameRespondent"`
	Judgments           *string   `json:"judgments"`
	JudgeName           *string   `json:"judgeName"`
	HeadNote            *string   `json:"headNote"`
	ReferedJudgements   *string   `json:"referedJudgements"`
	Laws                *[]string `json:"laws"`
	PointOfLaw          *[]string `json:"pointOfLaw"`
	EquivalentCitations *string   `json:"equivalentCitations"`
	AdvocatePetitioner  *string   `json:"advocatePetitioner"`
	AdvocateRespondent  *string   `json:"advocateRespondent"`
	Reportable          *bool     `json:"reportable"`
	OverRuled           *bool     `json:"overRuled"`

	Index        *string `json:"index"`
	Notification *string `json:"notification"`
}

// RecordSummary is the projection returned by moderation listings
type RecordSummary struct {
	ID              string     `json:"id"`
	Kind            string     `json:"type"`
	Status          string     `json:"status"`
	Title           string     `json:"title"`
	CitationNo      string     `json:"citationNo"`
	InstitutionName string     `json:"institutionName"`
	DateOfOrder     *time.Time `json:"dateOfOrder,omitempty"`
	HeadNote        string     `json:"headNote,omitempty"`
	Judgments       string     `json:"judgments,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// RecordService manages the lifecycle of citations and acts
type RecordService struct {
	db    *gorm.DB
	stats *StatisticsService
	now   func() time.Time
}

// NewRecordService creates a record service. stats may be nil.
func NewRecordService(db *gorm.DB, stats *StatisticsService) *RecordService {
	return &RecordService{
		db:    db,
		stats: stats,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the input, numbers the record and stores it as pending
func (s *RecordService) Create(kind string, input RecordInput, actor *models.User) (*models.LegalRecord, error) {
	op := OpCreateCitation
	if kind == models.RecordKindAct {
		op = OpCreateAct
	} else if kind != models.RecordKindCitation {
		return nil, NewValidationError("Invalid record type")
	}
	if err := Authorize(actor, op); err != nil {
		return nil, err
	}

	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	if kind == models.RecordKindCitation && strings.TrimSpace(input.DateOfOrder) == "" {
		return nil, NewValidationError("Missing or invalid fields: dateOfOrder", "dateOfOrder is required")
	}
	dateOfOrder, err := ParseOrderDate(input.DateOfOrder)
	if err != nil {
		return nil, err
	}

	composite, err := ComposeAbbreviation(input.InstitutionName)
	if err != nil {
		return nil, err
	}

	now := s.now()
	year := CitationYear(dateOfOrder, now)
	record := recordFromInput(kind, input, dateOfOrder)
	record.Status = models.RecordStatusPending
	record.LastModifiedDate = now
	record.UploadedBy = models.UploadedBy{UserID: actor.ID, UserName: actor.FullName}

	_, err = PersistWithCitationNumber(s.db,
		func(tx *gorm.DB) (string, error) {
			return AllocateCitationNumber(tx, year, composite)
		},
		func(tx *gorm.DB, citationNo string) error {
			if err := ensureCaseNoAvailable(tx, record, ""); err != nil {
				return err
			}
			record.CitationNo = citationNo
			return tx.Create(record).Error
		},
	)
	if err != nil {
		if _, ok := AsDomainError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}

	recordMutationsTotal.WithLabelValues(kind, "create").Inc()
	s.stats.Invalidate()
	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, kind, record.ID, record.CitationNo,
		"Uploaded "+kind, nil, auditValues(record))

	return record, nil
}

// Update applies a patch, renumbers when institution or order year changed
// and puts the record back into moderation
func (s *RecordService) Update(id string, patch RecordPatch, actor *models.User) (*models.LegalRecord, error) {
	if err := Authorize(actor, OpUpdateRecord); err != nil {
		return nil, err
	}

	existing, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}
	before := auditValues(existing)

	updated := *existing
	if err := applyPatch(&updated, patch); err != nil {
		return nil, err
	}

	now := s.now()
	updated.Status = models.RecordStatusPending
	updated.LastModifiedDate = now

	choose, err := renumbering(existing, &updated)
	if err != nil {
		return nil, err
	}

	persist := func(tx *gorm.DB, citationNo string) error {
		if err := ensureCaseNoAvailable(tx, &updated, updated.ID); err != nil {
			return err
		}
		updated.CitationNo = citationNo
		return tx.Save(&updated).Error
	}

	if choose == nil {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			return persist(tx, existing.CitationNo)
		})
		if err != nil && IsUniqueViolation(err) {
			err = NewDuplicateCitationNumberError(existing.CitationNo)
		}
	} else {
		_, err = PersistWithCitationNumber(s.db, choose, persist)
	}
	if err != nil {
		if _, ok := AsDomainError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	recordMutationsTotal.WithLabelValues(updated.Kind, "update").Inc()
	s.stats.Invalidate()
	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionUpdate, updated.Kind, updated.ID, updated.CitationNo,
		"Updated "+updated.Kind, before, auditValues(&updated))

	return &updated, nil
}

// renumbering returns how the updated record gets its number, or nil when
// the existing number stays valid. An institution change renumbers fully;
// an order year change rewrites only the year segment and falls back to a
// full renumbering under the new year when the rewritten code is taken.
func renumbering(existing, updated *models.LegalRecord) (func(tx *gorm.DB) (string, error), error) {
	institutionChanged := updated.InstitutionName != existing.InstitutionName
	year := CitationYear(updated.DateOfOrder, existing.CreatedAt)

	if institutionChanged {
		composite, err := ComposeAbbreviation(updated.InstitutionName)
		if err != nil {
			return nil, err
		}
		return func(tx *gorm.DB) (string, error) {
			return AllocateCitationNumber(tx, year, composite)
		}, nil
	}

	if !orderDateChanged(existing.DateOfOrder, updated.DateOfOrder) {
		return nil, nil
	}

	comp, err := ParseCitationNumber(existing.CitationNo)
	if err != nil {
		// Numbers in an unknown format are reissued in the current format
		composite, cerr := ComposeAbbreviation(updated.InstitutionName)
		if cerr != nil {
			return nil, cerr
		}
		return func(tx *gorm.DB) (string, error) {
			return AllocateCitationNumber(tx, year, composite)
		}, nil
	}
	if comp.Year == year {
		return nil, nil
	}

	return func(tx *gorm.DB) (string, error) {
		rewritten := BuildCitationNumber(year, comp.Composite(), comp.Sequence)
		taken, err := CitationNumberExists(tx, rewritten)
		if err != nil {
			return "", err
		}
		if !taken {
			return rewritten, nil
		}
		return AllocateCitationNumber(tx, year, comp.Composite())
	}, nil
}

// Approve moves a record to approved
func (s *RecordService) Approve(id string, actor *models.User) (*models.LegalRecord, error) {
	if err := Authorize(actor, OpApproveRecord); err != nil {
		return nil, err
	}

	record, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.db.Model(record).Updates(map[string]interface{}{
		"status":             models.RecordStatusApproved,
		"last_modified_date": now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to approve record: %w", err)
	}
	record.Status = models.RecordStatusApproved
	record.LastModifiedDate = now

	recordMutationsTotal.WithLabelValues(record.Kind, "approve").Inc()
	s.stats.Invalidate()
	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionApprove, record.Kind, record.ID, record.CitationNo,
		"Approved "+record.Kind, nil, nil)

	return record, nil
}

// Delete removes a record permanently. Its sequence number is not reissued.
func (s *RecordService) Delete(id string, actor *models.User) (*models.LegalRecord, error) {
	if err := Authorize(actor, OpDeleteRecord); err != nil {
		return nil, err
	}

	record, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(&models.LegalRecord{}, "id = ?", record.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to delete record: %w", err)
	}

	recordMutationsTotal.WithLabelValues(record.Kind, "delete").Inc()
	s.stats.Invalidate()
	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionDelete, record.Kind, record.ID, record.CitationNo,
		"Deleted "+record.Kind, auditValues(record), nil)

	return record, nil
}

// Get returns one record. Pending records are visible to staff and admins only.
func (s *RecordService) Get(id string, actor *models.User) (*models.LegalRecord, error) {
	if err := Authorize(actor, OpReadRecord); err != nil {
		return nil, err
	}

	record, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}
	if !record.IsApproved() && !Can(actor, OpReadPending) {
		return nil, NewNotFoundError("Citation")
	}
	return record, nil
}

// ListByStatus returns citations and acts with the given status, newest first,
// with long text fields cut to PreviewLength characters
func (s *RecordService) ListByStatus(status string, actor *models.User) ([]RecordSummary, error) {
	op := OpListApproved
	if status == models.RecordStatusPending {
		op = OpListPending
	} else if status != models.RecordStatusApproved {
		return nil, NewValidationError("Invalid status")
	}
	if err := Authorize(actor, op); err != nil {
		return nil, err
	}

	var records []models.LegalRecord
	err := s.db.Select("id", "kind", "status", "title", "citation_no", "institution_name", "date_of_order", "head_note", "judgments", "created_at").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", status, err)
	}

	summaries := make([]RecordSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, summarize(&records[i]))
	}
	return summaries, nil
}

func (s *RecordService) find(tx *gorm.DB, id string) (*models.LegalRecord, error) {
	var record models.LegalRecord
	if err := tx.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Citation")
		}
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	return &record, nil
}

// ensureCaseNoAvailable rejects a citation whose case number another citation already uses
func ensureCaseNoAvailable(tx *gorm.DB, record *models.LegalRecord, excludeID string) error {
	caseNo := strings.TrimSpace(record.CaseNo)
	if record.Kind != models.RecordKindCitation || caseNo == "" {
		return nil
	}

	query := tx.Model(&models.LegalRecord{}).
		Where("kind = ? AND case_no = ?", models.RecordKindCitation, caseNo)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check case number: %w", err)
	}
	if count > 0 {
		return NewDuplicateCaseNumberError(caseNo)
	}
	return nil
}

// ParseOrderDate accepts YYYY-MM-DD or RFC 3339 and returns the UTC calendar day.
// An empty string yields nil.
func ParseOrderDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, value); err == nil {
			d := models.NormalizeOrderDate(t)
			return &d, nil
		}
	}
	return nil, NewValidationError("Missing or invalid fields: dateOfOrder", "dateOfOrder must be a date (YYYY-MM-DD)")
}

func recordFromInput(kind string, in RecordInput, dateOfOrder *time.Time) *models.LegalRecord {
	r := &models.LegalRecord{
		Kind:            kind,
		InstitutionName: strings.TrimSpace(in.InstitutionName),
		Title:           strings.TrimSpace(in.Title),
		DateOfOrder:     dateOfOrder,
		Judgments:       in.Judgments,
	}
	if kind == models.RecordKindAct {
		r.Index = in.Index
		r.Notification = in.Notification
		return r
	}

	r.ApellateType = in.ApellateType
	r.CaseNo = strings.TrimSpace(in.CaseNo)
	r.PartyNameAppealant = in.PartyNameAppealant
	r.PartyNameRespondent = in.PartyNameRespondent
	r.JudgeName = in.JudgeName
	r.HeadNote = in.HeadNote
	r.ReferedJudgements = in.ReferedJudgements
	r.Laws = in.Laws
	r.PointOfLaw = in.PointOfLaw
	r.EquivalentCitations = in.EquivalentCitations
	r.AdvocatePetitioner = in.AdvocatePetitioner
	r.AdvocateRespondent = in.AdvocateRespondent
	r.Reportable = in.Reportable
	r.OverRuled = in.OverRuled
	return r
}

func applyPatch(r *models.LegalRecord, p RecordPatch) error {
	if p.InstitutionName != nil {
		name := strings.TrimSpace(*p.InstitutionName)
		if name == "" {
			return NewValidationError("Missing or invalid fields: institutionName", "institutionName is required")
		}
		r.InstitutionName = name
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return NewValidationError("Missing or invalid fields: title", "title is required")
		}
		r.Title = title
	}
	if p.DateOfOrder != nil {
		d, err := ParseOrderDate(*p.DateOfOrder)
		if err != nil {
			return err
		}
		if d == nil && r.Kind == models.RecordKindCitation {
			return NewValidationError("Missing or invalid fields: dateOfOrder", "dateOfOrder is required")
		}
		r.DateOfOrder = d
	}

	setString(&r.ApellateType, p.ApellateType)
	if p.CaseNo != nil {
		r.CaseNo = strings.TrimSpace(*p.CaseNo)
	}
	setString(&r.PartyNameAppealant, p.PartyNameAppealant)
	setString(&r.PartyNameRespondent, p.PartyNameRespondent)
	setString(&r.Judgments, p.Judgments)
	setString(&r.JudgeName, p.JudgeName)
	setString(&r.HeadNote, p.HeadNote)
	setString(&r.ReferedJudgements, p.ReferedJudgements)
	setString(&r.EquivalentCitations, p.EquivalentCitations)
	setString(&r.AdvocatePetitioner, p.AdvocatePetitioner)
	setString(&r.AdvocateRespondent, p.AdvocateRespondent)
	setString(&r.Index, p.Index)
	setString(&r.Notification, p.Notification)
	if p.Laws != nil {
		r.Laws = *p.Laws
	}
	if p.PointOfLaw != nil {
		r.PointOfLaw = *p.PointOfLaw
	}
	if p.Reportable != nil {
		r.Reportable = *p.Reportable
	}
	if p.OverRuled != nil {
		r.OverRuled = *p.OverRuled
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func orderDateChanged(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a != b
	}
	return !models.NormalizeOrderDate(*a).Equal(models.NormalizeOrderDate(*b))
}

func summarize(r *models.LegalRecord) RecordSummary {
	return RecordSummary{
		ID:              r.ID,
		Kind:            r.Kind,
		Status:          r.Status,
		Title:           r.Title,
		CitationNo:      r.CitationNo,
		InstitutionName: r.InstitutionName,
		DateOfOrder:     r.DateOfOrder,
		HeadNote:        Preview(r.HeadNote, PreviewLength),
		Judgments:       Preview(r.Judgments, PreviewLength),
		CreatedAt:       r.CreatedAt,
	}
}

// Preview cuts s to at most n characters
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func auditValues(r *models.LegalRecord) map[string]interface{} {
	values := map[string]interface{}{
		"status":          r.Status,
		"citationNo":      r.CitationNo,
		"institutionName": r.InstitutionName,
		"title":           r.Title,
	}
	if r.DateOfOrder != nil {
		values["dateOfOrder"] = r.DateOfOrder.Format("2006-01-02")
	}
	return values
}
