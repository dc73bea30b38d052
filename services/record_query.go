package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"solve_litigation_go/models"

	"gorm.io/gorm"
)

const (
	// LatestPageSize is the page size of the latest records listing
	LatestPageSize = 10
	// searchLimit caps search results
	searchLimit = 100
)

// recordListColumns is the projection used by read-side listings
var recordListColumns = []string{"id", "kind", "status", "title", "citation_no", "institution_name", "date_of_order", "created_at"}

// RecordListItem is a lightweight view of a legal record
type RecordListItem struct {
	ID              string     `json:"id"`
	Kind            string     `json:"type"`
	Status          string     `json:"status"`
	Title           string     `json:"title"`
	CitationNo      string     `json:"citationNo"`
	InstitutionName string     `json:"institutionName"`
	DateOfOrder     *time.Time `json:"dateOfOrder,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// RecordPage is one page of the latest records listing
type RecordPage struct {
	Items       []RecordListItem `json:"items"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	TotalCount  int64            `json:"totalCount"`
}

// CitationFilter narrows citations by classification. Empty fields are ignored.
type CitationFilter struct {
	ApellateType string `json:"apellateType"`
	Law          string `json:"law"`
	PointOfLaw   string `json:"pointOfLaw"`
}

// RecordQueryService serves the read paths over legal records
type RecordQueryService struct {
	db *gorm.DB
}

// NewRecordQueryService creates a new record query service instance
func NewRecordQueryService(db *gorm.DB) *RecordQueryService {
	return &RecordQueryService{db: db}
}

// visible restricts a query to approved records unless the actor may see pending ones
func visible(query *gorm.DB, actor *models.User) *gorm.DB {
	if Can(actor, OpReadPending) {
		return query
	}
	return query.Where("status = ?", models.RecordStatusApproved)
}

// lawContains matches records whose JSON laws list holds the value
const lawContains = "EXISTS (SELECT 1 FROM json_each(legal_records.laws) WHERE json_each.value = ?)"

// pointOfLawContains matches records whose JSON point of law list holds the value
const pointOfLawContains = "EXISTS (SELECT 1 FROM json_each(legal_records.point_of_law) WHERE json_each.value = ?)"

// FilterCitations returns approved citations matching every non-empty filter field
func (s *RecordQueryService) FilterCitations(ctx context.Context, filter CitationFilter) ([]RecordListItem, error) {
	query := s.db.WithContext(ctx).Model(&models.LegalRecord{}).
		Select(recordListColumns).
		Where("kind = ? AND status = ?", models.RecordKindCitation, models.RecordStatusApproved)

	if filter.ApellateType != "" {
		query = query.Where("apellate_type = ?", filter.ApellateType)
	}
	if filter.Law != "" {
		query = query.Where(lawContains, filter.Law)
	}
	if filter.PointOfLaw != "" {
		query = query.Where(pointOfLawContains, filter.PointOfLaw)
	}

	var items []RecordListItem
	if err := query.Order("date_of_order DESC").Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to filter citations: %w", err)
	}
	return nonNilItems(items), nil
}

// LawsByApellateTypes returns the distinct laws of approved citations with any of the appellate types
func (s *RecordQueryService) LawsByApellateTypes(ctx context.Context, apellateTypes []string) ([]string, error) {
	if len(apellateTypes) == 0 {
		return []string{}, nil
	}

	var records []models.LegalRecord
	err := s.db.WithContext(ctx).Select("laws").
		Where("kind = ? AND status = ? AND apellate_type IN ?", models.RecordKindCitation, models.RecordStatusApproved, apellateTypes).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list laws: %w", err)
	}

	lists := make([][]string, 0, len(records))
	for _, r := range records {
		lists = append(lists, r.Laws)
	}
	return distinctSorted(lists...), nil
}

// PointsOfLaw returns the distinct points of law of approved citations with the appellate type and law
func (s *RecordQueryService) PointsOfLaw(ctx context.Context, apellateType, law string) ([]string, error) {
	query := s.db.WithContext(ctx).Select("point_of_law").
		Where("kind = ? AND status = ?", models.RecordKindCitation, models.RecordStatusApproved)
	if apellateType != "" {
		query = query.Where("apellate_type = ?", apellateType)
	}
	if law != "" {
		query = query.Where(lawContains, law)
	}

	var records []models.LegalRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list points of law: %w", err)
	}

	lists := make([][]string, 0, len(records))
	for _, r := range records {
		lists = append(lists, r.PointOfLaw)
	}
	return distinctSorted(lists...), nil
}

// Search matches the query case-insensitively against title, judgments,
// head note, laws and citation number
func (s *RecordQueryService) Search(ctx context.Context, q string, actor *models.User) ([]RecordListItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, NewValidationError("Search query is required")
	}

	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	query := s.db.WithContext(ctx).Model(&models.LegalRecord{}).
		Select(recordListColumns).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(judgments) LIKE ? ESCAPE '\' OR LOWER(head_note) LIKE ? ESCAPE '\' OR LOWER(laws) LIKE ? ESCAPE '\' OR LOWER(citation_no) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern, pattern)
	query = visible(query, actor)

	var items []RecordListItem
	if err := query.Order("created_at DESC").Limit(searchLimit).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return nonNilItems(items), nil
}

// ByDate returns records whose order date is the given calendar day
func (s *RecordQueryService) ByDate(ctx context.Context, year, month, day int, actor *models.User) ([]RecordListItem, error) {
	date, err := calendarDay(year, month, day)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.LegalRecord{}).
		Select(recordListColumns).
		Where("date_of_order >= ? AND date_of_order < ?", date, date.AddDate(0, 0, 1))
	query = visible(query, actor)

	var items []RecordListItem
	if err := query.Order("created_at DESC").Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to search by date: %w", err)
	}
	return nonNilItems(items), nil
}

// Latest returns one page of approved records, newest first
func (s *RecordQueryService) Latest(ctx context.Context, page int) (*RecordPage, error) {
	if page < 1 {
		return nil, NewValidationError("Page number must be a positive integer")
	}

	query := s.db.WithContext(ctx).Model(&models.LegalRecord{}).
		Where("status = ?", models.RecordStatusApproved).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	var items []RecordListItem
	err := query.Select(recordListColumns).
		Order("created_at DESC").
		Offset((page - 1) * LatestPageSize).
		Limit(LatestPageSize).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list latest records: %w", err)
	}

	return &RecordPage{
		Items:       nonNilItems(items),
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(LatestPageSize))),
		TotalCount:  total,
	}, nil
}

// CourtsMatching returns court catalog names containing the keyword, e.g. "high court"
func (s *RecordQueryService) CourtsMatching(ctx context.Context, keyword string) ([]models.CatalogEntry, error) {
	var courts []models.CatalogEntry
	err := s.db.WithContext(ctx).
		Where("kind = ? AND LOWER(name) LIKE ?", models.CatalogKindCourt, "%"+strings.ToLower(keyword)+"%").
		Order("name ASC").
		Find(&courts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	return courts, nil
}

// CourtYears returns the order years of a court's citations, ascending
func (s *RecordQueryService) CourtYears(ctx context.Context, court string) ([]int, error) {
	dates, err := s.courtDates(ctx, court)
	if err != nil {
		return nil, err
	}
	return distinctParts(dates, func(t time.Time) (int, bool) { return t.Year(), true }), nil
}

// CourtMonths returns the months of a year in which the court has citations
func (s *RecordQueryService) CourtMonths(ctx context.Context, court string, year int) ([]int, error) {
	dates, err := s.courtDates(ctx, court)
	if err != nil {
		return nil, err
	}
	return distinctParts(dates, func(t time.Time) (int, bool) {
		return int(t.Month()), t.Year() == year
	}), nil
}

// CourtDays returns the days of a month in which the court has citations
func (s *RecordQueryService) CourtDays(ctx context.Context, court string, year, month int) ([]int, error) {
	dates, err := s.courtDates(ctx, court)
	if err != nil {
		return nil, err
	}
	return distinctParts(dates, func(t time.Time) (int, bool) {
		return t.Day(), t.Year() == year && int(t.Month()) == month
	}), nil
}

// CourtRecords returns a court's citations ordered on the given day
func (s *RecordQueryService) CourtRecords(ctx context.Context, court string, year, month, day int) ([]RecordListItem, error) {
	date, err := calendarDay(year, month, day)
	if err != nil {
		return nil, err
	}

	var items []RecordListItem
	err = s.db.WithContext(ctx).Model(&models.LegalRecord{}).
		Select(recordListColumns).
		Where("kind = ? AND institution_name = ?", models.RecordKindCitation, court).
		Where("date_of_order >= ? AND date_of_order < ?", date, date.AddDate(0, 0, 1)).
		Order("created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list court records: %w", err)
	}
	return nonNilItems(items), nil
}

func (s *RecordQueryService) courtDates(ctx context.Context, court string) ([]time.Time, error) {
	var records []models.LegalRecord
	err := s.db.WithContext(ctx).Select("date_of_order").
		Where("kind = ? AND institution_name = ? AND date_of_order IS NOT NULL", models.RecordKindCitation, court).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list court dates: %w", err)
	}

	dates := make([]time.Time, 0, len(records))
	for _, r := range records {
		if r.DateOfOrder != nil {
			dates = append(dates, r.DateOfOrder.UTC())
		}
	}
	return dates, nil
}

func distinctParts(dates []time.Time, part func(time.Time) (int, bool)) []int {
	seen := make(map[int]bool)
	out := []int{}
	for _, d := range dates {
		v, ok := part(d)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func distinctSorted(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// calendarDay validates a date given as numbers and returns its UTC midnight
func calendarDay(year, month, day int) (time.Time, error) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year < 1 || date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, NewValidationError("Invalid date")
	}
	return date, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNilItems(items []RecordListItem) []RecordListItem {
	if items == nil {
		return []RecordListItem{}
	}
	return items
}
