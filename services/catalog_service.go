package services

import (
	"errors"
	"fmt"
	"strings"

	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// catalogLabels names each catalog kind in messages
var catalogLabels = map[string]string{
	models.CatalogKindPointOfLaw:   "Point of law",
	models.CatalogKindLaw:          "Law",
	models.CatalogKindCourt:        "Court",
	models.CatalogKindApellateType: "Apellate Type",
}

// catalogReadLevel is the minimum level to list a catalog. Appellate types
// feed the public filter, the rest are editorial.
var catalogReadLevel = map[string]Level{
	models.CatalogKindPointOfLaw:   LevelStaff,
	models.CatalogKindLaw:          LevelStaff,
	models.CatalogKindCourt:        LevelStaff,
	models.CatalogKindApellateType: LevelUser,
}

// CatalogService manages the content catalogs used to classify records
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CatalogLabel returns the display name of a catalog kind
func CatalogLabel(kind string) string {
	return catalogLabels[kind]
}

// Add creates an entry. Admins only; names are unique within a kind.
func (s *CatalogService) Add(kind, name string, actor *models.User) (*models.CatalogEntry, error) {
	if !models.IsValidCatalogKind(kind) {
		return nil, NewValidationError("Invalid catalog")
	}
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name is required")
	}
	if err := s.ensureAvailable(kind, name, ""); err != nil {
		return nil, err
	}

	entry := &models.CatalogEntry{Kind: kind, Name: name}
	if err := s.db.Create(entry).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, NewConflictError(CatalogLabel(kind) + " already exists")
		}
		return nil, fmt.Errorf("failed to add %s: %w", kind, err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, kind, entry.ID, entry.Name, "Added "+strings.ToLower(CatalogLabel(kind)), nil, nil)
	return entry, nil
}

// List returns the entries of a catalog, alphabetically
func (s *CatalogService) List(kind string, actor *models.User) ([]models.CatalogEntry, error) {
	min, ok := catalogReadLevel[kind]
	if !ok {
		return nil, NewValidationError("Invalid catalog")
	}
	if LevelOf(actor) < min {
		return nil, accessError(actor)
	}

	var entries []models.CatalogEntry
	if err := s.db.Where("kind = ?", kind).Order("name").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	return entries, nil
}

// Rename changes an entry's name. Admins only.
func (s *CatalogService) Rename(kind, id, newName string, actor *models.User) (*models.CatalogEntry, error) {
	if !models.IsValidCatalogKind(kind) {
		return nil, NewValidationError("Invalid catalog")
	}
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	label := CatalogLabel(kind)
	if strings.TrimSpace(id) == "" {
		return nil, NewValidationError(label + " id is required")
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, NewValidationError("New " + strings.ToLower(label) + " name is required")
	}

	var entry models.CatalogEntry
	if err := s.db.First(&entry, "id = ? AND kind = ?", id, kind).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(label)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
	}
	if err := s.ensureAvailable(kind, newName, entry.ID); err != nil {
		return nil, err
	}

	old := entry.Name
	if err := s.db.Model(&entry).Update("name", newName).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, NewConflictError(label + " with this name already exists")
		}
		return nil, fmt.Errorf("failed to rename %s: %w", kind, err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionUpdate, kind, entry.ID, newName, "Renamed "+strings.ToLower(label),
		map[string]string{"name": old}, map[string]string{"name": newName})
	return &entry, nil
}

// Delete removes the given entries of one catalog. Unknown ids are ignored.
// Returns the number of entries removed.
func (s *CatalogService) Delete(kind string, ids []string, actor *models.User) (int64, error) {
	if !models.IsValidCatalogKind(kind) {
		return 0, NewValidationError("Invalid catalog")
	}
	if LevelOf(actor) < LevelAdmin {
		return 0, accessError(actor)
	}
	if len(ids) == 0 {
		return 0, NewValidationError("ids are required")
	}

	result := s.db.Where("kind = ? AND id IN ?", kind, ids).Delete(&models.CatalogEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", kind, result.Error)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionDelete, kind, strings.Join(ids, ","), "", fmt.Sprintf("Deleted %d %s entries", result.RowsAffected, kind), nil, nil)
	return result.RowsAffected, nil
}

func (s *CatalogService) ensureAvailable(kind, name, excludeID string) error {
	var count int64
	query := s.db.Model(&models.CatalogEntry{}).Where("kind = ? AND name = ?", kind, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s: %w", kind, err)
	}
	if count == 0 {
		return nil
	}
	if excludeID != "" {
		return NewConflictError(CatalogLabel(kind) + " with this name already exists")
	}
	return NewConflictError(CatalogLabel(kind) + " already exists")
}
