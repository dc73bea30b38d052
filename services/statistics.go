package services

import (
	"fmt"
	"time"

	"solve_litigation_go/models"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	statisticsCacheKey = "statistics"
	statisticsTTL      = 30 * time.Second
)

// Statistics summarises record moderation and user counts.
// Approved and pending counts cover citations and acts together.
type Statistics struct {
	NoOfApprovedCitation int64 `json:"noOfApprovedCitation"`
	NoOfPendingCitation  int64 `json:"noOfPendingCitation"`
	NoOfGuestUser        int64 `json:"noOfGuestUser"`
	NoOfStaffUser        int64 `json:"noOfStaffUser"`
}

type StatisticsService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// Stats is the process-wide statistics cache shared by every request
var Stats *StatisticsService

// InitializeStatistics sets up the shared statistics cache
func InitializeStatistics(db *gorm.DB) {
	Stats = NewStatisticsService(db)
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{
		db:    db,
		cache: cache.New(statisticsTTL, 2*statisticsTTL),
	}
}

// Get returns the cached statistics, recomputing them when the entry expired
func (s *StatisticsService) Get(actor *models.User) (*Statistics, error) {
	if err := Authorize(actor, OpViewStatistics); err != nil {
		return nil, err
	}

	if cached, found := s.cache.Get(statisticsCacheKey); found {
		statisticsCacheLookups.WithLabelValues("hit").Inc()
		stats := cached.(Statistics)
		return &stats, nil
	}
	statisticsCacheLookups.WithLabelValues("miss").Inc()

	stats, err := s.compute()
	if err != nil {
		return nil, err
	}
	s.cache.Set(statisticsCacheKey, *stats, cache.DefaultExpiration)
	return stats, nil
}

// Invalidate drops the cached statistics after a mutation
func (s *StatisticsService) Invalidate() {
	if s == nil {
		return
	}
	s.cache.Delete(statisticsCacheKey)
}

func (s *StatisticsService) compute() (*Statistics, error) {
	var stats Statistics

	if err := s.db.Model(&models.LegalRecord{}).Where("status = ?", models.RecordStatusApproved).Count(&stats.NoOfApprovedCitation).Error; err != nil {
		return nil, fmt.Errorf("failed to count approved records: %w", err)
	}
	if err := s.db.Model(&models.LegalRecord{}).Where("status = ?", models.RecordStatusPending).Count(&stats.NoOfPendingCitation).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending records: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeGuest).Count(&stats.NoOfGuestUser).Error; err != nil {
		return nil, fmt.Errorf("failed to count guest users: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeStaff).Count(&stats.NoOfStaffUser).Error; err != nil {
		return nil, fmt.Errorf("failed to count staff users: %w", err)
	}

	return &stats, nil
}
