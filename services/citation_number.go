package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CitationSeries is the fixed series marker embedded in every citation number
const CitationSeries = "SL"

// Institution abbreviations
const (
	AbbrevSupremeCourt = "SC"
	AbbrevHighCourt    = "HC"
	AbbrevTribunal     = "TR"
)

const (
	// maxCitationNumberRetries bounds persist attempts after a unique-constraint conflict
	maxCitationNumberRetries = 10
	// maxCitationNumberSkips bounds how many taken codes one allocation may step over
	maxCitationNumberSkips = 1000
)

var (
	highCourtStopwords = map[string]bool{"high": true, "court": true, "the": true, "of": true}
	otherStopwords     = map[string]bool{"the": true, "of": true, "&": true}
)

// CitationNumberComponents contains the parsed components of a citation number
// Format: {year}-SL-{abbrev}[-{courtAbbrev}]-{sequence}
// Example: 2024-SL-HC-del-001
type CitationNumberComponents struct {
	Year              int
	Abbreviation      string
	CourtAbbreviation string // empty for supreme court numbers
	Sequence          int
}

// Prefix returns the number without its sequence, e.g. 2024-SL-HC-del
func (c *CitationNumberComponents) Prefix() string {
	return CitationPrefix(c.Year, c.Composite())
}

// Composite returns the abbreviation with its court segment, e.g. HC-del
func (c *CitationNumberComponents) Composite() string {
	if c.CourtAbbreviation == "" {
		return c.Abbreviation
	}
	return c.Abbreviation + "-" + c.CourtAbbreviation
}

// DeriveAbbreviation maps an institution name to SC, HC or TR.
// Matching is case-insensitive and the first keyword found wins.
func DeriveAbbreviation(institutionName string) (string, error) {
	name := strings.ToLower(institutionName)
	switch {
	case strings.Contains(name, "supreme court"):
		return AbbrevSupremeCourt, nil
	case strings.Contains(name, "high court"):
		return AbbrevHighCourt, nil
	case strings.Contains(name, "tribunal"):
		return AbbrevTribunal, nil
	}
	return "", NewInvalidInstitutionError(institutionName)
}

// DeriveCourtAbbreviation returns the court segment for a non supreme court name.
// High courts use the first three letters of the first word that is not
// high/court/the/of, tribunals use TRI. Returns "" when no word qualifies.
func DeriveCourtAbbreviation(institutionName string) string {
	lower := strings.ToLower(institutionName)
	if strings.Contains(lower, "high court") {
		return firstTokenPrefix(institutionName, highCourtStopwords)
	}
	if strings.Contains(lower, "tribunal") {
		return "TRI"
	}
	return firstTokenPrefix(institutionName, otherStopwords)
}

func firstTokenPrefix(name string, stopwords map[string]bool) string {
	for _, part := range strings.Split(name, " ") {
		token := strings.ToLower(part)
		if token == "" || stopwords[token] {
			continue
		}
		runes := []rune(token)
		if len(runes) > 3 {
			runes = runes[:3]
		}
		return string(runes)
	}
	return ""
}

// ComposeAbbreviation builds the abbreviation segment of a citation number,
// e.g. "SC" or "HC-del"
func ComposeAbbreviation(institutionName string) (string, error) {
	abbrev, err := DeriveAbbreviation(institutionName)
	if err != nil {
		return "", err
	}
	if abbrev == AbbrevSupremeCourt {
		return abbrev, nil
	}
	court := DeriveCourtAbbreviation(institutionName)
	if court == "" {
		return abbrev, nil
	}
	return abbrev + "-" + court, nil
}

// CitationYear returns the year of the order date, or of now when the record has no order date
func CitationYear(dateOfOrder *time.Time, now time.Time) int {
	if dateOfOrder != nil && !dateOfOrder.IsZero() {
		return dateOfOrder.UTC().Year()
	}
	return now.UTC().Year()
}

// CitationPrefix returns the counter key for a year and composite abbreviation
func CitationPrefix(year int, composite string) string {
	return fmt.Sprintf("%04d-%s-%s", year, CitationSeries, composite)
}

// BuildCitationNumber composes a citation number with a sequence zero-padded to 3 digits
func BuildCitationNumber(year int, composite string, sequence int) string {
	return fmt.Sprintf("%s-%03d", CitationPrefix(year, composite), sequence)
}

// ParseCitationNumber parses a citation number string into its components
func ParseCitationNumber(citationNo string) (*CitationNumberComponents, error) {
	parts := strings.Split(strings.TrimSpace(citationNo), "-")
	if len(parts) < 4 {
		return nil, fmt.Errorf("citation number %q must have at least 4 segments", citationNo)
	}
	if parts[1] != CitationSeries {
		return nil, fmt.Errorf("citation number %q has unknown series %q", citationNo, parts[1])
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return nil, fmt.Errorf("citation number %q has invalid year %q", citationNo, parts[0])
	}
	last := parts[len(parts)-1]
	sequence, err := strconv.Atoi(last)
	if err != nil || sequence < 1 || len(last) < 3 {
		return nil, fmt.Errorf("citation number %q has invalid sequence %q", citationNo, last)
	}

	return &CitationNumberComponents{
		Year:              year,
		Abbreviation:      parts[2],
		CourtAbbreviation: strings.Join(parts[3:len(parts)-1], "-"),
		Sequence:          sequence,
	}, nil
}

// ReplaceCitationYear rewrites only the year segment, keeping abbreviation and sequence
func ReplaceCitationYear(citationNo string, year int) (string, error) {
	comp, err := ParseCitationNumber(citationNo)
	if err != nil {
		return "", err
	}
	return BuildCitationNumber(year, comp.Composite(), comp.Sequence), nil
}

// NextCitationSequence increments and returns the counter for a prefix.
// Must run inside the transaction that persists the record.
func NextCitationSequence(tx *gorm.DB, prefix string) (int, error) {
	now := time.Now().UTC()
	seq := models.CitationSequence{Prefix: prefix, LastValue: 1, UpdatedAt: now}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_value": gorm.Expr("citation_sequences.last_value + 1"),
			"updated_at": now,
		}),
	}).Create(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance citation sequence: %w", err)
	}

	if err := tx.First(&seq, "prefix = ?", prefix).Error; err != nil {
		return 0, fmt.Errorf("failed to read citation sequence: %w", err)
	}
	return seq.LastValue, nil
}

// CitationNumberExists reports whether any record, citation or act, holds the code
func CitationNumberExists(tx *gorm.DB, citationNo string) (bool, error) {
	var count int64
	if err := tx.Model(&models.LegalRecord{}).Where("citation_no = ?", citationNo).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check citation number uniqueness: %w", err)
	}
	return count > 0, nil
}

// AllocateCitationNumber returns the next free code for the year and composite.
// Values taken by records inserted outside the counter are skipped; the
// counter never moves backwards, so deleted numbers are not reissued.
func AllocateCitationNumber(tx *gorm.DB, year int, composite string) (string, error) {
	prefix := CitationPrefix(year, composite)
	for i := 0; i < maxCitationNumberSkips; i++ {
		seq, err := NextCitationSequence(tx, prefix)
		if err != nil {
			return "", err
		}
		candidate := BuildCitationNumber(year, composite, seq)
		exists, err := CitationNumberExists(tx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		citationNumberSkips.Inc()
	}
	return "", fmt.Errorf("no free citation number under %s after %d candidates", prefix, maxCitationNumberSkips)
}

// PersistWithCitationNumber runs persist in a transaction with a citation
// number chosen by choose. A unique-constraint conflict rolls the transaction
// back and starts over, up to maxCitationNumberRetries attempts. Running out
// of attempts is reported as a duplicate citation number.
func PersistWithCitationNumber(db *gorm.DB, choose func(tx *gorm.DB) (string, error), persist func(tx *gorm.DB, citationNo string) error) (string, error) {
	var (
		lastErr    error
		lastNumber string
	)
	for attempt := 0; attempt < maxCitationNumberRetries; attempt++ {
		var citationNo string
		err := db.Transaction(func(tx *gorm.DB) error {
			code, err := choose(tx)
			if err != nil {
				return err
			}
			citationNo = code
			return persist(tx, code)
		})
		if err == nil {
			return citationNo, nil
		}
		if !IsUniqueViolation(err) {
			return "", err
		}
		lastErr, lastNumber = err, citationNo
		citationNumberRetries.Inc()
	}

	logger.Log.Warn("Citation number retries exhausted", "citation_no", lastNumber, "attempts", maxCitationNumberRetries, "error", lastErr)
	de := NewDuplicateCitationNumberError(lastNumber)
	de.Cause = fmt.Errorf("failed to persist unique citation number after %d retries: %w", maxCitationNumberRetries, lastErr)
	return "", de
}
