package services

import (
	"context"
	"os"
	"testing"
	"time"

	"solve_litigation_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions("/usr/bin/chromium")
	assert.Equal(t, "A4", opts.PageSize)
	assert.Equal(t, 1.0, opts.MarginInch)
	assert.Equal(t, "/usr/bin/chromium", opts.ChromePath)

	w, h := paperSize(opts.PageSize)
	assert.Equal(t, 8.27, w)
	assert.Equal(t, 11.69, h)
}

func TestSanitizeHTML(t *testing.T) {
	clean := SanitizeHTML(`<p onclick="steal()">Held</p><script>alert(1)</script>`)
	assert.Contains(t, clean, "<p>Held</p>")
	assert.NotContains(t, clean, "script")
	assert.NotContains(t, clean, "onclick")
}

func TestRenderRecordHTML(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	record := &models.LegalRecord{
		ID:                  "r1",
		Kind:                models.RecordKindCitation,
		Title:               "State v. <Kumar>",
		CitationNo:          "2024-SL-HC-del-001",
		InstitutionName:     "High Court of Delhi",
		DateOfOrder:         &date,
		PartyNameAppealant:  "State",
		PartyNameRespondent: "Kumar",
		HeadNote:            `<p>Bail granted</p><script>x()</script>`,
	}

	html, err := RenderRecordHTML(record)
	require.NoError(t, err)
	assert.Contains(t, html, "2024-SL-HC-del-001")
	assert.Contains(t, html, "01 March 2024")
	assert.Contains(t, html, "State v. &lt;Kumar&gt;")
	assert.Contains(t, html, "<p>Bail granted</p>")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "Notification")
}

func TestGeneratePDFSmoke(t *testing.T) {
	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		t.Skip("Skipping PDF generation test: CHROME_PATH not set")
	}

	pdf, err := GeneratePDF(context.Background(), "<h1>Hello World</h1>", DefaultPDFOptions(chromePath))
	if err != nil {
		t.Skipf("Skipping: Chrome unavailable at %s: %v", chromePath, err)
	}
	assert.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
