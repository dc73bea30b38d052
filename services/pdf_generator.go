package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"solve_litigation_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/microcosm-cc/bluemonday"
)

// pdfTimeout bounds a single headless Chrome render
const pdfTimeout = 30 * time.Second

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageSize   string // A4, letter, legal
	MarginInch float64
	ChromePath string // empty uses the system browser
	Landscape  bool
	Background bool
}

// DefaultPDFOptions returns A4 with one inch margins, the format of citation downloads
func DefaultPDFOptions(chromePath string) PDFOptions {
	return PDFOptions{
		PageSize:   "A4",
		MarginInch: 1,
		ChromePath: chromePath,
		Background: true,
	}
}

func paperSize(size string) (float64, float64) {
	switch size {
	case "letter":
		return 8.5, 11.0
	case "legal":
		return 8.5, 14.0
	default:
		return 8.27, 11.69
	}
}

// htmlPolicy strips scripts, handlers and other active content from submitted HTML
var htmlPolicy = bluemonday.UGCPolicy()

// SanitizeHTML removes active content from user supplied HTML
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(ctx context.Context, htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if options.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(options.ChromePath))
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, pdfTimeout)
	defer cancelTimeout()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	width, height := paperSize(options.PageSize)
	if options.Landscape {
		width, height = height, width
	}

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(options.MarginInch).
				WithMarginBottom(options.MarginInch).
				WithMarginLeft(options.MarginInch).
				WithMarginRight(options.MarginInch).
				WithPrintBackground(options.Background).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

var recordPDFTemplate = template.Must(template.New("record").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02 January 2006")
	},
	"safe": func(s string) template.HTML {
		return template.HTML(SanitizeHTML(s))
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: "Times New Roman", Times, serif; font-size: 12pt; line-height: 1.5; color: #000; text-align: justify; }
h1 { font-size: 16pt; text-align: center; margin-bottom: 6pt; }
.citation-no { text-align: center; font-weight: bold; margin-bottom: 18pt; }
.meta td { padding: 2pt 8pt 2pt 0; vertical-align: top; }
h2 { font-size: 13pt; margin-top: 18pt; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="citation-no">{{.CitationNo}}</div>
<table class="meta">
<tr><td>Institution</td><td>{{.InstitutionName}}</td></tr>
{{with date .DateOfOrder}}<tr><td>Date of order</td><td>{{.}}</td></tr>{{end}}
{{with .CaseNo}}<tr><td>Case no.</td><td>{{.}}</td></tr>{{end}}
{{with .ApellateType}}<tr><td>Appellate type</td><td>{{.}}</td></tr>{{end}}
{{if .PartyNameAppealant}}<tr><td>Parties</td><td>{{.PartyNameAppealant}} v. {{.PartyNameRespondent}}</td></tr>{{end}}
{{with .JudgeName}}<tr><td>Judge</td><td>{{.}}</td></tr>{{end}}
{{with .Index}}<tr><td>Index</td><td>{{.}}</td></tr>{{end}}
</table>
{{with .HeadNote}}<h2>Head note</h2><div>{{safe .}}</div>{{end}}
{{with .Notification}}<h2>Notification</h2><div>{{safe .}}</div>{{end}}
{{with .Judgments}}<h2>Judgment</h2><div>{{safe .}}</div>{{end}}
</body>
</html>`))

// RenderRecordHTML renders a citation or act as a printable document
func RenderRecordHTML(record *models.LegalRecord) (string, error) {
	var buf bytes.Buffer
	if err := recordPDFTemplate.Execute(&buf, record); err != nil {
		return "", fmt.Errorf("failed to render record %s: %w", record.ID, err)
	}
	return buf.String(), nil
}
