package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/models"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

// stringList accepts either a JSON string or an array of strings
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = stringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

type lawsRequest struct {
	ApellateType stringList `json:"apellateType"`
}

type pdfRequest struct {
	HTMLContent string `json:"htmlContent"`
}

func recordService() *services.RecordService {
	return services.NewRecordService(db.DB, services.Stats)
}

func recordQueryService() *services.RecordQueryService {
	return services.NewRecordQueryService(db.DB)
}

func kindLabel(kind string) string {
	if kind == models.RecordKindAct {
		return "Act"
	}
	return "Citation"
}

func createRecord(c echo.Context, kind string) error {
	var req services.RecordInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	record, err := recordService().Create(kind, req, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    kindLabel(kind) + " uploaded successfully",
		"id":         record.ID,
		"citationNo": record.CitationNo,
	})
}

// UploadCitationHandler creates a pending citation (staff or admin)
func UploadCitationHandler(c echo.Context) error {
	return createRecord(c, models.RecordKindCitation)
}

// UploadActHandler creates a pending act (admin only)
func UploadActHandler(c echo.Context) error {
	return createRecord(c, models.RecordKindAct)
}

// UpdateRecordHandler edits a citation or act and returns it to pending
func UpdateRecordHandler(c echo.Context) error {
	var req services.RecordPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	record, err := recordService().Update(c.Param("id"), req, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	label := kindLabel(record.Kind)
	key := strings.ToLower(label)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": label + " updated successfully",
		key:       record,
	})
}

// ApproveRecordHandler approves a pending citation or act (admin only)
func ApproveRecordHandler(c echo.Context) error {
	record, err := recordService().Approve(c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, kindLabel(record.Kind)+" approved successfully")
}

// DeleteRecordHandler removes a citation or act (admin only)
func DeleteRecordHandler(c echo.Context) error {
	record, err := recordService().Delete(c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, kindLabel(record.Kind)+" deleted successfully")
}

// PendingRecordsHandler lists pending citations and acts
func PendingRecordsHandler(c echo.Context) error {
	records, err := recordService().ListByStatus(models.RecordStatusPending, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"pendingCitations": records})
}

// ApprovedRecordsHandler lists approved citations and acts
func ApprovedRecordsHandler(c echo.Context) error {
	records, err := recordService().ListByStatus(models.RecordStatusApproved, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"approvedCitations": records})
}

// GetRecordHandler returns one citation or act
func GetRecordHandler(c echo.Context) error {
	record, err := recordService().Get(c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		strings.ToLower(kindLabel(record.Kind)): record,
	})
}

// SearchRecordsHandler searches records by the ?query= parameter
func SearchRecordsHandler(c echo.Context) error {
	items, err := recordQueryService().Search(c.Request().Context(), c.QueryParam("query"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"citations": items})
}

// SearchByDateHandler returns the records ordered on one calendar day
func SearchByDateHandler(c echo.Context) error {
	year, errY := intParam(c.Param("year"), 0)
	month, errM := intParam(c.Param("month"), 0)
	day, errD := intParam(c.Param("day"), 0)
	if errY != nil || errM != nil || errD != nil {
		return badRequest(c, "Invalid date")
	}

	items, err := recordQueryService().ByDate(c.Request().Context(), year, month, day, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"citations": items})
}

// LatestRecordsHandler returns one page of the most recent approved records
func LatestRecordsHandler(c echo.Context) error {
	page, err := intParam(c.Param("pageNumber"), 1)
	if err != nil {
		return badRequest(c, "Invalid page number")
	}

	result, err := recordQueryService().Latest(c.Request().Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// LawsByApellateTypeHandler lists the laws cited by approved records of the given appellate types
func LawsByApellateTypeHandler(c echo.Context) error {
	var req lawsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	laws, err := recordQueryService().LawsByApellateTypes(c.Request().Context(), req.ApellateType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"laws": laws})
}

// PointsOfLawByLawHandler lists the points of law for an appellate type and law
func PointsOfLawByLawHandler(c echo.Context) error {
	var req services.CitationFilter
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	points, err := recordQueryService().PointsOfLaw(c.Request().Context(), req.ApellateType, req.Law)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"pointOfLaw": points})
}

// CitationsByFilterHandler returns approved citations matching the classification filter
func CitationsByFilterHandler(c echo.Context) error {
	var req services.CitationFilter
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	items, err := recordQueryService().FilterCitations(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"citations": items})
}

// CitationPDFHandler renders submitted HTML to an A4 PDF
func CitationPDFHandler(c echo.Context) error {
	var req pdfRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.HTMLContent) == "" {
		return badRequest(c, "htmlContent is required")
	}

	opts := services.DefaultPDFOptions(getConfig(c).ChromePath)
	pdf, err := services.GeneratePDF(c.Request().Context(), services.SanitizeHTML(req.HTMLContent), opts)
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, "generated.pdf", pdf)
}

// RecordPDFHandler renders a stored citation or act to PDF
func RecordPDFHandler(c echo.Context) error {
	record, err := recordService().Get(c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	html, err := services.RenderRecordHTML(record)
	if err != nil {
		return respondError(c, err)
	}
	opts := services.DefaultPDFOptions(getConfig(c).ChromePath)
	pdf, err := services.GeneratePDF(c.Request().Context(), html, opts)
	if err != nil {
		return respondError(c, err)
	}

	name := record.CitationNo
	if name == "" {
		name = record.ID
	}
	return sendPDF(c, name+".pdf", pdf)
}

func sendPDF(c echo.Context, filename string, pdf []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ExportRecordsHandler downloads approved records as an XLSX workbook (admin only)
func ExportRecordsHandler(c echo.Context) error {
	buf, err := services.ExportRecords(c.Request().Context(), db.DB, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=legal_records.xlsx")
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ImportCitationsHandler creates pending citations from an uploaded XLSX workbook (admin only)
func ImportCitationsHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "File is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	result, err := services.ImportCitations(c.Request().Context(), recordService(), file, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
