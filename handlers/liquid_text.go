package handlers

import (
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

type liquidTextRequest struct {
	LiquidText string `json:"liquidText"`
}

func liquidTextService() *services.LiquidTextService {
	return services.NewLiquidTextService(db.DB, services.Storage)
}

// UploadLiquidTextHandler stores a document for annotation
func UploadLiquidTextHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil && err != http.ErrMissingFile {
		return badRequest(c, "Invalid file")
	}

	input := services.LiquidTextInput{
		Title:         c.FormValue("title"),
		ClientName:    c.FormValue("clientName"),
		ClientAddress: c.FormValue("clientAddress"),
	}
	document, err := liquidTextService().Upload(c.Request().Context(), input, file, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "File uploaded successfully",
		"data":    document,
	})
}

// AddLiquidTextHandler appends an annotation to a document
func AddLiquidTextHandler(c echo.Context) error {
	var req liquidTextRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	document, err := liquidTextService().AddText(c.Param("id"), req.LiquidText, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Liquid text added successfully",
		"data":    document,
	})
}

// LiquidTextDocumentsHandler lists the documents visible to the caller
func LiquidTextDocumentsHandler(c echo.Context) error {
	documents, err := liquidTextService().Documents(middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, documents)
}

// LiquidTextDocumentHandler returns a document with its annotations
func LiquidTextDocumentHandler(c echo.Context) error {
	document, err := liquidTextService().Document(c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"document": document})
}

// LiquidTextFileHandler downloads the stored document file
func LiquidTextFileHandler(c echo.Context) error {
	reader, document, err := liquidTextService().File(c.Request().Context(), c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return streamFile(c, reader, document.FileOriginalName, document.FileContentType)
}
