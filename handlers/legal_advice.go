package handlers

import (
	"io"
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

func legalAdviceService() *services.LegalAdviceService {
	return services.NewLegalAdviceService(db.DB, services.Storage)
}

// CreateLawyerHandler registers a lawyer and emails a verification link (admin only)
func CreateLawyerHandler(c echo.Context) error {
	var req services.LawyerInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := accountService(c).CreateLawyer(req, middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusCreated, "Lawyer registered successfully")
}

// LawyerListHandler lists all lawyer accounts
func LawyerListHandler(c echo.Context) error {
	lawyers, err := accountService(c).Lawyers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, lawyers)
}

// LawyerHandler returns one lawyer's profile
func LawyerHandler(c echo.Context) error {
	lawyer, err := accountService(c).Lawyer(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"lawyer": lawyer})
}

// CreateAdviceRequestHandler files a legal advice request with an optional PDF attachment
func CreateAdviceRequestHandler(c echo.Context) error {
	file, err := c.FormFile("attachment")
	if err != nil && err != http.ErrMissingFile {
		return badRequest(c, "Invalid attachment")
	}

	request, err := legalAdviceService().Create(c.Request().Context(), c.FormValue("caseDetails"), file, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

// AdviceRequestsHandler lists every advice request (admin only)
func AdviceRequestsHandler(c echo.Context) error {
	requests, err := legalAdviceService().List(middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"requests": requests})
}

// AdviceRequestHandler returns one advice request
func AdviceRequestHandler(c echo.Context) error {
	request, err := legalAdviceService().Get(c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// AdviceCaseDetailsHandler returns the full case details of a request
func AdviceCaseDetailsHandler(c echo.Context) error {
	details, err := legalAdviceService().CaseDetails(c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"caseDetails": details})
}

// AdviceAttachmentHandler streams the attachment of a request
func AdviceAttachmentHandler(c echo.Context) error {
	reader, request, err := legalAdviceService().Attachment(c.Request().Context(), c.Param("id"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return streamFile(c, reader, request.AttachmentName, request.AttachmentContentType)
}

// MyAdviceRequestsHandler lists the caller's own requests
func MyAdviceRequestsHandler(c echo.Context) error {
	requests, err := legalAdviceService().MyRequests(middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// AdviceFeedbackHandler records the admin's answer to a request
func AdviceFeedbackHandler(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := legalAdviceService().GiveFeedback(c.Param("id"), req.Feedback, middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "Feedback submitted successfully")
}

// DeleteAdviceRequestHandler removes a request and its attachment (admin only)
func DeleteAdviceRequestHandler(c echo.Context) error {
	if err := legalAdviceService().Delete(c.Request().Context(), c.Param("id"), middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "Request deleted successfully")
}

// streamFile copies a stored file to the response as a download
func streamFile(c echo.Context, reader io.ReadCloser, filename, contentType string) error {
	defer reader.Close()
	if contentType == "" {
		contentType = services.ContentTypeForName(filename)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Stream(http.StatusOK, contentType, reader)
}
