package handlers

import (
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

type sendMessageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func messageService() *services.MessageService {
	return services.NewMessageService(db.DB, services.Storage)
}

// SendMessageHandler sends a text message to another user
func SendMessageHandler(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	message, err := messageService().SendText(req.To, req.Text, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Message sent successfully",
		"newMessage": message,
	})
}

// SendAttachmentHandler sends a file to another user
func SendAttachmentHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "File is required")
	}

	message, err := messageService().SendAttachment(c.Request().Context(), c.FormValue("to"), file, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Attachment sent successfully",
		"newMessage": message,
	})
}

// ConversationHandler returns the messages exchanged by two users
func ConversationHandler(c echo.Context) error {
	conversation, err := messageService().Conversation(c.Param("fromUser"), c.Param("toUser"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, conversation)
}

// ChattedUsersHandler lists the users who have messaged ?userId=
func ChattedUsersHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	receiverID := c.QueryParam("userId")
	if receiverID == "" && user != nil {
		receiverID = user.ID
	}

	contacts, err := messageService().ChattedUsers(receiverID, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// DeleteMessageHandler removes a message and its attachment
func DeleteMessageHandler(c echo.Context) error {
	if err := messageService().Delete(c.Request().Context(), c.Param("messageId"), middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "Message deleted successfully")
}

// MessageAttachmentHandler downloads a message attachment
func MessageAttachmentHandler(c echo.Context) error {
	reader, message, err := messageService().Attachment(c.Request().Context(), c.Param("messageId"), middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return streamFile(c, reader, message.AttachmentName, "")
}
