package handlers

import (
	"net/http"

	"solve_litigation_go/db"
	"solve_litigation_go/middleware"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
)

type topicRequest struct {
	Topic string `json:"topic"`
}

func studyMaterialService() *services.StudyMaterialService {
	return services.NewStudyMaterialService(db.DB)
}

func pageParams(c echo.Context) (int, int, error) {
	page, err := intParam(c.QueryParam("page"), 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err := intParam(c.QueryParam("limit"), services.DefaultQuestionPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// AddTopicHandler creates a study topic (admin only)
func AddTopicHandler(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	topic, err := studyMaterialService().AddTopic(req.Topic, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, topic)
}

// TopicsHandler lists topics with their question counts
func TopicsHandler(c echo.Context) error {
	topics, err := studyMaterialService().Topics()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, topics)
}

// RenameTopicHandler renames a topic (admin only)
func RenameTopicHandler(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	topic, err := studyMaterialService().RenameTopic(c.Param("topicId"), req.Topic, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, topic)
}

// DeleteTopicHandler removes a topic and its questions (admin only)
func DeleteTopicHandler(c echo.Context) error {
	if err := studyMaterialService().DeleteTopic(c.Param("topicId"), middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "Topic deleted successfully")
}

// AddQuestionHandler adds a question and answer to a topic
func AddQuestionHandler(c echo.Context) error {
	var req services.QuestionInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	topic, err := studyMaterialService().AddQuestion(c.Param("topicId"), req, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"topic":   topic,
		"message": "The question-answer has been uploaded!",
	})
}

// UpdateQuestionHandler edits a question or its answer
func UpdateQuestionHandler(c echo.Context) error {
	var req services.QuestionInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	topic, err := studyMaterialService().UpdateQuestion(c.Param("topicId"), c.Param("questionId"), req, middleware.GetCurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, topic)
}

// DeleteQuestionHandler removes a question from a topic
func DeleteQuestionHandler(c echo.Context) error {
	if err := studyMaterialService().DeleteQuestion(c.Param("topicId"), c.Param("questionId"), middleware.GetCurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return messageResponse(c, http.StatusOK, "Question deleted successfully")
}

// TopicQuestionsHandler returns one page of a topic's questions
func TopicQuestionsHandler(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, "Invalid pagination")
	}

	questions, err := studyMaterialService().TopicQuestions(c.Param("topicId"), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, questions)
}

// QuestionsHandler returns one page of questions across all topics
func QuestionsHandler(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, "Invalid pagination")
	}

	questions, err := studyMaterialService().Questions(page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, questions)
}
