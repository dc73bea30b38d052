package services

import (
	"errors"
	"fmt"
	"strings"

	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// DefaultQuestionPageSize is the question page size when none is requested
const DefaultQuestionPageSize = 20

// TopicSummary is a topic with the number of questions under it
type TopicSummary struct {
	ID                string `json:"id"`
	Topic             string `json:"topic"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
}

// QuestionListItem is a question flattened with its topic name
type QuestionListItem struct {
	ID       string `json:"id"`
	TopicID  string `json:"topicId"`
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionInput is the payload for adding or editing a question.
// On edit, empty fields keep their current value.
type QuestionInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// StudyMaterialService manages study topics and their question-answer pairs
type StudyMaterialService struct {
	db *gorm.DB
}

// NewStudyMaterialService creates a study material service
func NewStudyMaterialService(db *gorm.DB) *StudyMaterialService {
	return &StudyMaterialService{db: db}
}

// AddTopic creates a topic. Admins only; names are unique.
func (s *StudyMaterialService) AddTopic(name string, actor *models.User) (*models.Topic, error) {
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("Topic is required")
	}
	if err := s.ensureTopicAvailable(name, ""); err != nil {
		return nil, err
	}

	topic := &models.Topic{Topic: name}
	if err := s.db.Create(topic).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, NewConflictError("Topic already exists")
		}
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, "study_topic", topic.ID, topic.Topic, "Added study topic", nil, nil)
	return topic, nil
}

// Topics lists every topic with its question count, alphabetically
func (s *StudyMaterialService) Topics() ([]TopicSummary, error) {
	var summaries []TopicSummary
	err := s.db.Model(&models.Topic{}).
		Select("study_topics.id, study_topics.topic, COUNT(study_questions.id) AS number_of_questions").
		Joins("LEFT JOIN study_questions ON study_questions.topic_id = study_topics.id").
		Group("study_topics.id, study_topics.topic").
		Order("study_topics.topic").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	if summaries == nil {
		summaries = []TopicSummary{}
	}
	return summaries, nil
}

// RenameTopic changes a topic's name. Admins only.
func (s *StudyMaterialService) RenameTopic(topicID, name string, actor *models.User) (*models.Topic, error) {
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("Topic is required")
	}

	topic, err := s.findTopic(topicID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTopicAvailable(name, topic.ID); err != nil {
		return nil, err
	}

	old := topic.Topic
	if err := s.db.Model(topic).Update("topic", name).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, NewConflictError("Topic already exists")
		}
		return nil, fmt.Errorf("failed to rename topic: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionUpdate, "study_topic", topic.ID, name, "Renamed study topic",
		map[string]string{"topic": old}, map[string]string{"topic": name})
	return topic, nil
}

// DeleteTopic removes a topic and every question under it. Admins only.
func (s *StudyMaterialService) DeleteTopic(topicID string, actor *models.User) error {
	if LevelOf(actor) < LevelAdmin {
		return accessError(actor)
	}
	topic, err := s.findTopic(topicID)
	if err != nil {
		return err
	}

	// SQLite only honours ON DELETE CASCADE with foreign keys enabled
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(topic).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionDelete, "study_topic", topic.ID, topic.Topic, "Deleted study topic", nil, nil)
	return nil
}

// AddQuestion adds a question-answer pair to a topic. Staff and admins only.
func (s *StudyMaterialService) AddQuestion(topicID string, input QuestionInput, actor *models.User) (*models.Topic, error) {
	if LevelOf(actor) < LevelStaff {
		return nil, accessError(actor)
	}
	input.Question = strings.TrimSpace(input.Question)
	input.Answer = strings.TrimSpace(input.Answer)
	if input.Question == "" || input.Answer == "" {
		return nil, NewValidationError("Question and answer are required")
	}

	topic, err := s.findTopic(topicID)
	if err != nil {
		return nil, err
	}
	question := &models.Question{TopicID: topic.ID, Question: input.Question, Answer: input.Answer}
	if err := s.db.Create(question).Error; err != nil {
		return nil, fmt.Errorf("failed to add question: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, "study_question", question.ID, Preview(question.Question, 50), "Added question to "+topic.Topic, nil, nil)
	return s.topicWithQuestions(topic.ID)
}

// UpdateQuestion edits a question of a topic. Staff and admins only.
func (s *StudyMaterialService) UpdateQuestion(topicID, questionID string, input QuestionInput, actor *models.User) (*models.Topic, error) {
	if LevelOf(actor) < LevelStaff {
		return nil, accessError(actor)
	}
	topic, err := s.findTopic(topicID)
	if err != nil {
		return nil, err
	}
	question, err := s.findQuestion(topic.ID, questionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if q := strings.TrimSpace(input.Question); q != "" {
		updates["question"] = q
	}
	if a := strings.TrimSpace(input.Answer); a != "" {
		updates["answer"] = a
	}
	if len(updates) > 0 {
		if err := s.db.Model(question).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update question: %w", err)
		}
		LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionUpdate, "study_question", question.ID, Preview(question.Question, 50), "Updated question", nil, updates)
	}
	return s.topicWithQuestions(topic.ID)
}

// DeleteQuestion removes a question from a topic. Staff and admins only.
func (s *StudyMaterialService) DeleteQuestion(topicID, questionID string, actor *models.User) error {
	if LevelOf(actor) < LevelStaff {
		return accessError(actor)
	}
	topic, err := s.findTopic(topicID)
	if err != nil {
		return err
	}
	question, err := s.findQuestion(topic.ID, questionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(question).Error; err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionDelete, "study_question", question.ID, Preview(question.Question, 50), "Deleted question", nil, nil)
	return nil
}

// TopicQuestions returns one page of a topic's questions, oldest first
func (s *StudyMaterialService) TopicQuestions(topicID string, page, limit int) ([]models.Question, error) {
	topic, err := s.findTopic(topicID)
	if err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	var questions []models.Question
	err = s.db.Where("topic_id = ?", topic.ID).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}

// Questions returns one page of questions across every topic
func (s *StudyMaterialService) Questions(page, limit int) ([]QuestionListItem, error) {
	page, limit = normalizePage(page, limit)

	var items []QuestionListItem
	err := s.db.Model(&models.Question{}).
		Select("study_questions.id, study_questions.topic_id, study_topics.topic, study_questions.question, study_questions.answer").
		Joins("JOIN study_topics ON study_topics.id = study_questions.topic_id").
		Order("study_topics.topic ASC, study_questions.created_at ASC, study_questions.id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if items == nil {
		items = []QuestionListItem{}
	}
	return items, nil
}

func (s *StudyMaterialService) ensureTopicAvailable(name, excludeID string) error {
	var count int64
	query := s.db.Model(&models.Topic{}).Where("topic = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check topic: %w", err)
	}
	if count > 0 {
		return NewConflictError("Topic already exists")
	}
	return nil
}

func (s *StudyMaterialService) findTopic(id string) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.First(&topic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Topic")
		}
		return nil, fmt.Errorf("failed to fetch topic: %w", err)
	}
	return &topic, nil
}

func (s *StudyMaterialService) findQuestion(topicID, id string) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, "id = ? AND topic_id = ?", id, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Question")
		}
		return nil, fmt.Errorf("failed to fetch question: %w", err)
	}
	return &question, nil
}

func (s *StudyMaterialService) topicWithQuestions(id string) (*models.Topic, error) {
	var topic models.Topic
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).First(&topic, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load topic: %w", err)
	}
	return &topic, nil
}

// normalizePage defaults page to 1 and limit to DefaultQuestionPageSize
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultQuestionPageSize
	}
	return page, limit
}
