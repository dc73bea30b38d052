package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"solve_litigation_go/config"
	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// RegisterInput is the payload for self registration and admin created accounts
type RegisterInput struct {
	FullName         string `json:"fullName" validate:"notblank,max=120"`
	Email            string `json:"email" validate:"required,email"`
	PhoneNumber      string `json:"phoneNumber" validate:"notblank,max=20"`
	Password         string `json:"password" validate:"required"`
	RegistrationType string `json:"registrationType"`
	State            string `json:"state"`
	District         string `json:"district"`
}

// LawyerInput extends RegisterInput with the lawyer profile
type LawyerInput struct {
	RegisterInput
	Specialist string `json:"specialist"`
	Bio        string `json:"bio"`
	Address    string `json:"address"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	Message   string       `json:"message"`
	User      *models.User `json:"user"`
}

// UserDetails is the public projection of an account
type UserDetails struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber"`
	RegistrationType string `json:"registrationType"`
	State            string `json:"state"`
	District         string `json:"district"`
	UserType         string `json:"userType"`
}

// LawyerProfile is the projection of a lawyer shown to admins
type LawyerProfile struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Bio         string `json:"bio"`
	Specialist  string `json:"specialist"`
	State       string `json:"state"`
	District    string `json:"district"`
	Address     string `json:"address"`
}

// Account detail fields that may be changed through UpdateDetails
const (
	DetailEmail       = "email"
	DetailPhoneNumber = "phoneNumber"
)

// AccountService registers users and issues access tokens
type AccountService struct {
	db    *gorm.DB
	cfg   *config.Config
	stats *StatisticsService
}

// NewAccountService creates an account service. stats may be nil.
func NewAccountService(db *gorm.DB, cfg *config.Config, stats *StatisticsService) *AccountService {
	return &AccountService{db: db, cfg: cfg, stats: stats}
}

// Register creates a guest account
func (s *AccountService) Register(input RegisterInput) (*models.User, error) {
	user, err := s.newUser(input, models.UserTypeGuest)
	if err != nil {
		return nil, err
	}
	if err := s.ensureContactAvailable(s.db, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, s.createError(err)
	}

	s.stats.Invalidate()
	LogAuditEvent(s.db, AuditContextFor(user), models.AuditActionCreate, "user", user.ID, user.Email, "Registered guest account", nil, nil)
	return user, nil
}

// CreateStaff creates a verified staff account. Admins only.
func (s *AccountService) CreateStaff(input RegisterInput, actor *models.User) (*models.User, error) {
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	user, err := s.newUser(input, models.UserTypeStaff)
	if err != nil {
		return nil, err
	}
	user.IsVerified = true
	if err := s.ensureContactAvailable(s.db, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, s.createError(err)
	}

	s.stats.Invalidate()
	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, "user", user.ID, user.Email, "Created staff account", nil, nil)
	return user, nil
}

// ProvisionAccount creates a verified account of any type without an acting user.
// It backs the operator command line and is not reachable over HTTP.
func (s *AccountService) ProvisionAccount(input RegisterInput, userType string) (*models.User, error) {
	if !models.IsValidUserType(userType) {
		return nil, NewValidationError("Invalid user type")
	}
	user, err := s.newUser(input, userType)
	if err != nil {
		return nil, err
	}
	user.IsVerified = true
	if err := s.ensureContactAvailable(s.db, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, s.createError(err)
	}

	s.stats.Invalidate()
	LogAuditEvent(s.db, AuditContextFor(user), models.AuditActionCreate, "user", user.ID, user.Email, "Provisioned "+userType+" account", nil, nil)
	return user, nil
}

// CreateLawyer registers a lawyer and emails a verification link. Unverified
// accounts holding the same email or phone number are replaced; verified ones conflict.
func (s *AccountService) CreateLawyer(input LawyerInput, actor *models.User) (*models.User, error) {
	if LevelOf(actor) < LevelAdmin {
		return nil, accessError(actor)
	}
	user, err := s.newUser(input.RegisterInput, models.UserTypeLawyer)
	if err != nil {
		return nil, err
	}
	user.Specialist = strings.TrimSpace(input.Specialist)
	user.Bio = strings.TrimSpace(input.Bio)
	user.Address = strings.TrimSpace(input.Address)

	token, err := GenerateEmailToken(s.cfg.SecretKey, user.Email, TokenPurposeVerify)
	if err != nil {
		return nil, err
	}
	user.VerificationToken = token

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.User
		if err := tx.Where("email = ? OR phone_number = ?", user.Email, user.PhoneNumber).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing accounts: %w", err)
		}
		for _, e := range existing {
			if e.IsVerified {
				if e.Email == user.Email {
					return NewConflictError("Email is already registered")
				}
				return NewConflictError("Mobile number is already registered")
			}
		}
		for _, e := range existing {
			if err := tx.Delete(&models.User{}, "id = ?", e.ID).Error; err != nil {
				return fmt.Errorf("failed to remove unverified account: %w", err)
			}
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, s.createError(err)
	}

	link := strings.TrimSuffix(s.cfg.AppURL, "/") + "/verify-email/" + token
	SendEmailAsync(s.cfg, BuildLawyerInvitationEmail(user.Email, user.FullName, link))
	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionCreate, "user", user.ID, user.Email, "Registered lawyer account", nil, nil)
	return user, nil
}

// Login authenticates by email or phone number and issues an access token
func (s *AccountService) Login(emailOrPhoneNumber, password string) (*LoginResult, error) {
	identifier := strings.TrimSpace(emailOrPhoneNumber)
	if identifier == "" || password == "" {
		return nil, NewValidationError("Missing or invalid fields: emailOrPhoneNumber, password")
	}

	var user models.User
	err := s.db.Where("email = ? OR phone_number = ?", strings.ToLower(identifier), identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			LogSecurityEvent(s.db, "LOGIN_FAILED", "", "Unknown account")
			return nil, NewUnauthenticatedError("Invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !VerifyPassword(user.Password, password) {
		LogSecurityEvent(s.db, "LOGIN_FAILED", user.ID, "Invalid password")
		return nil, NewUnauthenticatedError("Invalid credentials")
	}

	ttl := s.cfg.TokenTTL
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}
	token, err := GenerateAccessToken(s.cfg.SecretKey, user.ID, user.Email, ttl)
	if err != nil {
		return nil, err
	}

	LogSecurityEvent(s.db, "LOGIN_SUCCESS", user.ID, "User logged in")
	return &LoginResult{
		Token:     token,
		ExpiresIn: int(ttl / time.Second),
		Message:   "Login successful",
		User:      &user,
	}, nil
}

// Details returns the public projection of an account
func (s *AccountService) Details(userID string) (*UserDetails, error) {
	user, err := GetUserByID(s.db, userID)
	if err != nil {
		return nil, err
	}
	return &UserDetails{
		FullName:         user.FullName,
		Email:            user.Email,
		PhoneNumber:      user.PhoneNumber,
		RegistrationType: user.RegistrationType,
		State:            user.State,
		District:         user.District,
		UserType:         user.UserType,
	}, nil
}

// UpdateDetails changes the email or phone number of an account.
// Users may change their own account; admins may change any.
func (s *AccountService) UpdateDetails(userID, title, data string, actor *models.User) error {
	if actor == nil {
		return NewUnauthenticatedError("Unauthorized")
	}
	if actor.ID != userID && !actor.IsAdmin() {
		return NewForbiddenError()
	}

	user, err := GetUserByID(s.db, userID)
	if err != nil {
		return err
	}

	data = strings.TrimSpace(data)
	var column string
	switch title {
	case DetailEmail:
		data = strings.ToLower(data)
		if err := validate.Var(data, "required,email"); err != nil {
			return NewValidationError("Invalid email")
		}
		if err := s.ensureContactAvailable(s.db.Where("id <> ?", user.ID), data, ""); err != nil {
			return err
		}
		column = "email"
	case DetailPhoneNumber:
		if data == "" {
			return NewValidationError("Invalid phone number")
		}
		if err := s.ensureContactAvailable(s.db.Where("id <> ?", user.ID), "", data); err != nil {
			return err
		}
		column = "phone_number"
	default:
		return NewValidationError("Invalid title")
	}

	if err := s.db.Model(user).Update(column, data).Error; err != nil {
		return s.createError(err)
	}
	LogAuditEvent(s.db, AuditContextFor(actor), models.AuditActionUpdate, "user", user.ID, user.Email, "Updated "+title, nil, map[string]string{title: data})
	return nil
}

// Lawyers lists every lawyer account
func (s *AccountService) Lawyers() ([]models.User, error) {
	var lawyers []models.User
	if err := s.db.Where("user_type = ?", models.UserTypeLawyer).Order("full_name").Find(&lawyers).Error; err != nil {
		return nil, fmt.Errorf("failed to list lawyers: %w", err)
	}
	return lawyers, nil
}

// Lawyer returns one lawyer's profile
func (s *AccountService) Lawyer(id string) (*LawyerProfile, error) {
	var user models.User
	err := s.db.Where("id = ? AND user_type = ?", id, models.UserTypeLawyer).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Lawyer")
		}
		return nil, fmt.Errorf("failed to fetch lawyer: %w", err)
	}
	return &LawyerProfile{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Bio:         user.Bio,
		Specialist:  user.Specialist,
		State:       user.State,
		District:    user.District,
		Address:     user.Address,
	}, nil
}

// GetUserByID loads an account by id
func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("User")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (s *AccountService) newUser(input RegisterInput, userType string) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{
		FullName:         strings.TrimSpace(input.FullName),
		Email:            input.Email,
		PhoneNumber:      input.PhoneNumber,
		Password:         hashed,
		RegistrationType: strings.TrimSpace(input.RegistrationType),
		State:            strings.TrimSpace(input.State),
		District:         strings.TrimSpace(input.District),
		UserType:         userType,
	}, nil
}

// ensureContactAvailable rejects an email or phone number another account uses.
// Empty values are not checked.
func (s *AccountService) ensureContactAvailable(scope *gorm.DB, email, phone string) error {
	if email != "" {
		var count int64
		if err := scope.Session(&gorm.Session{}).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return NewConflictError("Email is already registered")
		}
	}
	if phone != "" {
		var count int64
		if err := scope.Session(&gorm.Session{}).Model(&models.User{}).Where("phone_number = ?", phone).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check phone number: %w", err)
		}
		if count > 0 {
			return NewConflictError("Mobile number is already registered")
		}
	}
	return nil
}

// createError maps a unique violation lost to a concurrent registration onto Conflict
func (s *AccountService) createError(err error) error {
	if _, ok := AsDomainError(err); ok {
		return err
	}
	if IsUniqueViolation(err) {
		return NewConflictError("Email or mobile number is already registered")
	}
	return fmt.Errorf("failed to save user: %w", err)
}

func accessError(actor *models.User) error {
	if actor == nil {
		return NewUnauthenticatedError("Unauthorized")
	}
	return NewForbiddenError()
}
