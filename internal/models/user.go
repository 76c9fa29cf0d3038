package models

import (
	"regexp"
	"strings"
	"time"
)

// SecurityQuestion identifies one of the fixed account recovery questions
type SecurityQuestion string

const (
	QuestionFavoriteColor SecurityQuestion = "fav_color"
	QuestionFirstPet      SecurityQuestion = "first_pet"
	QuestionBirthCity     SecurityQuestion = "birth_city"
	QuestionBestFriend    SecurityQuestion = "best_friend"
	QuestionMotherMaiden  SecurityQuestion = "mother_maiden"
)

var securityQuestionText = map[SecurityQuestion]string{
	QuestionFavoriteColor: "What is your favorite color?",
	QuestionFirstPet:      "What was the name of your first pet?",
	QuestionBirthCity:     "In what city were you born?",
	QuestionBestFriend:    "What is the first name of your best friend in high school?",
	QuestionMotherMaiden:  "What is your mother's maiden name?",
}

// User represents an account
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Profile holds optional personal details and recovery information for a user
type Profile struct {
	UserID             int              `json:"user_id" db:"user_id"`
	FirstName          string           `json:"first_name" db:"first_name"`
	LastName           string           `json:"last_name" db:"last_name"`
	FavoriteMovie      string           `json:"favorite_movie" db:"favorite_movie"`
	SecurityQuestion   SecurityQuestion `json:"security_question" db:"security_question"`
	SecurityAnswerHash string           `json:"-" db:"security_answer_hash"`
}

// SignupRequest represents the data needed to create an account
type SignupRequest struct {
	Username         string           `json:"username"`
	Password         string           `json:"password"`
	PasswordConfirm  string           `json:"password_confirm"`
	SecurityQuestion SecurityQuestion `json:"security_question"`
	SecurityAnswer   string           `json:"security_answer"`
}

// UserCreateRequest is what the repository persists for a new account
type UserCreateRequest struct {
	Username           string
	PasswordHash       string
	SecurityQuestion   SecurityQuestion
	SecurityAnswerHash string
}

// ProfileUpdateRequest represents the editable profile fields. An empty
// SecurityAnswer keeps the stored answer.
type ProfileUpdateRequest struct {
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	FavoriteMovie    string           `json:"favorite_movie"`
	SecurityQuestion SecurityQuestion `json:"security_question"`
	SecurityAnswer   string           `json:"security_answer"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

// Validate validates signup data
func (req *SignupRequest) Validate() error {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateUsername(req.Username); err != nil {
		return err
	}

	if err := validatePassword(req.Password); err != nil {
		return err
	}

	if req.Password != req.PasswordConfirm {
		return newValidationError("the two password fields didn't match")
	}

	if !req.SecurityQuestion.IsValid() {
		return newValidationError("select a valid security question")
	}

	if NormalizeSecurityAnswer(req.SecurityAnswer) == "" {
		return newValidationError("security answer is required")
	}

	if len(req.SecurityAnswer) > 255 {
		return newValidationError("security answer must be less than 255 characters")
	}

	return nil
}

// Validate validates profile update data
func (req *ProfileUpdateRequest) Validate() error {
	for _, field := range []string{req.FirstName, req.LastName} {
		if len(field) > 150 {
			return newValidationError("names must be less than 150 characters")
		}
	}

	if len(req.FavoriteMovie) > 255 {
		return newValidationError("favorite movie must be less than 255 characters")
	}

	if !req.SecurityQuestion.IsValid() {
		return newValidationError("select a valid security question")
	}

	if len(req.SecurityAnswer) > 255 {
		return newValidationError("security answer must be less than 255 characters")
	}

	return nil
}

// validateUsername validates a username
func validateUsername(username string) error {
	if username == "" {
		return newValidationError("username is required")
	}

	if len(username) < 3 {
		return newValidationError("username must be at least 3 characters long")
	}

	if len(username) > 150 {
		return newValidationError("username must be less than 150 characters")
	}

	if !usernameRegex.MatchString(username) {
		return newValidationError("username may contain only letters, digits and @/./+/-/_")
	}

	return nil
}

// validatePassword validates a password
func validatePassword(password string) error {
	if password == "" {
		return newValidationError("password is required")
	}

	if len(password) < 8 {
		return newValidationError("password must be at least 8 characters long")
	}

	if len(password) > 128 {
		return newValidationError("password must be less than 128 characters")
	}

	return nil
}

// NormalizeSecurityAnswer trims and case-folds an answer before hashing or comparison
func NormalizeSecurityAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// IsValid returns true for one of the fixed questions
func (q SecurityQuestion) IsValid() bool {
	_, ok := securityQuestionText[q]
	return ok
}

// Text returns the human-readable question
func (q SecurityQuestion) Text() string {
	return securityQuestionText[q]
}

// SecurityQuestions returns every question key with its text
func SecurityQuestions() map[SecurityQuestion]string {
	questions := make(map[SecurityQuestion]string, len(securityQuestionText))
	for k, v := range securityQuestionText {
		questions[k] = v
	}
	return questions
}

// HasRecovery returns true if the profile has a usable recovery answer
func (p *Profile) HasRecovery() bool {
	return p.SecurityQuestion.IsValid() && p.SecurityAnswerHash != ""
}
