package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleTeacher is a teacher user role.
	UserRoleTeacher UserRole = "teacher"
	// UserRoleAdmin is an admin user role.
	UserRoleAdmin UserRole = "admin"
)

// User represents a console user.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the URL prefix of a sub-path deployment.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext returns the URL prefix, or "" at the root.
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionRecord is a question bank entry. A record with no options is a
// free-response question; otherwise CorrectAnswerIndex points into Options.
type QuestionRecord struct {
	ID                 string     `json:"id"`
	QuestionText       string     `json:"question_text"`
	Subject            string     `json:"subject"`
	ClassName          string     `json:"class_name"`
	Unit               string     `json:"unit"`
	BloomsLevel        string     `json:"blooms_level"`
	Difficulty         Difficulty `json:"difficulty"`
	IsTwisted          bool       `json:"is_twisted"`
	Options            []string   `json:"options"`
	CorrectAnswerIndex int        `json:"correct_answer_index"`
	Explanation        string     `json:"explanation"`
	CreatedAt          time.Time  `json:"created_at"`
}

// HasOptions reports whether the record is a multiple-choice question.
func (q QuestionRecord) HasOptions() bool {
	return len(q.Options) > 0
}

// QuestionFilter narrows question bank listings. Empty fields match everything.
// A non-zero UserID keeps only subjects and classes the user holds a grant for.
type QuestionFilter struct {
	Subject    string
	ClassName  string
	Unit       string
	Difficulty string
	UserID     int64
}

// QuestionImport is used for loading questions from JSON.
type QuestionImport struct {
	QuestionText       string     `json:"question_text" validate:"required"`
	Subject            string     `json:"subject" validate:"required"`
	ClassName          string     `json:"class_name" validate:"required"`
	Unit               string     `json:"unit"`
	BloomsLevel        string     `json:"blooms_level"`
	Difficulty         Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	IsTwisted          bool       `json:"is_twisted"`
	Options            []string   `json:"options" validate:"omitempty,max=26,dive,required"`
	CorrectAnswerIndex int        `json:"correct_answer_index" validate:"gte=0"`
	Explanation        string     `json:"explanation"`
}

// Record converts an import entry into a question record without an ID.
func (qi QuestionImport) Record() QuestionRecord {
	return QuestionRecord{
		QuestionText:       qi.QuestionText,
		Subject:            qi.Subject,
		ClassName:          qi.ClassName,
		Unit:               qi.Unit,
		BloomsLevel:        qi.BloomsLevel,
		Difficulty:         qi.Difficulty,
		IsTwisted:          qi.IsTwisted,
		Options:            qi.Options,
		CorrectAnswerIndex: qi.CorrectAnswerIndex,
		Explanation:        qi.Explanation,
	}
}

// Paper is an assembled question paper.
type Paper struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Subject          string    `json:"subject"`
	ClassName        string    `json:"class_name"`
	Chapter          string    `json:"chapter"`
	Instructions     []string  `json:"instructions"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	TotalMarks       int       `json:"total_marks"`
	QuestionIDs      []string  `json:"question_ids"`
	CreatedBy        int64     `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreatePaperRequest is the payload for assembling a new paper.
type CreatePaperRequest struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Subject          string   `json:"subject" validate:"required"`
	ClassName        string   `json:"class_name" validate:"required"`
	Chapter          string   `json:"chapter"`
	Instructions     []string `json:"instructions"`
	TimeLimitMinutes int      `json:"time_limit_minutes" validate:"gte=0"`
	TotalMarks       int      `json:"total_marks" validate:"gte=0"`
	QuestionIDs      []string `json:"question_ids" validate:"required,min=1,dive,required"`
}

// AccessGrant allows a teacher to work with papers of one subject and class.
type AccessGrant struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	ClassName string    `json:"class_name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateRequest describes a batch of questions to generate with the LLM.
type GenerateRequest struct {
	Subject     string     `json:"subject" validate:"required"`
	ClassName   string     `json:"class_name" validate:"required"`
	Unit        string     `json:"unit"`
	BloomsLevel string     `json:"blooms_level"`
	Difficulty  Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Count       int        `json:"count" validate:"required,min=1,max=20"`
	Twisted     bool       `json:"twisted"`
	NumOptions  int        `json:"num_options" validate:"omitempty,min=2,max=6"`
}
