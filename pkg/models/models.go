package models

import (
	"strings"
	"time"
)

// Envelope is the {data: T} wrapper every successful catalog response uses
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// User is the subject of an authenticated session
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book is a catalog entry. Author and CategoryName are plain names, not references.
type Book struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Publisher    string `json:"publisher"`
	Author       string `json:"author"`
	CategoryName string `json:"category_name"`
	ProductCode  string `json:"product_code"`
	PageCount    int    `json:"page_count"`
	ReleasedYear int    `json:"released_year"`
}

// AuthorInfo is attached to enriched books
type AuthorInfo struct {
	Name      string `json:"name"`
	Biography string `json:"biography"`
}

// EnrichedBook is a book with optional author information
type EnrichedBook struct {
	Book
	AuthorInfo *AuthorInfo `json:"author_info,omitempty"`
}

// Author represents a catalog author
type Author struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Biography string `json:"biography,omitempty"`
}

// Genre represents a catalog genre (category)
type Genre struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AuthorDetail is an author together with their books
type AuthorDetail struct {
	Author    Author `json:"author"`
	Books     []Book `json:"books"`
	BookCount int    `json:"book_count"`
}

// GenreDetail is a genre together with one page of its books
type GenreDetail struct {
	Genre      Genre  `json:"genre"`
	Books      []Book `json:"books"`
	BookCount  int    `json:"book_count"`
	Total      int    `json:"total,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
}

// PageMeta holds the pagination fields of a paginated envelope
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Normalize enforces TotalPages == ceil(Total / PageSize) and clamps Page into
// [1, TotalPages] when there are results.
func (m PageMeta) Normalize() PageMeta {
	if m.PageSize > 0 {
		m.TotalPages = (m.Total + m.PageSize - 1) / m.PageSize
	}
	if m.Page < 1 {
		m.Page = 1
	}
	if m.Total > 0 && m.TotalPages > 0 && m.Page > m.TotalPages {
		m.Page = m.TotalPages
	}
	return m
}

// Recommendation is a scored book suggestion
type Recommendation struct {
	Book   Book   `json:"book"`
	Reason string `json:"reason"`
	Score  int    `json:"score"`
}

// RecommendationSet is the payload of the recommendation endpoints
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	Total           int              `json:"total"`
	Category        string           `json:"category,omitempty"`
	Author          string           `json:"author,omitempty"`
	Type            string           `json:"type,omitempty"`
	GeneratedAt     string           `json:"generated_at,omitempty"`
	Timestamp       string           `json:"timestamp,omitempty"`
}

// Generated returns whichever generation time the server reported
func (r *RecommendationSet) Generated() string {
	if r.GeneratedAt != "" {
		return r.GeneratedAt
	}
	return r.Timestamp
}

// RecommendationStatus reports the recommendation service and its dependencies
type RecommendationStatus struct {
	RecommendationService string            `json:"recommendation_service"`
	DependentServices     map[string]string `json:"dependent_services"`
	AllServicesHealthy    bool              `json:"all_services_healthy"`
}

// HealthReport is the gateway health payload
type HealthReport struct {
	Gateway  string            `json:"gateway"`
	Status   string            `json:"status,omitempty"`
	Services map[string]string `json:"services"`
}

// LoginRequest is the login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the registration body
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the login response
type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// RegisterResponse represents the registration response (no token is issued)
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// TokenValidation is returned by the validate endpoint
type TokenValidation struct {
	Valid    bool   `json:"valid"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServiceStatus combines the gateway health with the recommendation service
// status. RecommendationsError is set when only the latter could not be read.
type ServiceStatus struct {
	Health               HealthReport          `json:"health"`
	Recommendations      *RecommendationStatus `json:"recommendations,omitempty"`
	RecommendationsError string                `json:"recommendations_error,omitempty"`
}

// Healthy reports whether a reported service state means the service is up
func Healthy(state string) bool {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "healthy", "ok", "up":
		return true
	}
	return false
}
