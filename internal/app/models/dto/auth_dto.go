package dto

// RegisterRequest is the student registration payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	College  string `json:"college" binding:"required"`
	Branch   string `json:"branch" binding:"required"`
	Year     int    `json:"year" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserProfile is the public view of a user; it never carries the password
// hash.
type UserProfile struct {
	ID       int64  `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	College  string `json:"college,omitempty"`
	Branch   string `json:"branch"`
	Year     int    `json:"year"`
	Semester int    `json:"semester"`
	Role     string `json:"role"`
}

// LoginResponse carries the issued token and the public profile.
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
	User      UserProfile `json:"user"`
}
