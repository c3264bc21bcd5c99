package dtos

// CredentialsRequest caps passwords at 72 characters, bcrypt's input limit.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}
