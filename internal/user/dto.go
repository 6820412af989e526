package user

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=50"`
	Email       string  `json:"email" validate:"required,email"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Username    *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	Label       string  `json:"label"`
	Email       string  `json:"email"`
	CreatedAt   string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Label:       u.Label(),
		Email:       u.Email,
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
