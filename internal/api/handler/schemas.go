package handler

// Request/response schemas for the auth and user-management surface.
// Validation tags mirror the account policy: usernames 3 to 50 characters,
// passwords at least 6.

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	Username    string `json:"username"     validate:"required,min=3,max=50"`
	Password    string `json:"password"     validate:"required,min=6"`
	IsAdmin     bool   `json:"is_admin"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}
