package auth

// login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// registration request payload
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=customer vendor CUSTOMER VENDOR"` // admin accounts are provisioned, never self-registered
}

// represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// represents change password request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// represents logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// profile update payload, all fields optional
type UpdateProfileRequest struct {
	FirstName        *string `json:"first_name,omitempty" validate:"omitempty,min=2,max=100"`
	LastName         *string `json:"last_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	AvatarURL        *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Gender           *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address          *string `json:"address,omitempty" validate:"omitempty,max=255"`
	City             *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PreferredContact *string `json:"preferred_contact,omitempty" validate:"omitempty,oneof=email sms"`
}
