package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type UpdateProfileRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1,max=80"`
	Preferences []string `json:"preferences,omitempty" binding:"omitempty,max=30,dive,min=1,max=40"`
}
