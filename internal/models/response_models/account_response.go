package response_models

type AccountLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type IdentityResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type AccountResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Preferences []string `json:"preferences"`
	CreatedAt   string   `json:"createdAt"`
}
