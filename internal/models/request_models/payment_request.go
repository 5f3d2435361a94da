package request_models

type BookTripRequest struct {
	Travelers    int    `json:"travelers,omitempty" binding:"omitempty,min=1,max=50"`
	ContactEmail string `json:"contactEmail,omitempty" binding:"omitempty,email"`
}

type PayBookingRequest struct {
	CardNumber     string `json:"cardNumber" binding:"required"`
	ExpiryMonth    int    `json:"expiryMonth" binding:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiryYear" binding:"required"`
	CVC            string `json:"cvc" binding:"required"`
	CardholderName string `json:"cardholderName" binding:"required,min=2"`
}
