package response_models

import "tripmate/internal/models/db_models"

type PaymentReceipt struct {
	Booking db_models.Booking `json:"booking"`
	Payment db_models.Payment `json:"payment"`
}

type SystemStatus struct {
	Status        string `json:"status"`
	Store         string `json:"store"`
	StoreHealthy  bool   `json:"storeHealthy"`
	AIProvider    string `json:"aiProvider"`
	SelectedModel string `json:"selectedModel,omitempty"`
	Uptime        string `json:"uptime"`
}
