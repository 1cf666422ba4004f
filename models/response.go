package models

// HealthCheckResponse returns the health check response, yes I am alive
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// ErrorResponse is the generic failure envelope used by the operator endpoints
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SimpleResponse is the generic success envelope used by the operator endpoints
type SimpleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DispatchResponse is the body returned by POST /sendAdminNotification
type DispatchResponse struct {
	Success                   bool   `json:"success"`
	Message                   string `json:"message"`
	TotalSent                 int    `json:"totalSent"`
	TotalFailed               int    `json:"totalFailed"`
	TokensRefreshed           int    `json:"tokensRefreshed"`
	RecipientCount            int    `json:"recipientCount"`
	InAppNotificationsSaved   int    `json:"inAppNotificationsSaved"`
	PushNotificationAttempted bool   `json:"pushNotificationAttempted"`
	OriginalDonorCount        int    `json:"originalDonorCount"`
	AdminUsersFiltered        int    `json:"adminUsersFiltered"`
}
