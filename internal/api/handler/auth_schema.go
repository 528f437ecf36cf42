package handler

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name    string `json:"name"    validate:"required"`
	Company string `json:"company" validate:"required"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current-password"`
	NewPassword     string `json:"new-password"`
	ConfirmPassword string `json:"confirm-password"`
}

// statusResponse is the generic {status, message} envelope.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type userInfo struct {
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Organization string `json:"organization"`
	Role         int    `json:"role"`
}

type loginResponse struct {
	Status   string   `json:"status"`
	Token    string   `json:"token"`
	UserInfo userInfo `json:"userInfo"`
}

type userInfoResponse struct {
	Status   string   `json:"status"`
	UserInfo userInfo `json:"userInfo"`
}

type historyEntry struct {
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	LoginAt   int64  `json:"loginAt"`
}

type historyResponse struct {
	Status  string         `json:"status"`
	History []historyEntry `json:"history"`
}

type tokenCheckResponse struct {
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}
