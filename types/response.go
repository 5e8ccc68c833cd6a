package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

