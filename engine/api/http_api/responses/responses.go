package responses

type BaseResponse struct {
	ErrorCode    string      `json:"error_code,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result"`
}

type SweepResponse struct {
	ExpiredCount int `json:"expired_count"`
}
