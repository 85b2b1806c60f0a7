package http_utils

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DataResponse struct {
	BaseResponse
	Data interface{} `json:"data"`
}

type ValidationErrorResponse struct {
	BaseResponse
	Errors []string `json:"errors"`
}

func NewBaseResponse(success bool, msg string) BaseResponse {
	status := StatusError
	if success {
		status = StatusSuccess
	}

	return BaseResponse{
		Status:  status,
		Message: msg,
	}
}
