package api

import "github.com/judgegodwins/chess-rooms/http_utils"

const (
	ErrorMessage500 = "Something went wrong!"
)

func errorResponse(msg string) http_utils.BaseResponse {
	return http_utils.NewBaseResponse(false, msg)
}

func successResponse[T interface{}](msg string, data T) http_utils.DataResponse {
	return http_utils.DataResponse{
		BaseResponse: http_utils.NewBaseResponse(true, msg),
		Data:         data,
	}
}
