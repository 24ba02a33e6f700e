package response

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"storefront-api/internal/domain"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New keeps data non-null in the wire format.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// FromError maps service errors onto an HTTP status and envelope. NotFound
// and constraint violations are business outcomes; anything else from the
// service layer is a propagated backend failure, reported as unavailable
// rather than masked as a missing resource.
func FromError(err error) (int, Resp) {
	var ve validation.Errors
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, Error(CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, Error(CodeConflict, err.Error())
	case errors.As(err, &ve):
		return http.StatusBadRequest, Error(CodeBadRequest, err.Error())
	default:
		return http.StatusServiceUnavailable, Error(CodeUnavailable, err.Error())
	}
}
