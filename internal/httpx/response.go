// Package httpx はハンドラ共通のレスポンス整形。エラーは
// {"error":{"code","message"}} の形に揃える。
package httpx

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-backend/internal/apperr"
)

type errorDTO struct {
	Error struct {
		Code    apperr.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func errorBody(code apperr.Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// Error はサービス層のエラーをHTTPステータスとエラーDTOに写して返す
func Error(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	msg := err.Error()
	var e *apperr.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	c.JSON(apperr.HTTPStatus(err), errorBody(code, msg))
}

// BadRequest はバインド失敗など、サービス層に入る前のエラー用
func BadRequest(c *gin.Context, msg string) {
	c.JSON(400, errorBody(apperr.CodeInvalidArgument, msg))
}
