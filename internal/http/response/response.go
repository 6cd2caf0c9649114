package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps err through apierr.From. Internal errors are
// reported with a generic message so driver details stay in the logs.
func RespondServiceError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.From(err, fallbackCode)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, ae.Status, ae.Code, nil)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
