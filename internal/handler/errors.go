package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/admin-console/internal/errs"
)

// statusFor maps a domain error onto the console's HTTP status.
func statusFor(err error) int {
	var (
		ve  *errs.ValidationError
		pe  *errs.PreconditionError
		api *errs.APIError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &pe):
		return http.StatusConflict
	case errors.Is(err, errs.ErrUnauthenticated), errors.Is(err, errs.ErrSessionNotFound), errors.Is(err, errs.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidID), errors.Is(err, errs.ErrUnknownFilter), errors.Is(err, errs.ErrUnsupportedAction):
		return http.StatusBadRequest
	case errors.As(err, &api):
		switch {
		case api.Kind == errs.KindHTTP && api.StatusCode == http.StatusNotFound:
			return http.StatusNotFound
		case api.Kind == errs.KindHTTP && api.StatusCode == http.StatusUnauthorized:
			return http.StatusUnauthorized
		case api.Kind == errs.KindHTTP && api.StatusCode == http.StatusForbidden:
			return http.StatusForbidden
		case api.Kind == errs.KindHTTP && api.StatusCode >= 400 && api.StatusCode < 500:
			return http.StatusBadRequest
		case api.Kind == errs.KindNetwork:
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorBody is the JSON shape of every failed console response.
func errorBody(err error) gin.H {
	body := gin.H{"error": errs.Message(err)}
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Fields
	}
	return body
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), errorBody(err))
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
