// Package response defines the uniform JSON envelope of the HTTP API.
package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"Remindly/pkg/errors"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	switch def.Code {
	case "REMINDER_NOT_FOUND", "ROUTINE_NOT_FOUND":
		return http.StatusNotFound
	case "REMINDER_INVALID", "RULE_INTERVAL_INVALID", "RULE_WEEKDAYS_INVALID",
		"RULE_FREQUENCY_INVALID", "OFFSET_INVALID", "CHANNEL_SPEC_INVALID",
		"TIMEZONE_INVALID", "ROUTINE_STEP_INVALID", "SCHEDULE_DAYS_INVALID",
		"CONTACT_ADDRESS_INVALID":
		return http.StatusBadRequest
	case "OWNER_MISSING":
		return http.StatusUnauthorized
	case "REBUILD_IN_PROGRESS":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
	})
}
