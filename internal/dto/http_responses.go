package dto

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"greenpledge/internal/model"
	"greenpledge/internal/wall"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."
)

// SubmitRequest is the public form draft. A draft never carries an id; the
// server assigns identity on creation. Phone and country requiredness is a
// deployment policy checked in the service layer, not here.
type SubmitRequest struct {
	Name        string           `json:"name" validate:"required,min=2,max=100"`
	Email       string           `json:"email" validate:"required,email"`
	Phone       string           `json:"phone" validate:"omitempty,phone"`
	Company     string           `json:"company"`
	Country     string           `json:"country"`
	Pledge      bool             `json:"pledge"`
	Interested  model.StringList `json:"interested"`
	LookingFor  model.StringList `json:"lookingFor"`
	PhotoBase64 string           `json:"photo_base64,omitempty"`
	PhotoURL    string           `json:"photo_url,omitempty"`
}

type SubmitResponse struct {
	Message   string `json:"message"`
	Created   bool   `json:"created"`
	EmailSent bool   `json:"email_sent"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

type WallResponse struct {
	Count   int         `json:"count"`
	Pledges []wall.Card `json:"pledges"`
}

type AdminStatsResponse struct {
	Count   int            `json:"count"`
	Pledges []model.Pledge `json:"pledges"`
}

// ThankYouMessage rides the queue from the submit handler to the email worker.
type ThankYouMessage struct {
	PledgeID int64  `json:"pledge_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Error is the flat error body the pages and the admin CLI parse; the message
// always lives under "error".
type Error struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(http.StatusBadRequest, Error{Code: code, Error: desc})
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func UnauthorizedError(c *ginext.Context) {
	c.JSON(http.StatusUnauthorized, Error{Error: "Unauthorized"})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(http.StatusInternalServerError, Error{Code: ServiceUnavailable, Error: InternalError})
}
