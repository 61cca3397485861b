package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"weeklydinner/internal/delivery/http/helpers"
	"weeklydinner/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.SeatingService
}

func NewRSVPController(logger *slog.Logger, svc domain.SeatingService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRSVPRequest is the request body for POST /rsvps.
type SubmitRSVPRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Location string `json:"location"`
	Email    string `json:"email,omitempty"` // optional; a confirmation is sent when set
}

// Validate implements helpers.Validator.
func (r *SubmitRSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.Age < domain.MinGuestAge || r.Age > domain.MaxGuestAge {
		errs = append(errs, fmt.Sprintf("age must be between %d and %d", domain.MinGuestAge, domain.MaxGuestAge))
	}
	if strings.TrimSpace(r.Location) == "" {
		errs = append(errs, "location is required")
	}
	if email := strings.TrimSpace(r.Email); email != "" && !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// SubmitRSVPSuccessResponse is the success response envelope for POST /rsvps (200 or 201).
type SubmitRSVPSuccessResponse struct {
	Data  *domain.RSVPReceipt `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SubmitRSVP godoc
// @Summary Submit an RSVP
// @Description Stores the guest and seats them at the best open table. Idempotent on name, age and location: returns 201 for a new guest and 200 with the stored guest when already submitted.
// @Tags rsvps
// @Accept json
// @Produce json
// @Param body body controllers.SubmitRSVPRequest true "Guest details"
// @Success 200 {object} controllers.SubmitRSVPSuccessResponse "Already submitted"
// @Success 201 {object} controllers.SubmitRSVPSuccessResponse "Guest seated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps [post]
func (c *RSVPController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	var req SubmitRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	guest := &domain.Guest{Name: req.Name, Age: req.Age, Location: req.Location, Email: req.Email}
	receipt, created, err := c.Service.SubmitRSVP(r.Context(), guest)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, receipt)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, receipt)
}

// ListRSVPsSuccessResponse is the success response envelope for GET /rsvps (200).
type ListRSVPsSuccessResponse struct {
	Data  []*domain.Guest   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListRSVPs godoc
// @Summary List RSVPs
// @Description Returns every guest with their current table, oldest submission first.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListRSVPsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps [get]
func (c *RSVPController) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	guests, err := c.Service.ListGuests(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guests)
}
