package controllers

import (
	"log/slog"
	"net/http"

	"weeklydinner/internal/delivery/http/helpers"
	"weeklydinner/internal/delivery/http/middleware"
	"weeklydinner/internal/domain"
)

type TableController struct {
	Logger  *slog.Logger
	Service domain.SeatingService
}

func NewTableController(logger *slog.Logger, svc domain.SeatingService) *TableController {
	return &TableController{
		Logger:  logger,
		Service: svc,
	}
}

// ListTablesSuccessResponse is the success response envelope for GET /tables (200).
type ListTablesSuccessResponse struct {
	Data  *domain.TablesOverview `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListTables godoc
// @Summary List tables
// @Description Groups guests by table and reports age and distance statistics per table, plus how many tables are inside, below and above the 4 to 6 guest band.
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListTablesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tables [get]
func (c *TableController) ListTables(w http.ResponseWriter, r *http.Request) {
	overview, err := c.Service.ListTables(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, overview)
}

// ReassignTablesSuccessResponse is the success response envelope for POST /tables/reassign (200).
type ReassignTablesSuccessResponse struct {
	Data  *domain.ReassignmentResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ReassignTables godoc
// @Summary Reassign all tables
// @Description Re-clusters every guest into tables of 4 to 6 by age and distance and saves the new labels. Nothing is changed when there are fewer than 8 guests or the result breaks the size band.
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ReassignTablesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: insufficient_guests or constraint_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tables/reassign [post]
func (c *TableController) ReassignTables(w http.ResponseWriter, r *http.Request) {
	result, err := c.Service.ReassignTables(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	subject, _ := middleware.SubjectFromContext(r.Context())
	c.Logger.InfoContext(r.Context(), "tables reassigned by admin", "subject", subject, "tables", result.TableCount)
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
