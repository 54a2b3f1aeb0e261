package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reimburse/expense-system/internal/api/metrics"
	"github.com/reimburse/expense-system/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for the expense workflow.
type ExpenseHandler struct {
	service ports.WorkflowService
}

func NewExpenseHandler(service ports.WorkflowService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Submit handles POST /v1/expenses.
//
// @Summary      Submit a new expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      submitExpenseRequest  true   "Expense details"
// @Success      201              {object}  expenseResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /v1/expenses [post]
func (h *ExpenseHandler) Submit(c echo.Context) error {
	var req submitExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := toSubmitInput(req, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.SubmitExpense(c.Request().Context(), input)
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		return c.JSON(http.StatusOK, toExpenseResponse(result))
	}

	metrics.SubmissionsTotal.WithLabelValues(result.Category).Inc()
	return c.JSON(http.StatusCreated, toExpenseResponse(result))
}

// Decide handles POST /v1/expenses/:id/decision. The actor is always the
// authenticated user; the service enforces that it matches the designated
// approver.
//
// @Summary      Approve or reject an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Expense id"
// @Param        body  body      decideExpenseRequest  true  "Decision"
// @Success      200   {object}  expenseResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/expenses/{id}/decision [post]
func (h *ExpenseHandler) Decide(c echo.Context) error {
	actorEmail, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}

	var req decideExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.service.DecideExpense(c.Request().Context(), ports.DecideExpenseInput{
		ExpenseID:       id,
		ActorEmail:      actorEmail,
		Decision:        req.Decision,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return err
	}

	metrics.DecisionsTotal.WithLabelValues(req.Decision).Inc()
	metrics.DecisionDuration.WithLabelValues(req.Decision).Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, toExpenseResponse(result))
}

// Get handles GET /v1/expenses/:id.
//
// @Summary      Get an expense by id
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Expense id"
// @Success      200  {object}  expenseResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	actorEmail, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}

	result, err := h.service.GetExpense(c.Request().Context(), ports.GetExpenseInput{
		ExpenseID:  id,
		ActorEmail: actorEmail,
		Role:       role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toExpenseResponse(result))
}

// List handles GET /v1/expenses.
//
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        category   query     string  false  "Filter by category"
// @Param        submitter  query     string  false  "Filter by submitter email"
// @Param        date_from  query     string  false  "submitted_at >= (RFC 3339)"
// @Param        date_to    query     string  false  "submitted_at <= (RFC 3339)"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200  {object}  listExpensesResponse
// @Router       /v1/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	actorEmail, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	input := ports.ListExpensesInput{
		ActorEmail:     actorEmail,
		Role:           role,
		Status:         c.QueryParam("status"),
		Category:       c.QueryParam("category"),
		SubmitterEmail: c.QueryParam("submitter"),
	}
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_from must be RFC 3339")
		}
		input.DateFrom = t
	}
	if v := c.QueryParam("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_to must be RFC 3339")
		}
		input.DateTo = t
	}
	if v := c.QueryParam("page"); v != "" {
		input.Page, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("limit"); v != "" {
		input.Limit, _ = strconv.Atoi(v)
	}

	result, err := h.service.ListExpenses(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result))
}
