package handlers

import (
	"context"
	"net/http"

	"github.com/hey-kuldeep/expense-xtrac/expenses"
	"github.com/hey-kuldeep/expense-xtrac/models"

	"github.com/gin-gonic/gin"
)

// ExpenseLedger is implemented by *expenses.Ledger.
type ExpenseLedger interface {
	Create(ctx context.Context, in expenses.CreateInput) (*models.Expense, error)
	List(ctx context.Context, email string) ([]models.Expense, error)
	Update(ctx context.Context, in expenses.UpdateInput) (models.UpdateOutcome, error)
	Delete(ctx context.Context, id string) (models.DeleteOutcome, error)
}

type CreateExpenseRequest struct {
	Email       string   `json:"email" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Amount      *float64 `json:"amount" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Description string   `json:"description"`
}

type ListExpensesQuery struct {
	Email string `form:"email"`
}

type UpdateExpenseRequest struct {
	ID          string   `json:"id" binding:"required"`
	Category    *string  `json:"category"`
	Amount      *float64 `json:"amount"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
}

type DeleteExpenseQuery struct {
	ID string `form:"id" binding:"required"`
}

type ExpenseHandler struct {
	ledger ExpenseLedger
}

func NewExpenseHandler(ledger ExpenseLedger) *ExpenseHandler {
	return &ExpenseHandler{ledger: ledger}
}

func (h *ExpenseHandler) HandleCreate(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	expense, err := h.ledger.Create(c.Request.Context(), expenses.CreateInput{
		Email:       req.Email,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "Data Added Successfully", expense)
}

func (h *ExpenseHandler) HandleList(c *gin.Context) {
	var q ListExpensesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.ledger.List(c.Request.Context(), q.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	respondValue(c, http.StatusOK, "Data Fetched Successfully", list)
}

func (h *ExpenseHandler) HandleUpdate(c *gin.Context) {
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	outcome, err := h.ledger.Update(c.Request.Context(), expenses.UpdateInput{
		ID:          req.ID,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondValue(c, http.StatusOK, "Data Updated Successfully", outcome)
}

func (h *ExpenseHandler) HandleDelete(c *gin.Context) {
	var q DeleteExpenseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	outcome, err := h.ledger.Delete(c.Request.Context(), q.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Data Deleted Successfully", outcome)
}
