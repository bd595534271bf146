package handlers

import (
	"context"
	"net/http"

	"github.com/hey-kuldeep/expense-xtrac/models"
	"github.com/hey-kuldeep/expense-xtrac/users"

	"github.com/gin-gonic/gin"
)

// UserDirectory is implemented by *users.Directory.
type UserDirectory interface {
	Register(ctx context.Context, in users.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (bool, error)
}

type SignupRequest struct {
	FullName string `json:"fullname" binding:"required"`
	Gender   string `json:"gender" binding:"required"`
	Mobile   string `json:"mobile" binding:"required,min=10"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserHandler struct {
	directory UserDirectory
}

func NewUserHandler(directory UserDirectory) *UserHandler {
	return &UserHandler{directory: directory}
}

func (h *UserHandler) HandleSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.directory.Register(c.Request.Context(), users.RegisterInput{
		FullName: req.FullName,
		Gender:   req.Gender,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "User registered successfully", user)
}

func (h *UserHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ok, err := h.directory.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if !ok {
		respondMessage(c, http.StatusOK, true, "Incorrect email or password")
		return
	}
	respondMessage(c, http.StatusOK, false, "Logged in successfully")
}
