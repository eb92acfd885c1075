package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/feelmitra/mood-journal/internal/model"
	"github.com/feelmitra/mood-journal/internal/repository"
)

// UserHandler exposes the user store directly: an existence check by
// email and an idempotent create.  The dashboard bootstrap does both
// internally; these endpoints exist for clients that manage the check
// and create steps themselves.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

type createUserReq struct {
	Email      string `json:"email"`
	AuthUserID string `json:"auth_user_id"`
	Username   string `json:"username"`
}

// Check looks a user up by email.
func (h *UserHandler) Check(c echo.Context) error {
	email := model.NormalizeEmail(c.QueryParam("email"))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(rec)})
}

// Create inserts a user record.  The store enforces email uniqueness;
// a concurrent or repeated create returns the existing record instead
// of failing, so the endpoint is safe to retry.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := model.NormalizeEmail(req.Email)
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = model.UsernameFromEmail(email)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Users.CreateOrGet(ctx, model.UserRecord{
		UserID:     uuid.NewString(),
		AuthUserID: req.AuthUserID,
		Email:      email,
		Username:   username,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": toUserPart(rec)})
}
