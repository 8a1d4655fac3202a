package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

type AccountHandler struct {
	account ports.AccountService
}

func NewAccountHandler(account ports.AccountService) *AccountHandler {
	return &AccountHandler{account: account}
}

type registerRequest struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Register creates a pending account; the server sends a verification email.
//
// @Summary      Register
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  statusResponse
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /accounts [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return &domain.ValidationError{Code: "invalid_payload", Message: "invalid payload"}
	}

	err := h.account.Register(c.Request().Context(), domain.Registration{
		Username:        req.Username,
		Name:            req.Name,
		Surname:         req.Surname,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, statusResponse{Status: "pending_verification"})
}

// Verify confirms an email address with the token from the verification mail.
//
// @Summary      Verify email
// @Tags         accounts
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  statusResponse
// @Failure      422    {object}  map[string]string
// @Router       /accounts/verify [get]
func (h *AccountHandler) Verify(c echo.Context) error {
	if err := h.account.VerifyEmail(c.Request().Context(), c.QueryParam("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "verified"})
}

// Profile returns the authenticated user's profile.
//
// @Summary      Profile
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  map[string]string
// @Router       /accounts/me [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	p, err := h.account.Profile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes the account and ends the session.
//
// @Summary      Delete account
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /accounts/me [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.account.DeleteAccount(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"deleted": sess.Username})
}

// Contact sends the public contact form.
//
// @Summary      Contact
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ContactMessage  true  "Message"
// @Success      202   {object}  statusResponse
// @Failure      422   {object}  map[string]string
// @Router       /contact [post]
func (h *AccountHandler) Contact(c echo.Context) error {
	var msg domain.ContactMessage
	if err := c.Bind(&msg); err != nil {
		return &domain.ValidationError{Code: "invalid_payload", Message: "invalid payload"}
	}
	if err := h.account.Contact(c.Request().Context(), msg); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, statusResponse{Status: "sent"})
}
