package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cts/user-auth-service/internal/core/domain"
	"github.com/cts/user-auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new customer account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registrationRequest  true  "User registration details"
// @Success      201   {object}  userMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Password:         req.Password,
		SecretQuestionID: req.SecretQuestionID,
		SecretAnswer:     req.SecretAnswer,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userMessageResponse{
		Message: "user registered successfully",
		User:    toUserResponse(user),
	})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		UserID:    res.User.ID,
		Email:     res.User.Email,
		JWTToken:  res.Token,
		FirstName: res.User.FirstName,
		LastName:  res.User.LastName,
		Role:      res.User.Role,
		ExpiresAt: res.ExpiresAt,
	})
}

// ForgotPassword resets a password after checking the secret-question answer.
//
// @Summary      Reset password with secret question
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        userId  path      string                 true  "User ID"
// @Param        body    body      passwordChangeRequest  true  "Secret answer and new password"
// @Success      200     {object}  userMessageResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      429     {object}  errorResponse
// @Router       /auth/forgot-password/{userId} [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req passwordChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.ForgotPassword(c.Request().Context(), c.Param("userId"), ports.PasswordChangeInput{
		SecurityQuestionID: req.SecurityQuestionID,
		Answer:             req.Answer,
		NewPassword:        req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userMessageResponse{
		Message: "password updated successfully",
		User:    toUserResponse(user),
	})
}

// ValidateToken reports whether the bearer token is valid. Other services call
// it, so an invalid token is answered with {"status": false} rather than an
// error envelope.
//
// @Summary      Validate an access token
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer <token>"
// @Success      200            {object}  domain.ValidationResult
// @Failure      401            {object}  domain.ValidationResult
// @Router       /auth/validate [get]
func (h *AuthHandler) ValidateToken(c echo.Context) error {
	res := h.authService.ValidateAuthToken(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
	if !res.Status {
		return c.JSON(http.StatusUnauthorized, domain.ValidationResult{Status: false})
	}
	return c.JSON(http.StatusOK, res)
}

// Questions lists the secret questions offered at registration.
//
// @Summary      List secret questions
// @Tags         auth
// @Produce      json
// @Success      200  {array}   questionResponse
// @Failure      500  {object}  errorResponse
// @Router       /auth/questions [get]
func (h *AuthHandler) Questions(c echo.Context) error {
	qs, err := h.authService.ListSecretQuestions(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]questionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, questionResponse{ID: q.ID, Question: q.Question})
	}
	return c.JSON(http.StatusOK, out)
}

// Me returns the authenticated caller's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetUser returns any account by ID. Mounted behind RBAC(ADMIN).
//
// @Summary      Get user by ID
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  userResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /admin/users/{userId} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
