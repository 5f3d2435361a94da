package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	"tripmate/internal/models/response_models"
	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a local account and return a bearer token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/auth/signup [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, token, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user and return a token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, token, "Login successful")
}

// VerifyToken godoc
// @Summary Verify a bearer token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.VerifyTokenRequest true "Token"
// @Success 200 {object} response_models.IdentityResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/verify-token [post]
func (a *AccountController) VerifyToken(c *gin.Context) {
	var req request_models.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	identity, err := a.accountService.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.IdentityResponse{UID: identity.UID, Email: identity.Email}, "Token is valid")
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Creates the profile on first access
// @Tags Accounts
// @Produce json
// @Success 200 {object} response_models.AccountResponse
// @Security BearerAuth
// @Router /api/auth/user [get]
func (a *AccountController) GetProfile(c *gin.Context) {
	identity := utils.Identity{UID: c.GetString("user_id"), Email: c.GetString("email")}

	account, err := a.accountService.GetOrCreateProfile(c.Request.Context(), identity)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, toAccountResponse(account), "Profile fetched successfully")
}

// UpdateProfile godoc
// @Summary Update the caller's name and preferences
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} response_models.AccountResponse
// @Security BearerAuth
// @Router /api/auth/user [put]
func (a *AccountController) UpdateProfile(c *gin.Context) {
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := a.accountService.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, toAccountResponse(account), "Profile updated successfully")
}

func toAccountResponse(account *db_models.Account) response_models.AccountResponse {
	return response_models.AccountResponse{
		ID:          account.ID,
		Name:        account.Name,
		Email:       account.Email,
		Preferences: account.Preferences,
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
	}
}
