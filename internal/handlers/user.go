package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiromasa-t/project-collab-api/internal/dto"
	apierrors "github.com/hiromasa-t/project-collab-api/internal/errors"
	"github.com/hiromasa-t/project-collab-api/internal/services"
)

type UserHandler struct {
	identityService *services.IdentityService
}

func NewUserHandler(identityService *services.IdentityService) *UserHandler {
	return &UserHandler{
		identityService: identityService,
	}
}

type identityRequest struct {
	Sub           string `json:"sub" binding:"required"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}

func (r identityRequest) toProfile() services.IdentityProfile {
	return services.IdentityProfile{
		Subject:       r.Sub,
		Name:          r.Name,
		Email:         r.Email,
		Picture:       r.Picture,
		EmailVerified: r.EmailVerified,
	}
}

// FindOrCreateMe resolves the identity-provider subject to a user record,
// creating it on first sign-in.
func (h *UserHandler) FindOrCreateMe(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.identityService.FindOrCreate(req.toProfile())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingSubject), errors.Is(err, services.ErrMissingEmail):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateMe updates the user's profile from the identity provider.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.identityService.UpdateProfile(req.toProfile())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingSubject):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
