package controllers

import (
	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/users/register.
func (a *AuthController) Register(c *ctx.Context) {
	var in registerRequest
	if !c.BindJSON(&in) {
		return
	}

	sess, err := a.service.Register(c.Context(), services.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		fail(c, err, MsgUserNotFound)
		return
	}
	c.Created(sess)
}

// Login handles POST /api/users/login.
func (a *AuthController) Login(c *ctx.Context) {
	var in loginRequest
	if !c.BindJSON(&in) {
		return
	}

	sess, err := a.service.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err, MsgUserNotFound)
		return
	}
	c.Success(sess)
}

// Profile handles GET /api/users/profile.
func (a *AuthController) Profile(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	u, err := a.service.Profile(c.Context(), id.ID)
	if err != nil {
		fail(c, err, MsgUserNotFound)
		return
	}
	c.Success(u)
}
