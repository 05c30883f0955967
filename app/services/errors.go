package services

import (
	"errors"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/app/repositories"
)

var (
	ErrNotFound   = repositories.ErrNotFound
	ErrEmailTaken = repositories.ErrEmailTaken

	ErrBadCredentials      = errors.New("invalid email or password")
	ErrAdminSignupDisabled = errors.New("admin self-registration is disabled")
	ErrInvalidRole         = errors.New("invalid role")

	ErrInvalidCategory = models.ErrInvalidCategory
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidImage    = errors.New("image must be a jpeg, png, gif or webp file")

	ErrEmptyOrder          = errors.New("order has no items")
	ErrInvalidItem         = errors.New("line item needs a name and a non-negative price")
	ErrMenuItemUnavailable = errors.New("menu item is unavailable")
	ErrInvalidStatus       = models.ErrInvalidStatus
	ErrInvalidTransition   = models.ErrInvalidTransition
)
