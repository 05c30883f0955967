package controllers

import (
	"bufio"
	"net/http"

	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/pkg/ctx"
)

type MenuController struct {
	service *services.MenuService
}

func NewMenuController(service *services.MenuService) *MenuController {
	return &MenuController{service: service}
}

type menuRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Category    string  `json:"category"    validate:"required"`
	Image       string  `json:"image"       validate:"max=1024"`
	IsAvailable *bool   `json:"isAvailable"`
}

type menuPatchRequest struct {
	Name        *string  `json:"name"        validate:"nullable,min=1,max=255"`
	Description *string  `json:"description" validate:"nullable,max=2000"`
	Price       *float64 `json:"price"       validate:"nullable,gte=0"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"       validate:"nullable,max=1024"`
	IsAvailable *bool    `json:"isAvailable"`
}

// Index handles GET /api/menu-items[?category=].
func (m *MenuController) Index(c *ctx.Context) {
	items, err := m.service.List(c.Context(), c.Query("category"))
	if err != nil {
		fail(c, err, MsgDishNotFound)
		return
	}
	c.Success(items)
}

// Show handles GET /api/menu-items/{id}.
func (m *MenuController) Show(c *ctx.Context) {
	item, err := m.service.Get(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, MsgDishNotFound)
		return
	}
	c.Success(item)
}

// Store handles POST /api/menu-items.
func (m *MenuController) Store(c *ctx.Context) {
	var in menuRequest
	if !c.BindJSON(&in) {
		return
	}

	item, err := m.service.Create(c.Context(), services.MenuInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		IsAvailable: in.IsAvailable,
	})
	if err != nil {
		fail(c, err, MsgDishNotFound)
		return
	}
	c.Created(item)
}

// Update handles PUT /api/menu-items/{id}. Absent fields are left unchanged.
func (m *MenuController) Update(c *ctx.Context) {
	var in menuPatchRequest
	if !c.BindJSON(&in) {
		return
	}

	item, err := m.service.Update(c.Context(), c.Param("id"), services.MenuPatch{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		IsAvailable: in.IsAvailable,
	})
	if err != nil {
		fail(c, err, MsgDishNotFound)
		return
	}
	c.Success(item)
}

// Destroy handles DELETE /api/menu-items/{id}.
func (m *MenuController) Destroy(c *ctx.Context) {
	if err := m.service.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err, MsgDishNotFound)
		return
	}
	c.OK(MsgItemRemoved)
}

// UploadImage handles POST /api/menu-items/{id}/image with a multipart
// "image" field. The content type is sniffed from the file itself.
func (m *MenuController) UploadImage(c *ctx.Context) {
	file, _, err := c.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, MsgImageRequired)
		return
	}
	defer file.Close()

	br := bufio.NewReaderSize(file, 512)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)

	item, err := m.service.UploadImage(c.Context(), c.Param("id"), br, contentType)
	if err != nil {
		fail(c, err, MsgDishNotFound)
		return
	}
	c.Success(item)
}
