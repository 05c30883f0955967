package controllers

import (
	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type orderItemRequest struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
}

type orderRequest struct {
	CustomerName string             `json:"customerName" validate:"max=255"`
	Items        []orderItemRequest `json:"items"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Store handles POST /api/orders. Any authenticated caller may order.
func (o *OrderController) Store(c *ctx.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var in orderRequest
	if !c.BindJSON(&in) {
		return
	}

	items := make([]services.OrderItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, services.OrderItemInput{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Price:      it.Price,
		})
	}

	order, err := o.service.Create(c.Context(), id, in.CustomerName, items)
	if err != nil {
		fail(c, err, MsgOrderNotFound)
		return
	}
	c.Created(order)
}

// Index handles GET /api/orders.
func (o *OrderController) Index(c *ctx.Context) {
	orders, err := o.service.List(c.Context())
	if err != nil {
		fail(c, err, MsgOrderNotFound)
		return
	}
	c.Success(orders)
}

// Show handles GET /api/orders/{id}.
func (o *OrderController) Show(c *ctx.Context) {
	order, err := o.service.Get(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, MsgOrderNotFound)
		return
	}
	c.Success(order)
}

// Update handles PUT /api/orders/{id}: {"status":"Preparing"}.
func (o *OrderController) Update(c *ctx.Context) {
	var in statusRequest
	if !c.BindJSON(&in) {
		return
	}

	order, err := o.service.UpdateStatus(c.Context(), c.Param("id"), in.Status)
	if err != nil {
		fail(c, err, MsgOrderNotFound)
		return
	}
	c.Success(order)
}

// Destroy handles DELETE /api/orders/{id}.
func (o *OrderController) Destroy(c *ctx.Context) {
	if err := o.service.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err, MsgOrderNotFound)
		return
	}
	c.OK(MsgOrderRemoved)
}
