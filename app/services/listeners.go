package services

import (
	"context"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/pkg/event"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
)

// LogOrderEvents writes an audit log line for every order event.
func LogOrderEvents(d *event.Dispatcher) {
	d.Listen(EventOrderCreated, func(ctx context.Context, p any) {
		if o, ok := p.(*models.Order); ok {
			logger.WithCtx(ctx).Info("order created",
				"order_id", o.ID, "user_id", o.UserID, "items", len(o.Items), "total", o.Total)
		}
	})
	d.Listen(EventOrderStatusChanged, func(ctx context.Context, p any) {
		if c, ok := p.(StatusChange); ok {
			logger.WithCtx(ctx).Info("order status changed",
				"order_id", c.Order.ID, "from", c.From, "to", c.To)
		}
	})
	d.Listen(EventOrderDeleted, func(ctx context.Context, p any) {
		logger.WithCtx(ctx).Info("order removed", "order_id", p)
	})
}
