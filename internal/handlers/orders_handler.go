package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hikstore/order-intake/internal/pipeline"
	"github.com/hikstore/order-intake/internal/validation"
)

// OrderIntake is what the route needs from the pipeline.
type OrderIntake interface {
	Intake(ctx context.Context, req *validation.OrderRequest, meta pipeline.Meta) (*pipeline.Result, error)
}

// orderResponse is the boundary contract, independent of hosting target.
type orderResponse struct {
	Success        bool   `json:"success"`
	OrderNumber    string `json:"order_number,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Details        string `json:"details,omitempty"`
	ClearCart      bool   `json:"clear_cart,omitempty"`
}

// RegisterOrderRoutes registers the order intake route. Upstream middleware
// is expected to have handled CORS and auth already; this handler only
// attaches provenance and maps pipeline errors onto HTTP statuses.
func RegisterOrderRoutes(r *gin.Engine, intake OrderIntake) {
	r.POST("/api/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.OrderRequest
		if err := validation.Bind(c, &req); err != nil {
			// Bind already wrote a 400
			return
		}

		corrID := c.GetHeader("X-Request-Id")
		if corrID == "" {
			corrID = uuid.NewString()
		}
		meta := pipeline.Meta{
			SourceIP:       c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
			CorrelationID:  corrID,
		}

		result, err := intake.Intake(ctx, &req, meta)
		if err != nil {
			var fe *validation.FieldError
			if errors.As(err, &fe) {
				c.JSON(http.StatusBadRequest, orderResponse{
					Success: false,
					Error:   "validation_failed",
					Details: fe.Error(),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, orderResponse{
				Success: false,
				Error:   "order_processing_failed",
				Details: err.Error(),
			})
			return
		}

		if result.Replayed {
			c.JSON(http.StatusOK, orderResponse{
				Success:        true,
				OrderNumber:    result.OrderNumber,
				TrackingNumber: result.TrackingNumber,
				Message:        "Order already received",
			})
			return
		}

		c.JSON(http.StatusOK, orderResponse{
			Success:        true,
			OrderNumber:    result.OrderNumber,
			TrackingNumber: result.TrackingNumber,
			Message:        "Order placed successfully!",
			ClearCart:      true,
		})
	})
}
