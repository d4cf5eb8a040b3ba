package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/services"
)

func CreateCheckoutSession(o *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustUser(c)
		if !ok {
			return
		}
		var input services.CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", err.Error()))
			return
		}

		session, err := o.Checkout(c.Request.Context(), user, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(session, "Checkout session created"))
	}
}

// PaymentWebhook receives gateway callbacks. A bad signature is rejected with
// 400; once the event is durably recorded the gateway always gets 200 so it
// stops redelivering, whatever happened downstream.
func PaymentWebhook(gateway services.PaymentGateway, o *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "failed to read request body"))
			return
		}

		notice, err := gateway.ParseNotice(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("validation", "invalid webhook signature"))
			return
		}

		if err := o.Reconcile(c.Request.Context(), notice); err != nil {
			// Recording the event failed; ask the gateway to retry.
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
