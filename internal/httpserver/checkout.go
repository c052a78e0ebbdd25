package httpserver

import (
	"net/http"

	checkoutsvc "storefront/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func checkoutHandler(checkout checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.PlaceOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		var userID string
		if u := userFrom(c); u != nil {
			userID = u.ID
		}
		res, err := checkout.PlaceOrder(c.Request.Context(), userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		status := http.StatusCreated
		if res.Replayed {
			status = http.StatusOK
		}
		c.JSON(status, res)
	}
}

func createPaymentOrderHandler(gateway paymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gateway == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment gateway not configured"})
			return
		}
		var in struct {
			AmountCents int64  `json:"amountCents"`
			Currency    string `json:"currency"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		if in.AmountCents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amountCents must be positive"})
			return
		}
		if in.Currency == "" {
			in.Currency = "INR"
		}
		ord, err := gateway.CreateOrder(c.Request.Context(), in.AmountCents, in.Currency)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"providerOrderId": ord.ProviderOrderID,
			"amountCents":     ord.AmountCents,
			"currency":        ord.Currency,
		})
	}
}
