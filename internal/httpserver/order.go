package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listOrdersHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := userFrom(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		list, err := orders.ListByUser(c.Request.Context(), u.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func getOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := userFrom(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		ord, err := orders.GetOwned(c.Request.Context(), u.ID, c.Param("orderID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": ord})
	}
}
