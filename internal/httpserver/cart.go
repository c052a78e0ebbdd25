package httpserver

import (
	"net/http"

	cartsvc "storefront/internal/service/cart"
	"github.com/gin-gonic/gin"
)

func addCartLineHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddLineInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		line, err := carts.AddLine(c.Request.Context(), identityFrom(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"line": line})
	}
}

func listCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.ListItems(c.Request.Context(), identityFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		var total int64
		for _, item := range items {
			total += item.TotalCents
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "totalCents": total})
	}
}

func cartCountHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := carts.CountQuantity(c.Request.Context(), identityFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func updateCartLineHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		if err := carts.UpdateQuantity(c.Request.Context(), identityFrom(c), c.Param("lineID"), in.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

func removeCartLineHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.RemoveLine(c.Request.Context(), identityFrom(c), c.Param("lineID")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": true})
	}
}

// mergeCartHandler folds a guest cart the client carried locally into the
// authenticated user's ledger. Guests cannot merge.
func mergeCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := userFrom(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		var in cartsvc.MergeInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		count, err := carts.MergeGuestCart(c.Request.Context(), u.ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"merged": count})
	}
}
