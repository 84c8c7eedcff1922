package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handlers struct {
	carts    cartService
	products productService
	logger   *zap.Logger
}

type addToCartRequest struct {
	Model string `json:"model"`
}

func (h *handlers) getCurrentCart(c *gin.Context) {
	cart, err := h.carts.GetCurrentCart(c.Request.Context(), c.GetString(ownerKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Model) == "" {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "model is required"})
		return
	}
	if err := h.carts.AddToCart(c.Request.Context(), c.GetString(ownerKey), req.Model); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) checkoutCart(c *gin.Context) {
	if err := h.carts.CheckoutCart(c.Request.Context(), c.GetString(ownerKey)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) getCartHistory(c *gin.Context) {
	carts, err := h.carts.GetCustomerCarts(c.Request.Context(), c.GetString(ownerKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carts)
}

func (h *handlers) removeProductFromCart(c *gin.Context) {
	model := strings.TrimSpace(c.Param("model"))
	if model == "" {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "model is required"})
		return
	}
	if err := h.carts.RemoveProductFromCart(c.Request.Context(), c.GetString(ownerKey), model); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.carts.ClearCart(c.Request.Context(), c.GetString(ownerKey)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) deleteAllCarts(c *gin.Context) {
	if err := h.carts.DeleteAllCarts(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) getAllCarts(c *gin.Context) {
	carts, err := h.carts.GetAllCarts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carts)
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("model"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
