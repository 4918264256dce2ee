package gateway

import (
	"net/http"
	"strconv"

	"github.com/example/market/pkg/catalog"
	"github.com/example/market/pkg/checkout"
	"github.com/example/market/pkg/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	rawDefaultLimit = 20
	historyLimit    = 50
	maxPage         = 1 << 30
)

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	// Zero or absent means one.
	Quantity int `json:"quantity"`
}

func (g *Gateway) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"message":  "AI Commerce PoC is up",
		"products": g.catalog.Len(),
	})
}

// queryInt returns the integer query parameter key, or def when it is
// absent or malformed.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

type pageParams struct {
	limit  int
	offset int
	page   int
}

// pagination reads limit and either page or offset, depending on style.
func (g *Gateway) pagination(c *gin.Context, style string, defaultLimit int) pageParams {
	if defaultLimit <= 0 {
		defaultLimit = catalog.DefaultLimit
	}
	limit := queryInt(c, "limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit := g.config.Pagination.MaxLimit; maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	if style == config.PaginationOffset {
		offset := queryInt(c, "offset", 0)
		if offset < 0 {
			offset = 0
		}
		return pageParams{limit: limit, offset: offset, page: offset/limit + 1}
	}

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return pageParams{limit: limit, offset: (page - 1) * limit, page: page}
}

func (g *Gateway) listProducts(c *gin.Context) {
	q := c.Query("q")
	p := g.pagination(c, g.config.Pagination.Style, g.config.Pagination.DefaultLimit)

	products, total := g.catalog.Search(q, p.limit, p.offset)
	items := make([]productCard, len(products))
	for i, prod := range products {
		items[i] = newProductCard(prod)
	}

	c.JSON(http.StatusOK, productList{
		Type:   "product_list",
		Query:  q,
		Total:  total,
		Count:  len(items),
		Page:   p.page,
		Offset: p.offset,
		Limit:  p.limit,
		Items:  items,
	})
}

func (g *Gateway) listRawProducts(c *gin.Context) {
	p := g.pagination(c, config.PaginationPage, rawDefaultLimit)

	products, total := g.catalog.Search(c.Query("q"), p.limit, p.offset)
	items := make([]rawProduct, len(products))
	for i, prod := range products {
		items[i] = newRawProduct(prod)
	}

	c.JSON(http.StatusOK, rawProductPage{Page: p.page, Limit: p.limit, Total: total, Items: items})
}

func (g *Gateway) getProduct(c *gin.Context) {
	p, err := g.catalog.Lookup(c.Param("id"))
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductCard(p))
}

func (g *Gateway) listCategories(c *gin.Context) {
	cats := g.catalog.Categories()
	items := make([]categoryView, len(cats))
	for i, cat := range cats {
		items[i] = categoryView{ID: cat.ID, Code: cat.Code, Name: cat.Name}
	}
	c.JSON(http.StatusOK, categoryList{Type: "category_list", Count: len(items), Items: items})
}

func (g *Gateway) createCart(c *gin.Context) {
	c.JSON(http.StatusCreated, newCartView(g.carts.Create()))
}

func (g *Gateway) getCart(c *gin.Context) {
	ct, err := g.carts.Get(c.Param("cartId"))
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(ct))
}

func (g *Gateway) addItem(c *gin.Context) {
	cartID := c.Param("cartId")
	// An unknown cart is reported before anything about the body.
	if _, err := g.carts.Get(cartID); err != nil {
		g.writeError(c, err)
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ct, err := g.carts.AddItem(cartID, req.ProductID, req.Quantity)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(ct))
}

func (g *Gateway) listDeliverySlots(c *gin.Context) {
	c.JSON(http.StatusOK, newDeliverySlots(c.Query("address_id"), g.config.Catalog.Currency))
}

func (g *Gateway) checkoutCart(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := g.checkout.Checkout(c.Request.Context(), req)
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderConfirmation(order))
}

func (g *Gateway) getOrder(c *gin.Context) {
	order, err := g.checkout.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderConfirmation(order))
}

func (g *Gateway) getOrderHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := g.checkout.Order(c.Request.Context(), id); err != nil {
		g.writeError(c, err)
		return
	}

	history := orderHistory{Type: "order_history", OrderID: id, Events: []historyEntry{}}
	if g.auditLogs != nil {
		logs, err := g.auditLogs.GetOrderHistory(c.Request.Context(), g.checkout.Instance(), id, historyLimit)
		if err != nil {
			g.logger.Warn("Failed to read audit logs", zap.String("order_id", id), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "order history unavailable"})
			return
		}
		history.Events = newHistoryEntries(logs)
	}
	c.JSON(http.StatusOK, history)
}
