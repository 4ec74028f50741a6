package handlers

import (
	"net/http"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/order"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// OrdersHandler serves the admin order endpoints
type OrdersHandler struct {
	orders order.Service
	logger *logger.Logger
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(orders order.Service, log *logger.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, logger: log}
}

// List handles GET /api/admin/orders
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := utils.ParsePaginationParams(r.URL.Query())
	filter := order.Filter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	orders, total, stats, err := h.orders.List(r.Context(), filter, pagination.Limit, pagination.Offset)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list orders")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.OrderListResponse{
		Orders: orders,
		Stats:  stats,
		Pagination: dto.Pagination{
			Page:       pagination.Page,
			Limit:      pagination.Limit,
			TotalItems: total,
			TotalPages: utils.TotalPages(total, pagination.Limit),
		},
	})
}
