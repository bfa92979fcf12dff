package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/middleware"
)

type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
}

// RegisterCustomerRoutes registers routes related to customers.
func RegisterCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade) {
	h := &customerHandler{customerService: customerService}

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("/:id", h.getCustomer)
		customers.DELETE("/:id", h.deleteCustomer)
	}
}

func (h *customerHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "create customer")
		return
	}

	logger.Info("Customer created successfully", slog.String("customer_code", customer.CustomerCode))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

func (h *customerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", c.Param("id")))

	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// deleteCustomer soft-deletes a customer that has no live invoices.
func (h *customerHandler) deleteCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", c.Param("id")))
	logger.Info("Received request to delete customer")

	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete customer")
		return
	}
	c.Status(http.StatusNoContent)
}
