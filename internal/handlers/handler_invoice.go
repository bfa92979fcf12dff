package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices and their postings.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	postingService portssvc.PostingReaderSvc
	now            func() time.Time
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, ps portssvc.PostingReaderSvc) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
		postingService: ps,
		now:            time.Now,
	}
}

// RegisterInvoiceRoutes registers routes related to invoices.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, postingService portssvc.PostingReaderSvc) {
	h := newInvoiceHandler(invoiceService, postingService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("/:id", h.getInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
		invoices.POST("/:id/actions", h.applyAction)
		invoices.GET("/:id/entries", h.listEntries)
	}
}

func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("customer_id", req.CustomerID))
	logger.Info("Received request to create invoice", slog.Int("items", len(req.Items)))

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "create invoice")
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice, h.now()))
}

func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, h.now()))
}

func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))
	logger.Info("Received request to delete invoice")

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete invoice")
		return
	}
	c.Status(http.StatusNoContent)
}

// applyAction runs SEND, PAY or CANCEL against an invoice.
func (h *invoiceHandler) applyAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))

	var req dto.InvoiceActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for invoice action", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("action", string(req.Action)))
	logger.Info("Received invoice action")

	invoice, err := h.invoiceService.Transition(c.Request.Context(), c.Param("id"), req.ToAction())
	if err != nil {
		respondError(c, logger, err, "apply invoice action")
		return
	}

	logger.Info("Invoice action applied", slog.String("status", string(invoice.Status)))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, h.now()))
}

func (h *invoiceHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("id")))

	entries, err := h.postingService.ListEntriesForInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "list invoice entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": dto.ToJournalEntryResponses(entries)})
}
