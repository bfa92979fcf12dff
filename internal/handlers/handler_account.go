package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balanceService portssvc.BalanceSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newAccountHandler(accountService, balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.DELETE("/:code", h.deleteAccount)
		accounts.POST("/:code/deactivate", h.deactivateAccount)
		accounts.GET("/:code/balance", h.getBalance)
		accounts.PUT("/:code/parent", h.setParent)
		accounts.GET("/:code/lines", h.listLines)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", c.Param("code")))

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", c.Param("code")))
	logger.Info("Received request to deactivate account")

	if err := h.accountService.DeactivateAccount(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, logger, err, "deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", c.Param("code")))
	logger.Info("Received request to delete account")

	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, logger, err, "delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// getBalance returns the rolled-up balance of an account.
func (h *accountHandler) getBalance(c *gin.Context) {
	code := c.Param("code")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", code))

	balance, err := h.balanceService.BalanceOf(c.Request.Context(), code)
	if err != nil {
		respondError(c, logger, err, "calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{Code: code, Balance: balance})
}

func (h *accountHandler) setParent(c *gin.Context) {
	code := c.Param("code")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", code))

	var req dto.SetParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetParent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.balanceService.SetParent(c.Request.Context(), code, req.ParentCode); err != nil {
		respondError(c, logger, err, "set account parent")
		return
	}

	logger.Info("Account parent updated")
	c.Status(http.StatusNoContent)
}

// listLines returns a page of ledger lines, newest first.
func (h *accountHandler) listLines(c *gin.Context) {
	code := c.Param("code")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("code", code))

	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccountEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.balanceService.ListAccountEntries(c.Request.Context(), code, params)
	if err != nil {
		respondError(c, logger, err, "list account lines")
		return
	}
	c.JSON(http.StatusOK, resp)
}
