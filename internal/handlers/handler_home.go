package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHealth reports that the process is serving requests.
func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Ledger API v1"})
}
