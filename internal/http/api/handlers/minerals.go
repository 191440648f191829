package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/minn2020/minndash/internal/minerals"
)

// MineralsHandler serves the public minerals dataset.
type MineralsHandler struct {
	loader *minerals.Loader
}

// NewMineralsHandler constructs a MineralsHandler.
func NewMineralsHandler(loader *minerals.Loader) *MineralsHandler {
	return &MineralsHandler{loader: loader}
}

// List returns every mineral plus the aggregated overview series.
func (h *MineralsHandler) List(c *gin.Context) {
	all, err := h.loader.Load()
	if err != nil {
		log.WithError(err).Error("load minerals failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"minerals": all,
		"overview": minerals.OverviewSeries(all),
	})
}

// Detail returns one mineral and its per-year production series.
func (h *MineralsHandler) Detail(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	m, err := h.loader.Find(name)
	if err != nil {
		log.WithError(err).Error("load minerals failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No production data available for this mineral."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mineral": m,
		"series":  minerals.ProductionSeries(m),
	})
}
