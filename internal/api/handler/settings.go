package handler

import (
	"io"
	"net/http"
	"time"

	"pontotaxi/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ListSettings returns every configuration entry.
func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.Store.ListSettings()
	if err != nil {
		h.Log.Error("settings load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível carregar as configurações"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutSetting stores the request body as the value of one key. The body must
// be valid JSON; jsonb rejects anything else at the database.
func (h *Handler) PutSetting(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 64<<10))
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo inválido"})
		return
	}

	setting := &models.Setting{
		Key:       c.Param("chave"),
		Value:     datatypes.JSON(body),
		UpdatedAt: time.Now(),
		UpdatedBy: actorName(c),
	}
	if err := h.Store.PutSetting(setting); err != nil {
		h.Log.Error("setting write failed", zap.String("key", setting.Key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível salvar a configuração"})
		return
	}
	c.JSON(http.StatusOK, setting)
}
