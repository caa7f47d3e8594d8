package handler

import (
	"errors"
	"net/http"

	"pontotaxi/backend/internal/auth"
	"pontotaxi/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// actorName identifies the operator on history entries.
func actorName(c *gin.Context) string {
	if user := auth.UserFrom(c); user != nil {
		return user.Name
	}
	return "sistema"
}

// ListMessages returns the messages of a type, ?status= filters.
func (h *Handler) ListMessages(c *gin.Context) {
	msgs, err := h.Messages.List(c.Param("tipo"), c.Query("status"))
	if err != nil {
		h.Log.Error("message list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível listar mensagens"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// GetMessage returns one message, checking the archival collection when it
// is not active.
func (h *Handler) GetMessage(c *gin.Context) {
	tipo, proto := c.Param("tipo"), c.Param("protocolo")

	msg, err := h.Messages.Get(tipo, proto)
	if errors.Is(err, storage.ErrMessageNotFound) {
		msg, err = h.Messages.GetArchived(tipo, proto)
	}
	if errors.Is(err, storage.ErrMessageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "mensagem não encontrada"})
		return
	}
	if err != nil {
		h.Log.Error("message load failed", zap.String("protocol", proto), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível carregar a mensagem"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// GetHistory returns the audit trail and staff replies for a protocol.
func (h *Handler) GetHistory(c *gin.Context) {
	proto := c.Param("protocolo")

	history, err := h.Messages.History(proto)
	if err != nil {
		h.Log.Error("history load failed", zap.String("protocol", proto), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível carregar o histórico"})
		return
	}
	responses, err := h.Messages.Responses(proto)
	if err != nil {
		h.Log.Error("responses load failed", zap.String("protocol", proto), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível carregar as respostas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"historico": history, "respostas": responses})
}

type resolveForm struct {
	Observacao string `json:"observacao"`
}

// ResolveMessage marks a message resolved.
func (h *Handler) ResolveMessage(c *gin.Context) {
	var form resolveForm
	_ = c.ShouldBindJSON(&form) // body optional

	err := h.Messages.Resolve(c.Param("tipo"), c.Param("protocolo"), actorName(c), form.Observacao)
	if errors.Is(err, storage.ErrMessageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "mensagem não encontrada"})
		return
	}
	if err != nil {
		h.Log.Error("resolve failed", zap.String("protocol", c.Param("protocolo")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível resolver a mensagem"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}

// ArchiveMessage moves a message to its archival collection.
func (h *Handler) ArchiveMessage(c *gin.Context) {
	err := h.Messages.Archive(c.Param("tipo"), c.Param("protocolo"), actorName(c))
	if errors.Is(err, storage.ErrMessageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "mensagem não encontrada"})
		return
	}
	if err != nil {
		h.Log.Error("archive failed", zap.String("protocol", c.Param("protocolo")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível arquivar a mensagem"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "archived"})
}

// UnarchiveMessage moves a message back to its active collection.
func (h *Handler) UnarchiveMessage(c *gin.Context) {
	msg, err := h.Messages.Unarchive(c.Param("tipo"), c.Param("protocolo"), actorName(c))
	if errors.Is(err, storage.ErrMessageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "mensagem não encontrada"})
		return
	}
	if err != nil {
		h.Log.Error("unarchive failed", zap.String("protocol", c.Param("protocolo")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível desarquivar a mensagem"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

type respondForm struct {
	Resposta string `json:"resposta" binding:"required"`
}

// RespondMessage records a staff reply.
func (h *Handler) RespondMessage(c *gin.Context) {
	var form respondForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.Messages.Respond(c.Param("tipo"), c.Param("protocolo"), actorName(c), form.Resposta)
	if errors.Is(err, storage.ErrMessageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "mensagem não encontrada"})
		return
	}
	if err != nil {
		h.Log.Error("respond failed", zap.String("protocol", c.Param("protocolo")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível registrar a resposta"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}
