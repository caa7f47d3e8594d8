package handler

import (
	"net/http"
	"strconv"

	"pontotaxi/backend/internal/messages"
	"pontotaxi/backend/internal/surveys"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contactForm struct {
	Tipo           string `json:"tipo" binding:"required"`
	Nome           string `json:"nome" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Telefone       string `json:"telefone" binding:"telefone"`
	PrefixoVeiculo string `json:"prefixo_veiculo"`
	Assunto        string `json:"assunto" binding:"required"`
	Mensagem       string `json:"mensagem" binding:"required"`
	Consentimento  bool   `json:"consentimento"`
}

// SubmitContact handles the public contact form. Consent is mandatory
// before anything is stored.
func (h *Handler) SubmitContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !form.Consentimento {
		c.JSON(http.StatusBadRequest, gin.H{"error": "consentimento é obrigatório"})
		return
	}

	msg, err := h.Messages.Submit(messages.SubmitInput{
		Type:          form.Tipo,
		Name:          form.Nome,
		Email:         form.Email,
		Phone:         form.Telefone,
		VehiclePrefix: form.PrefixoVeiculo,
		Subject:       form.Assunto,
		Body:          form.Mensagem,
		Consent:       form.Consentimento,
	})
	if err != nil {
		h.Log.Error("contact submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível registrar a mensagem"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"protocolo": msg.Protocol, "status": msg.Status})
}

type surveyForm struct {
	Nome          string `json:"nome"`
	Comentario    string `json:"comentario"`
	Consentimento bool   `json:"consentimento"`

	CondutaMotorista int `json:"conduta_motorista" binding:"required,min=1,max=5"`
	Limpeza          int `json:"limpeza" binding:"required,min=1,max=5"`
	Conservacao      int `json:"conservacao" binding:"required,min=1,max=5"`
	TempoEspera      int `json:"tempo_espera" binding:"required,min=1,max=5"`
	Cortesia         int `json:"cortesia" binding:"required,min=1,max=5"`
}

// SubmitSurvey handles the satisfaction survey form.
func (h *Handler) SubmitSurvey(c *gin.Context) {
	var form surveyForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.Surveys.Submit(surveys.SubmitInput{
		PassengerName:    form.Nome,
		Comment:          form.Comentario,
		Consent:          form.Consentimento,
		DriverConduct:    form.CondutaMotorista,
		Cleanliness:      form.Limpeza,
		VehicleCondition: form.Conservacao,
		WaitTime:         form.TempoEspera,
		Courtesy:         form.Cortesia,
	})
	if err != nil {
		h.Log.Error("survey submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível registrar a pesquisa"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media": resp.Average})
}

// ListTestimonials returns consented survey comments for the public site.
func (h *Handler) ListTestimonials(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limite", "10"))
	out, err := h.Surveys.Testimonials(limit)
	if err != nil {
		h.Log.Error("testimonials load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível carregar depoimentos"})
		return
	}
	c.JSON(http.StatusOK, out)
}
