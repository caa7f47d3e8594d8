// Package handler exposes the HTTP API: the public contact and survey
// forms, login, and the authenticated back-office surface.
package handler

import (
	"pontotaxi/backend/internal/auth"
	"pontotaxi/backend/internal/dashboard"
	"pontotaxi/backend/internal/livehub"
	"pontotaxi/backend/internal/messages"
	"pontotaxi/backend/internal/reports"
	"pontotaxi/backend/internal/storage"
	"pontotaxi/backend/internal/surveys"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler wires the services behind the HTTP routes.
type Handler struct {
	Messages  *messages.Service
	Surveys   *surveys.Service
	Dashboard *dashboard.Service
	Reports   *reports.Service
	Auth      *auth.Service
	Store     storage.Storage
	Hub       *livehub.Manager
	Log       *zap.Logger
}

func NewHandler(
	msgs *messages.Service,
	svys *surveys.Service,
	dash *dashboard.Service,
	reps *reports.Service,
	authSvc *auth.Service,
	store storage.Storage,
	hub *livehub.Manager,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Messages:  msgs,
		Surveys:   svys,
		Dashboard: dash,
		Reports:   reps,
		Auth:      authSvc,
		Store:     store,
		Hub:       hub,
		Log:       log,
	}
}

// RegisterRoutes attaches every route to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Public surface
	api.POST("/contato", h.SubmitContact)
	api.POST("/pesquisa", h.SubmitSurvey)
	api.GET("/depoimentos", h.ListTestimonials)
	api.POST("/auth/login", h.Login)

	// Back office
	admin := api.Group("/admin", h.Auth.Middleware())
	{
		admin.GET("/mensagens/:tipo", auth.RequirePermission("mensagens:ler"), h.ListMessages)
		admin.GET("/mensagens/:tipo/:protocolo", auth.RequirePermission("mensagens:ler"), h.GetMessage)
		admin.GET("/mensagens/:tipo/:protocolo/historico", auth.RequirePermission("mensagens:ler"), h.GetHistory)
		admin.POST("/mensagens/:tipo/:protocolo/resolver", auth.RequirePermission("mensagens:resolver"), h.ResolveMessage)
		admin.POST("/mensagens/:tipo/:protocolo/arquivar", auth.RequirePermission("mensagens:arquivar"), h.ArchiveMessage)
		admin.POST("/mensagens/:tipo/:protocolo/desarquivar", auth.RequirePermission("mensagens:arquivar"), h.UnarchiveMessage)
		admin.POST("/mensagens/:tipo/:protocolo/responder", auth.RequirePermission("mensagens:responder"), h.RespondMessage)

		admin.GET("/usuarios", auth.RequirePermission("usuarios:ler"), h.ListUsers)
		admin.POST("/usuarios", auth.RequirePermission("usuarios:criar"), h.CreateUser)
		admin.PUT("/usuarios/:id", auth.RequirePermission("usuarios:editar"), h.UpdateUser)
		admin.DELETE("/usuarios/:id", auth.RequirePermission("usuarios:deletar"), h.DeleteUser)

		admin.GET("/dashboard", auth.RequirePermission("dashboard:ler"), h.GetDashboard)
		admin.GET("/relatorios", auth.RequirePermission("relatorios:gerar"), h.GetReport)

		admin.GET("/configuracoes", auth.RequirePermission("configuracoes:ler"), h.ListSettings)
		admin.PUT("/configuracoes/:chave", auth.RequirePermission("configuracoes:editar"), h.PutSetting)

		admin.GET("/ws", auth.RequirePermission("dashboard:ler"), h.ServeWebSocket)
	}
}
