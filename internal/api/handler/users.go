package handler

import (
	"errors"
	"net/http"

	"pontotaxi/backend/internal/auth"
	"pontotaxi/backend/internal/models"
	"pontotaxi/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ListUsers returns every back-office account.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers()
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível listar usuários"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type userForm struct {
	Nome       string   `json:"nome" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Senha      string   `json:"senha"`
	Role       string   `json:"role" binding:"required,oneof=admin dev user"`
	Permissoes []string `json:"permissoes"`
}

func validatePermissions(perms []string) (string, bool) {
	for _, p := range perms {
		if !auth.KnownPermission(p) {
			return p, false
		}
	}
	return "", true
}

// CreateUser adds a back-office account.
func (h *Handler) CreateUser(c *gin.Context) {
	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if form.Senha == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "senha é obrigatória"})
		return
	}
	if p, ok := validatePermissions(form.Permissoes); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "permissão desconhecida", "permission": p})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Senha), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível criar o usuário"})
		return
	}

	user := &models.User{
		Name:         form.Nome,
		Email:        form.Email,
		PasswordHash: string(hash),
		Role:         form.Role,
		Permissions:  pq.StringArray(form.Permissoes),
	}
	if err := h.Store.SaveUser(user); err != nil {
		h.Log.Error("user create failed", zap.String("email", form.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível criar o usuário"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser edits an account. An empty senha keeps the current password.
func (h *Handler) UpdateUser(c *gin.Context) {
	user, err := h.Store.GetUserByID(c.Param("id"))
	if errors.Is(err, storage.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível carregar o usuário"})
		return
	}

	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p, ok := validatePermissions(form.Permissoes); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "permissão desconhecida", "permission": p})
		return
	}

	user.Name = form.Nome
	user.Email = form.Email
	user.Role = form.Role
	user.Permissions = pq.StringArray(form.Permissoes)
	if form.Senha != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Senha), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível atualizar o usuário"})
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := h.Store.SaveUser(user); err != nil {
		h.Log.Error("user update failed", zap.String("id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível atualizar o usuário"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account. Operators cannot delete themselves.
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if actor := auth.UserFrom(c); actor != nil && actor.ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "não é possível excluir a própria conta"})
		return
	}

	err := h.Store.DeleteUser(id)
	if errors.Is(err, storage.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}
	if err != nil {
		h.Log.Error("user delete failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível excluir o usuário"})
		return
	}
	c.Status(http.StatusNoContent)
}
