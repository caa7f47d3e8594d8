package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

// Login exchanges email+password for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.Auth.Login(form.Email, form.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciais inválidas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"nome":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"permissoes": user.Permissions,
		},
	})
}
