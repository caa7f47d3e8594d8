package auth

import "pontotaxi/backend/internal/models"

// Catalog lists every permission string the back office can grant. Grants
// outside this list are rejected so typos cannot create unreachable
// capabilities.
var Catalog = []string{
	"mensagens:ler",
	"mensagens:resolver",
	"mensagens:arquivar",
	"mensagens:responder",
	"usuarios:ler",
	"usuarios:criar",
	"usuarios:editar",
	"usuarios:deletar",
	"dashboard:ler",
	"relatorios:gerar",
	"configuracoes:ler",
	"configuracoes:editar",
	"documentos:criar",
	"documentos:deletar",
	"portarias:criar",
	"portarias:deletar",
}

// KnownPermission reports whether perm is in the catalog.
func KnownPermission(perm string) bool {
	for _, p := range Catalog {
		if p == perm {
			return true
		}
	}
	return false
}

// HasPermission is the single permission check: admin and dev bypass,
// everyone else needs the exact string in their allow-list. There is no
// implicit grant-all for users without an explicit permission set.
func HasPermission(user *models.User, perm string) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin || user.Role == models.RoleDev {
		return true
	}
	for _, p := range user.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
