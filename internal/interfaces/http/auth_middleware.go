package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/internal/application/dto"
	"github.com/cleilsonalvino/controle-estoque-ajafs-sub001/pkg/jwt"
)

// Locals keys para UsuarioID, EmpresaID e Role no Fiber.
const (
	LocalUsuarioID = "usuario_id"
	LocalEmpresaID = "empresa_id"
	LocalRole      = "role"
)

// AuthMiddleware valida o Bearer Token JWT e extrai UsuarioID, EmpresaID e
// Role para c.Locals. O EmpresaID do token é a única fonte do tenant: nunca
// vem do corpo da requisição.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		usuarioID, empresaID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		c.Locals(LocalUsuarioID, usuarioID)
		c.Locals(LocalEmpresaID, empresaID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole exige que o usuário tenha um dos papéis indicados.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "papel sem permissão para esta operação"})
	}
}

// GetUsuarioID devolve o UsuarioID do contexto (após o middleware de auth).
func GetUsuarioID(c *fiber.Ctx) string {
	return localString(c, LocalUsuarioID)
}

// GetEmpresaID devolve o EmpresaID do contexto (após o middleware de auth).
func GetEmpresaID(c *fiber.Ctx) string {
	return localString(c, LocalEmpresaID)
}

// GetRole devolve o papel do usuário do contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
