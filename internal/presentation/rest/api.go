package rest

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application"
	"github.com/Builder-Lawyers/publisher/internal/application/dto"
	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/infra/auth"
	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// IdentityProvider turns a bearer token into the calling identity.
type IdentityProvider interface {
	GetIdentity(token string) (*auth.Identity, error)
}

type Server struct {
	commands *application.Collection
	identity IdentityProvider
}

func NewServer(commands *application.Collection, identity IdentityProvider) *Server {
	return &Server{commands: commands, identity: identity}
}

func RegisterHandlers(app *fiber.App, s *Server) {
	app.Get("/health", s.Health)

	publish := app.Group("/publish", s.Authenticate)
	publish.Post("/:site_id", s.PublishSite)
	publish.Get("/:site_id/versions", s.ListVersions)
	publish.Post("/:site_id/rollback/:version_id", s.RollbackSite)
}

func (s *Server) Authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}
	identity, err := s.identity.GetIdentity(token)
	if err != nil {
		slog.Debug("rejected token", "err", err)
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Invalid or expired token"})
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Service: "api", Timestamp: time.Now().UTC()})
}

func (s *Server) PublishSite(c *fiber.Ctx) error {
	resp, err := s.commands.RequestPublish.Execute(c.UserContext(), c.Params("site_id"), identity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

func (s *Server) RollbackSite(c *fiber.Ctx) error {
	resp, err := s.commands.RequestRollback.Execute(c.UserContext(), c.Params("site_id"), c.Params("version_id"), identity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

func (s *Server) ListVersions(c *fiber.Ctx) error {
	resp, err := s.commands.ListVersions.Query(c.UserContext(), c.Params("site_id"), identity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func identity(c *fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(identityKey).(*auth.Identity)
	return id
}

func writeError(c *fiber.Ctx, err error) error {
	var (
		notFound   errs.NotFoundError
		validation errs.ValidationError
		permission errs.PermissionsError
	)
	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: validation.Err.Error()})
	case errors.As(err, &permission):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Forbidden"})
	default:
		slog.Error("api request failed", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
	}
}
