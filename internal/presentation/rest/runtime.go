package rest

import (
	"context"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/dto"
	"github.com/Builder-Lawyers/publisher/internal/application/query"
	"github.com/gofiber/fiber/v2"
)

const pageCacheControl = "public, max-age=300, s-maxage=600"

// PageQuery is what the runtime server needs from the page resolver.
type PageQuery interface {
	Query(ctx context.Context, hostname, path string) query.PageResult
}

type RuntimeServer struct {
	pages       PageQuery
	environment string
}

func NewRuntimeServer(pages PageQuery, environment string) *RuntimeServer {
	return &RuntimeServer{pages: pages, environment: environment}
}

func RegisterRuntimeHandlers(app *fiber.App, s *RuntimeServer) {
	app.Get("/health", s.Health)
	app.Get("/*", s.Page)
}

func (s *RuntimeServer) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:      "ok",
		Service:     "runtime",
		Environment: s.environment,
		Timestamp:   time.Now().UTC(),
	})
}

func (s *RuntimeServer) Page(c *fiber.Ctx) error {
	res := s.pages.Query(c.UserContext(), c.Hostname(), c.Path())

	if res.VersionID != "" {
		c.Set("X-Site-Id", res.SiteID)
		c.Set("X-Version-Id", res.VersionID)
	}
	if res.Status == fiber.StatusOK {
		c.Set(fiber.HeaderCacheControl, pageCacheControl)
	} else {
		c.Set(fiber.HeaderCacheControl, "no-store")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(res.Status).SendString(res.HTML)
}
