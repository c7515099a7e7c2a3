package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/internal/application/publish"
	"github.com/Builder-Lawyers/publisher/internal/application/render"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	"github.com/Builder-Lawyers/publisher/internal/infra/metrics"
)

// PageResult is a fully decided response. SiteID and VersionID are set once
// the request got far enough to know them.
type PageResult struct {
	Status    int
	HTML      string
	SiteID    string
	VersionID string
}

// GetPage resolves hostname and path to rendered HTML:
// domain, then publish pointer, then artifact, then the site's own 404
// artifact. Store failures at any step end in the 500 page.
type GetPage struct {
	domains      *ResolveDomain
	pointers     interfaces.PointerStore
	artifacts    interfaces.ArtifactStore
	renderer     *render.Renderer
	fetchTimeout time.Duration
}

func NewGetPage(domains *ResolveDomain, pointers interfaces.PointerStore, artifacts interfaces.ArtifactStore,
	renderer *render.Renderer, fetchTimeout time.Duration,
) *GetPage {
	return &GetPage{domains: domains, pointers: pointers, artifacts: artifacts, renderer: renderer, fetchTimeout: fetchTimeout}
}

func (c *GetPage) Query(ctx context.Context, hostname, path string) PageResult {
	result := c.query(ctx, hostname, path)
	metrics.RuntimeResponses.WithLabelValues(strconv.Itoa(result.Status)).Inc()
	return result
}

func (c *GetPage) query(ctx context.Context, hostname, path string) PageResult {
	siteID, err := c.withTimeout(ctx, func(ctx context.Context) (string, error) {
		return c.domains.Query(ctx, hostname)
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return PageResult{Status: http.StatusNotFound, HTML: render.NotFoundHTML}
		}
		return c.serverError(err, "hostname", hostname)
	}

	var published bool
	versionID, err := c.withTimeout(ctx, func(ctx context.Context) (string, error) {
		v, ok, err := c.pointers.GetPublished(ctx, siteID)
		published = ok
		return v, err
	})
	if err != nil {
		return c.serverError(err, "siteID", siteID)
	}
	if !published {
		return PageResult{Status: http.StatusServiceUnavailable, HTML: render.NotPublishedHTML, SiteID: siteID}
	}

	slug, ok := publish.SlugFromPath(path)
	if ok {
		page, err := c.render(ctx, siteID, versionID, slug)
		if err == nil {
			return PageResult{Status: http.StatusOK, HTML: page, SiteID: siteID, VersionID: versionID}
		}
		if !errs.IsNotFound(err) {
			return c.serverError(err, "siteID", siteID, "versionID", versionID, "slug", slug)
		}
	}

	page, err := c.render(ctx, siteID, versionID, consts.NotFoundSlug)
	if err == nil {
		return PageResult{Status: http.StatusNotFound, HTML: page, SiteID: siteID, VersionID: versionID}
	}
	if !errs.IsNotFound(err) {
		return c.serverError(err, "siteID", siteID, "versionID", versionID, "slug", consts.NotFoundSlug)
	}
	return PageResult{Status: http.StatusNotFound, HTML: render.NotFoundHTML, SiteID: siteID, VersionID: versionID}
}

func (c *GetPage) render(ctx context.Context, siteID, versionID, slug string) (string, error) {
	body, err := c.withTimeout(ctx, func(ctx context.Context) (string, error) {
		b, err := c.artifacts.GetArtifact(ctx, publish.ArtifactKey(siteID, versionID, slug))
		return string(b), err
	})
	if err != nil {
		return "", err
	}
	var page entity.PageData
	if err = json.Unmarshal([]byte(body), &page); err != nil {
		return "", fmt.Errorf("decode artifact %s: %w", publish.ArtifactKey(siteID, versionID, slug), err)
	}
	return c.renderer.RenderPage(page)
}

func (c *GetPage) withTimeout(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	if c.fetchTimeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	return fn(ctx)
}

func (c *GetPage) serverError(err error, args ...any) PageResult {
	slog.Error("runtime request failed", append(args, "err", err)...)
	return PageResult{Status: http.StatusInternalServerError, HTML: render.ServerErrorHTML}
}
