package query_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/application/processors"
	"github.com/Builder-Lawyers/publisher/internal/application/query"
	"github.com/Builder-Lawyers/publisher/internal/application/render"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	"github.com/Builder-Lawyers/publisher/internal/infra/config"
	"github.com/Builder-Lawyers/publisher/internal/testinfra/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runtime struct {
	content   *memory.ContentStore
	artifacts *memory.ArtifactStore
	pointers  *memory.PointerStore
	getPage   *query.GetPage
}

func newRuntime() *runtime {
	r := &runtime{
		content:   newDomainStore(),
		artifacts: memory.NewArtifactStore(),
		pointers:  memory.NewPointerStore(),
	}
	resolver := query.NewResolveDomain(memory.NewDomainCache(), r.content, 300*time.Second)
	r.getPage = query.NewGetPage(resolver, r.pointers, r.artifacts, render.NewRenderer(), time.Second)
	return r
}

func (r *runtime) putPage(t *testing.T, versionID string, page entity.PageData) {
	t.Helper()
	body, err := json.Marshal(page)
	require.NoError(t, err)
	require.NoError(t, r.artifacts.PutArtifact(context.Background(), "site-1/"+versionID+"/"+page.Slug+".json", body))
}

func TestGetPageUnknownDomain(t *testing.T) {
	r := newRuntime()

	res := r.getPage.Query(context.Background(), "nope.example.com", "/")

	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, render.NotFoundHTML, res.HTML)
	assert.Empty(t, res.SiteID)
}

func TestGetPageWithoutPointerIsUnavailable(t *testing.T) {
	r := newRuntime()
	r.putPage(t, "v1", entity.PageData{Slug: "index", Title: "Home", Theme: entity.DefaultTheme()})

	res := r.getPage.Query(context.Background(), "example.com", "/")

	assert.Equal(t, http.StatusServiceUnavailable, res.Status)
	assert.Equal(t, render.NotPublishedHTML, res.HTML)
}

func TestGetPageServesPublishedVersion(t *testing.T) {
	r := newRuntime()
	r.putPage(t, "v1", entity.PageData{Slug: "about", Title: "About", Theme: entity.DefaultTheme(),
		Blocks: []entity.ResolvedBlock{{Type: "hero", Props: map[string]any{"headline": `Tom & "Jerry" <b>'s</b>`}}}})
	require.NoError(t, r.pointers.SetPublished(context.Background(), "site-1", "v1"))

	res := r.getPage.Query(context.Background(), "example.com", "/about/")

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "site-1", res.SiteID)
	assert.Equal(t, "v1", res.VersionID)
	assert.Contains(t, res.HTML, `<h1 class="hero-title">Tom &amp; &#34;Jerry&#34; &lt;b&gt;&#39;s&lt;/b&gt;</h1>`)
}

func TestGetPageFallsBackToSite404(t *testing.T) {
	r := newRuntime()
	r.putPage(t, "v1", entity.PageData{Slug: "404", Title: "Lost", Theme: entity.DefaultTheme()})
	require.NoError(t, r.pointers.SetPublished(context.Background(), "site-1", "v1"))

	res := r.getPage.Query(context.Background(), "example.com", "/missing")
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Contains(t, res.HTML, "<title>Lost</title>")
	assert.Equal(t, "v1", res.VersionID)

	res = r.getPage.Query(context.Background(), "example.com", "/../secret")
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Contains(t, res.HTML, "<title>Lost</title>")
}

func TestGetPageGeneric404WhenSiteHasNone(t *testing.T) {
	r := newRuntime()
	require.NoError(t, r.pointers.SetPublished(context.Background(), "site-1", "v1"))

	res := r.getPage.Query(context.Background(), "example.com", "/missing")

	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, render.NotFoundHTML, res.HTML)
}

func TestGetPageStoreFailuresRenderServerError(t *testing.T) {
	r := newRuntime()
	require.NoError(t, r.pointers.SetPublished(context.Background(), "site-1", "v1"))
	r.artifacts.Err = errors.New("s3 timeout")

	res := r.getPage.Query(context.Background(), "example.com", "/")
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, render.ServerErrorHTML, res.HTML)

	r.artifacts.Err = nil
	r.pointers.Err = errors.New("redis down")
	res = r.getPage.Query(context.Background(), "example.com", "/")
	assert.Equal(t, http.StatusInternalServerError, res.Status)
}

func TestPublishThenServeEndToEnd(t *testing.T) {
	r := newRuntime()
	ctx := context.Background()
	r.content.Sites["site-1"] = entity.Site{ID: "site-1", TenantID: "tenant-1", Name: "Acme"}
	r.content.Blocks = []entity.BlockDefinition{{ID: "block-hero-01", Type: "hero", Name: "Hero"}}
	r.content.PutVersion(entity.PublishVersion{
		ID:     "v1",
		SiteID: "site-1",
		Status: consts.VersionStatusPending,
		PagesSnapshot: json.RawMessage(`[{"slug":"index","title":"Home",
			"content":{"blocks":[{"block_id":"block-hero-01","props":{"headline":"Hi"}}]}}]`),
	})
	procs := &processors.Processors{
		PublishSite:  processors.NewPublishSite(r.content, r.artifacts, r.pointers, nil),
		RollbackSite: processors.NewRollbackSite(&config.PublishConfig{RollbackVerify: true}, r.content, r.pointers, nil),
	}

	require.NoError(t, procs.Handle(ctx, events.PublishJob{Type: consts.JobPublishSite, VersionID: "v1", SiteID: "site-1"}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(r.artifacts.Snapshot()["site-1/v1/index.json"], &doc))
	assert.Equal(t, []any{map[string]any{"type": "hero", "props": map[string]any{"headline": "Hi"}}}, doc["blocks"])

	res := r.getPage.Query(ctx, "example.com", "/")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.HTML, `<h1 class="hero-title">Hi</h1>`)
}
