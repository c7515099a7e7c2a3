// Package render turns artifact documents into HTML. Rendering is total:
// any block it cannot render becomes an inert container, so artifacts
// written by older pipelines keep serving after renderers change.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
)

// ViewFunc maps raw block props to the value its template renders.
type ViewFunc func(props map[string]any) any

type Renderer struct {
	templates *template.Template
	registry  map[string]ViewFunc
}

type blockData struct {
	Type     string
	View     any
	Children template.HTML
}

type pageData struct {
	Title           string
	MetaDescription string
	CSS             template.CSS
	Header          template.HTML
	Main            template.HTML
	Footer          template.HTML
}

func NewRenderer() *Renderer {
	tmpl := template.Must(template.New("site").Parse(pageTemplate + blockTemplates))
	return &Renderer{
		templates: tmpl,
		registry: map[string]ViewFunc{
			"hero":         newHeroView,
			"features":     newFeaturesView,
			"contact-form": newContactFormView,
			"pricing":      newPricingView,
			"footer":       newFooterView,
			"header":       newHeaderView,
			"text":         newTextView,
		},
	}
}

// Has reports whether blockType has a dedicated renderer.
func (r *Renderer) Has(blockType string) bool {
	_, ok := r.registry[blockType]
	return ok
}

func (r *Renderer) RenderPage(page entity.PageData) (string, error) {
	data := pageData{
		Title: page.Title,
		CSS:   template.CSS(ThemeCSS(page.Theme)),
	}
	if page.MetaDescription != nil {
		data.MetaDescription = *page.MetaDescription
	}
	if page.GlobalBlocks != nil {
		if page.GlobalBlocks.Header != nil {
			data.Header = r.RenderBlock(*page.GlobalBlocks.Header)
		}
		if page.GlobalBlocks.Footer != nil {
			data.Footer = r.RenderBlock(*page.GlobalBlocks.Footer)
		}
	}

	var main bytes.Buffer
	for _, block := range page.Blocks {
		main.WriteString(string(r.RenderBlock(block)))
		main.WriteByte('\n')
	}
	data.Main = template.HTML(main.String())

	var out bytes.Buffer
	if err := r.templates.ExecuteTemplate(&out, "page", data); err != nil {
		return "", fmt.Errorf("render page %q: %w", page.Slug, err)
	}
	return out.String(), nil
}

func (r *Renderer) RenderBlock(block entity.ResolvedBlock) template.HTML {
	return r.renderBlock(block, 1)
}

func (r *Renderer) renderBlock(block entity.ResolvedBlock, depth int) template.HTML {
	var children bytes.Buffer
	if depth < consts.MaxBlockDepth {
		for _, child := range block.Children {
			children.WriteString(string(r.renderBlock(child, depth+1)))
		}
	}
	data := blockData{
		Type:     block.Type,
		Children: template.HTML(children.String()),
	}

	name := consts.BlockTypeUnknown
	if viewFn, ok := r.registry[block.Type]; ok {
		name = block.Type
		data.View = viewFn(block.Props)
	} else {
		slog.Debug("no renderer for block type", "type", block.Type)
	}

	var out bytes.Buffer
	if err := r.templates.ExecuteTemplate(&out, name, data); err != nil {
		slog.Warn("block render failed, using placeholder", "type", block.Type, "err", err)
		out.Reset()
		if err := r.templates.ExecuteTemplate(&out, consts.BlockTypeUnknown, data); err != nil {
			return ""
		}
	}
	return template.HTML(out.String())
}
