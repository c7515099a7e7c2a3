// Package publish turns snapshot page rows into self-contained artifact
// documents. Everything here is pure: no store access, no clock.
package publish

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
)

type BlockLookup map[string]entity.BlockDefinition

func NewBlockLookup(blocks []entity.BlockDefinition) BlockLookup {
	lookup := make(BlockLookup, len(blocks))
	for _, b := range blocks {
		lookup[b.ID] = b
	}
	return lookup
}

// ResolveBlock merges an instance with its definition and resolves its
// children in order. It never fails: unknown definitions and subtrees deeper
// than consts.MaxBlockDepth become "unknown" placeholders.
func ResolveBlock(raw entity.BlockInstance, lookup BlockLookup) entity.ResolvedBlock {
	return resolveBlock(raw, lookup, 1)
}

func resolveBlock(raw entity.BlockInstance, lookup BlockLookup, depth int) entity.ResolvedBlock {
	if depth > consts.MaxBlockDepth {
		slog.Warn("block tree too deep, truncating", "blockID", raw.BlockID, "depth", depth)
		return placeholder(raw.Props)
	}

	def, ok := lookup[raw.BlockID]
	if !ok {
		slog.Warn("block definition not found", "blockID", raw.BlockID)
		return placeholder(raw.Props)
	}

	props := raw.Props
	if props == nil {
		props = copyProps(def.DefaultProps)
	}

	resolved := entity.ResolvedBlock{
		Type:   def.Type,
		Props:  props,
		Styles: raw.Styles,
	}
	if len(raw.Children) > 0 {
		resolved.Children = make([]entity.ResolvedBlock, 0, len(raw.Children))
		for _, child := range raw.Children {
			resolved.Children = append(resolved.Children, resolveBlock(child, lookup, depth+1))
		}
	}
	return resolved
}

func placeholder(props map[string]any) entity.ResolvedBlock {
	if props == nil {
		props = map[string]any{}
	}
	return entity.ResolvedBlock{
		Type:  consts.BlockTypeUnknown,
		Props: props,
	}
}

// copyProps keeps definition defaults from being shared between documents.
func copyProps(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ResolvePage builds the artifact document for one snapshot page. Content
// problems degrade: a malformed document gives an empty page, a malformed
// block gives a placeholder.
func ResolvePage(page entity.SnapshotPage, lookup BlockLookup, theme entity.Theme, globals *entity.GlobalBlocks) entity.PageData {
	data := entity.PageData{
		Slug:            NormalizeSlug(page.Slug),
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Blocks:          []entity.ResolvedBlock{},
		Theme:           theme,
		GlobalBlocks:    globals,
	}

	content, err := parseContent(page.Content)
	if err != nil {
		slog.Warn("malformed page content, publishing page without blocks", "slug", page.Slug, "err", err)
		return data
	}

	for i, rawBlock := range content.Blocks {
		var instance entity.BlockInstance
		if err := json.Unmarshal(rawBlock, &instance); err != nil {
			slog.Warn("malformed block instance", "slug", page.Slug, "index", i, "err", err)
			data.Blocks = append(data.Blocks, placeholder(nil))
			continue
		}
		data.Blocks = append(data.Blocks, ResolveBlock(instance, lookup))
	}
	return data
}

// parseContent accepts the page content either as an object or as a JSON
// string holding the object, which is how page rows store it.
func parseContent(raw json.RawMessage) (entity.PageContent, error) {
	var content entity.PageContent
	if len(raw) == 0 || string(raw) == "null" {
		return content, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return content, err
		}
		if strings.TrimSpace(encoded) == "" {
			return content, nil
		}
		raw = json.RawMessage(encoded)
	}

	if err := json.Unmarshal(raw, &content); err != nil {
		return content, err
	}
	return content, nil
}

// ResolveGlobalBlocks resolves the site level header/footer instances. Nil
// means the site has none.
func ResolveGlobalBlocks(raw json.RawMessage, lookup BlockLookup) *entity.GlobalBlocks {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var instances entity.GlobalBlockInstances
	if err := json.Unmarshal(raw, &instances); err != nil {
		slog.Warn("malformed site global blocks, ignoring", "err", err)
		return nil
	}
	if instances.Header == nil && instances.Footer == nil {
		return nil
	}

	globals := &entity.GlobalBlocks{}
	if instances.Header != nil {
		header := ResolveBlock(*instances.Header, lookup)
		globals.Header = &header
	}
	if instances.Footer != nil {
		footer := ResolveBlock(*instances.Footer, lookup)
		globals.Footer = &footer
	}
	return globals
}

func ParseSnapshot(raw json.RawMessage) ([]entity.SnapshotPage, error) {
	var pages []entity.SnapshotPage
	if err := json.Unmarshal(raw, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}
