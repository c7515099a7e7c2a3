package entity

import "encoding/json"

// SnapshotPage is one page row as captured into PublishVersion.PagesSnapshot.
// Content is either a JSON encoded string or an inline object.
type SnapshotPage struct {
	ID              string          `json:"id,omitempty"`
	SiteID          string          `json:"site_id,omitempty"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	MetaDescription *string         `json:"meta_description,omitempty"`
	Content         json.RawMessage `json:"content,omitempty"`
}

type PageContent struct {
	Blocks []json.RawMessage `json:"blocks"`
}

type BlockInstance struct {
	BlockID  string          `json:"block_id"`
	Props    map[string]any  `json:"props,omitempty"`
	Styles   map[string]any  `json:"styles,omitempty"`
	Children []BlockInstance `json:"children,omitempty"`
}

type BlockDefinition struct {
	ID           string
	Type         string
	Name         string
	DefaultProps map[string]any
}

type ResolvedBlock struct {
	Type     string          `json:"type"`
	Props    map[string]any  `json:"props"`
	Styles   map[string]any  `json:"styles,omitempty"`
	Children []ResolvedBlock `json:"children,omitempty"`
}

type GlobalBlocks struct {
	Header *ResolvedBlock `json:"header,omitempty"`
	Footer *ResolvedBlock `json:"footer,omitempty"`
}

// GlobalBlockInstances is the unresolved form stored on the site row.
type GlobalBlockInstances struct {
	Header *BlockInstance `json:"header,omitempty"`
	Footer *BlockInstance `json:"footer,omitempty"`
}

// PageData is one artifact document; it carries everything needed to render.
type PageData struct {
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	MetaDescription *string         `json:"meta_description,omitempty"`
	Blocks          []ResolvedBlock `json:"blocks"`
	Theme           Theme           `json:"theme"`
	GlobalBlocks    *GlobalBlocks   `json:"global_blocks,omitempty"`
}
