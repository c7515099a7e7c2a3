package render

import (
	"fmt"
	"strings"
)

// Block props are tenant authored and untyped; each view below pulls out
// only the fields its template prints and ignores everything else.

type link struct {
	Label string
	URL   string
}

type heroView struct {
	Headline        string
	Subheadline     string
	CTAText         string
	CTAURL          string
	BackgroundImage string
	Alignment       string
}

func newHeroView(props map[string]any) any {
	alignment := str(props, "alignment")
	switch alignment {
	case "left", "right", "center":
	default:
		alignment = "center"
	}
	return heroView{
		Headline:        str(props, "headline"),
		Subheadline:     str(props, "subheadline"),
		CTAText:         str(props, "ctaText"),
		CTAURL:          str(props, "ctaUrl"),
		BackgroundImage: str(props, "backgroundImage"),
		Alignment:       alignment,
	}
}

type featureItem struct {
	Icon        string
	Title       string
	Description string
}

type featuresView struct {
	Title    string
	Subtitle string
	Items    []featureItem
}

func newFeaturesView(props map[string]any) any {
	view := featuresView{
		Title:    str(props, "title"),
		Subtitle: str(props, "subtitle"),
	}
	for _, item := range objects(props, "items") {
		view.Items = append(view.Items, featureItem{
			Icon:        str(item, "icon"),
			Title:       str(item, "title"),
			Description: str(item, "description"),
		})
	}
	return view
}

type formField struct {
	Label    string
	Name     string
	Type     string
	Required bool
	Textarea bool
}

type contactFormView struct {
	Title      string
	SubmitText string
	Fields     []formField
}

var inputTypes = map[string]bool{
	"text": true, "email": true, "tel": true, "number": true, "url": true, "date": true,
}

func newContactFormView(props map[string]any) any {
	view := contactFormView{
		Title:      str(props, "title"),
		SubmitText: str(props, "submitText"),
	}
	if view.SubmitText == "" {
		view.SubmitText = "Send"
	}
	for _, field := range objects(props, "fields") {
		fieldType := str(field, "type")
		f := formField{
			Label:    str(field, "label"),
			Name:     str(field, "name"),
			Required: truthy(field, "required"),
			Textarea: fieldType == "textarea",
		}
		if !inputTypes[fieldType] {
			fieldType = "text"
		}
		f.Type = fieldType
		view.Fields = append(view.Fields, f)
	}
	return view
}

type pricingPlan struct {
	Name        string
	Price       string
	Period      string
	Features    []string
	CTAText     string
	CTAURL      string
	Highlighted bool
}

type pricingView struct {
	Title    string
	Subtitle string
	Plans    []pricingPlan
}

func newPricingView(props map[string]any) any {
	view := pricingView{
		Title:    str(props, "title"),
		Subtitle: str(props, "subtitle"),
	}
	for _, plan := range objects(props, "plans") {
		view.Plans = append(view.Plans, pricingPlan{
			Name:        str(plan, "name"),
			Price:       str(plan, "price"),
			Period:      str(plan, "period"),
			Features:    strs(plan, "features"),
			CTAText:     str(plan, "ctaText"),
			CTAURL:      str(plan, "ctaUrl"),
			Highlighted: truthy(plan, "highlighted"),
		})
	}
	return view
}

type footerView struct {
	CompanyName string
	Copyright   string
	Links       []link
	SocialLinks []link
}

func newFooterView(props map[string]any) any {
	view := footerView{
		CompanyName: str(props, "companyName"),
		Copyright:   str(props, "copyright"),
		Links:       links(props, "links", "label"),
		SocialLinks: links(props, "socialLinks", "platform"),
	}
	return view
}

type headerView struct {
	LogoText string
	LogoURL  string
	Links    []link
}

func newHeaderView(props map[string]any) any {
	return headerView{
		LogoText: str(props, "logoText"),
		LogoURL:  str(props, "logoUrl"),
		Links:    links(props, "links", "label"),
	}
}

type textView struct {
	Heading    string
	Paragraphs []string
}

func newTextView(props map[string]any) any {
	view := textView{Heading: str(props, "heading")}
	for _, p := range strings.Split(str(props, "text"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			view.Paragraphs = append(view.Paragraphs, p)
		}
	}
	return view
}

func str(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64, int, int64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

func truthy(props map[string]any, key string) bool {
	switch v := props[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

func objects(props map[string]any, key string) []map[string]any {
	items, _ := props[key].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func strs(props map[string]any, key string) []string {
	items, _ := props[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func links(props map[string]any, key, labelKey string) []link {
	var out []link
	for _, obj := range objects(props, key) {
		out = append(out, link{Label: str(obj, labelKey), URL: str(obj, "url")})
	}
	return out
}
