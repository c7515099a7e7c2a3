package render

import (
	"fmt"
	"strings"

	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
)

var cssValueReplacer = strings.NewReplacer(
	"<", "", ">", "", "{", "", "}", "", ";", "", "\\", "", "/*", "", "*/", "", "\n", " ", "\r", " ",
)

// cssValue strips everything that could end a declaration, a rule or the
// surrounding <style> element. Themes can be tenant owned.
func cssValue(v string) string {
	return strings.TrimSpace(cssValueReplacer.Replace(v))
}

// ThemeCSS emits the theme tokens as CSS custom properties followed by the
// base stylesheet every page shares.
func ThemeCSS(theme entity.Theme) string {
	var b strings.Builder
	vars := []struct {
		name  string
		value string
	}{
		{"color-primary", theme.Colors.Primary},
		{"color-secondary", theme.Colors.Secondary},
		{"color-accent", theme.Colors.Accent},
		{"color-background", theme.Colors.Background},
		{"color-surface", theme.Colors.Surface},
		{"color-text", theme.Colors.Text},
		{"color-text-secondary", theme.Colors.TextSecondary},
		{"color-border", theme.Colors.Border},
		{"color-error", theme.Colors.Error},
		{"color-success", theme.Colors.Success},
		{"font-family-heading", theme.Typography.FontFamily.Heading},
		{"font-family-body", theme.Typography.FontFamily.Body},
		{"font-size-xs", theme.Typography.FontSize.XS},
		{"font-size-sm", theme.Typography.FontSize.SM},
		{"font-size-base", theme.Typography.FontSize.Base},
		{"font-size-lg", theme.Typography.FontSize.LG},
		{"font-size-xl", theme.Typography.FontSize.XL},
		{"font-size-2xl", theme.Typography.FontSize.XL2},
		{"font-size-3xl", theme.Typography.FontSize.XL3},
		{"font-size-4xl", theme.Typography.FontSize.XL4},
		{"font-weight-normal", fmt.Sprint(theme.Typography.FontWeight.Normal)},
		{"font-weight-medium", fmt.Sprint(theme.Typography.FontWeight.Medium)},
		{"font-weight-semibold", fmt.Sprint(theme.Typography.FontWeight.Semibold)},
		{"font-weight-bold", fmt.Sprint(theme.Typography.FontWeight.Bold)},
		{"spacing-unit", fmt.Sprintf("%dpx", theme.Spacing.Unit)},
		{"container-max-width", theme.Spacing.Container.MaxWidth},
		{"container-padding", theme.Spacing.Container.Padding},
		{"border-radius-sm", theme.BorderRadius.SM},
		{"border-radius-base", theme.BorderRadius.Base},
		{"border-radius-lg", theme.BorderRadius.LG},
		{"border-radius-full", theme.BorderRadius.Full},
		{"shadow-sm", theme.Shadows.SM},
		{"shadow-base", theme.Shadows.Base},
		{"shadow-lg", theme.Shadows.LG},
	}

	b.WriteString(":root {\n")
	for _, v := range vars {
		value := cssValue(v.value)
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "  --%s: %s;\n", v.name, value)
	}
	b.WriteString("}\n")
	b.WriteString(baseCSS)
	return b.String()
}

const baseCSS = `* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: var(--font-family-body); font-size: var(--font-size-base); color: var(--color-text); background: var(--color-background); line-height: 1.6; }
h1, h2, h3, h4, h5, h6 { font-family: var(--font-family-heading); line-height: 1.2; }
.container { max-width: var(--container-max-width); margin: 0 auto; padding: var(--container-padding); }
.container.narrow { max-width: 600px; }
.btn { display: inline-block; padding: 0.75rem 1.5rem; border-radius: var(--border-radius-base); font-weight: var(--font-weight-medium); text-decoration: none; border: none; cursor: pointer; }
.btn-primary { background: var(--color-primary); color: white; }
.btn-secondary { background: var(--color-surface); color: var(--color-text); border: 1px solid var(--color-border); }
.hero { padding: 4rem 1rem; min-height: 500px; display: flex; align-items: center; justify-content: center; }
.hero-content { max-width: 800px; }
.hero-title { font-size: var(--font-size-4xl); font-weight: var(--font-weight-bold); margin-bottom: 1rem; }
.hero-subtitle { font-size: var(--font-size-xl); color: var(--color-text-secondary); margin-bottom: 2rem; }
.features, .pricing, .contact-form, .text-block { padding: 4rem 1rem; }
.section-title { text-align: center; font-size: var(--font-size-3xl); margin-bottom: 1rem; }
.section-subtitle { text-align: center; color: var(--color-text-secondary); margin-bottom: 3rem; }
.features-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 2rem; }
.feature-item { text-align: center; }
.feature-icon { font-size: 3rem; margin-bottom: 1rem; }
.form { display: flex; flex-direction: column; gap: 1rem; }
.form-field label { display: block; margin-bottom: 0.5rem; }
.form-field input, .form-field textarea { width: 100%; padding: 0.75rem; border: 1px solid var(--color-border); border-radius: var(--border-radius-base); }
.pricing-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 2rem; }
.pricing-card { border: 1px solid var(--color-border); border-radius: var(--border-radius-lg); padding: 2rem; }
.pricing-card.highlighted { border-color: var(--color-primary); box-shadow: var(--shadow-lg); }
.price { font-size: var(--font-size-4xl); font-weight: var(--font-weight-bold); }
.pricing-card ul { list-style: none; margin: 2rem 0; }
.site-header { border-bottom: 1px solid var(--color-border); }
.header-bar { display: flex; align-items: center; justify-content: space-between; }
.site-header nav a { margin-left: 1.5rem; color: var(--color-text); text-decoration: none; }
.site-footer { background: var(--color-surface); padding: 3rem 1rem 1rem; border-top: 1px solid var(--color-border); }
.footer-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 2rem; margin-bottom: 2rem; }
.footer-link { display: block; margin-bottom: 0.5rem; color: var(--color-text-secondary); }
.social-link { margin-right: 1rem; }
.copyright { text-align: center; padding-top: 2rem; border-top: 1px solid var(--color-border); color: var(--color-text-secondary); }
`
