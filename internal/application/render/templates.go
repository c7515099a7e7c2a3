package render

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
{{if .MetaDescription}}<meta name="description" content="{{.MetaDescription}}">
{{end}}<style>{{.CSS}}</style>
</head>
<body>
{{.Header}}
<main>
{{.Main}}
</main>
{{.Footer}}
</body>
</html>
{{end}}`

const blockTemplates = `
{{define "unknown"}}<div data-block-type="{{.Type}}">{{.Children}}</div>{{end}}

{{define "hero"}}<section class="hero" style="text-align: {{.View.Alignment}};{{if .View.BackgroundImage}} background-image: url('{{.View.BackgroundImage}}'); background-size: cover; background-position: center;{{end}}">
<div class="hero-content">
<h1 class="hero-title">{{.View.Headline}}</h1>
{{if .View.Subheadline}}<p class="hero-subtitle">{{.View.Subheadline}}</p>
{{end}}{{if and .View.CTAText .View.CTAURL}}<a href="{{.View.CTAURL}}" class="btn btn-primary">{{.View.CTAText}}</a>
{{end}}</div>{{.Children}}</section>{{end}}

{{define "features"}}<section class="features">
<div class="container">
{{if .View.Title}}<h2 class="section-title">{{.View.Title}}</h2>
{{end}}{{if .View.Subtitle}}<p class="section-subtitle">{{.View.Subtitle}}</p>
{{end}}<div class="features-grid">
{{range .View.Items}}<div class="feature-item"><div class="feature-icon">{{.Icon}}</div><h3>{{.Title}}</h3><p>{{.Description}}</p></div>
{{end}}</div>
</div>{{.Children}}</section>{{end}}

{{define "contact-form"}}<section class="contact-form">
<div class="container narrow">
{{if .View.Title}}<h2 class="section-title">{{.View.Title}}</h2>
{{end}}<form method="POST" action="/api/submit-form" class="form">
{{range .View.Fields}}<div class="form-field"><label>{{.Label}}{{if .Required}} *{{end}}</label>{{if .Textarea}}<textarea name="{{.Name}}"{{if .Required}} required{{end}}></textarea>{{else}}<input type="{{.Type}}" name="{{.Name}}"{{if .Required}} required{{end}}>{{end}}</div>
{{end}}<button type="submit" class="btn btn-primary">{{.View.SubmitText}}</button>
</form>
</div>{{.Children}}</section>{{end}}

{{define "pricing"}}<section class="pricing">
<div class="container">
{{if .View.Title}}<h2 class="section-title">{{.View.Title}}</h2>
{{end}}{{if .View.Subtitle}}<p class="section-subtitle">{{.View.Subtitle}}</p>
{{end}}<div class="pricing-grid">
{{range .View.Plans}}<div class="pricing-card{{if .Highlighted}} highlighted{{end}}">
<h3>{{.Name}}</h3>
<div class="price">{{.Price}}<span class="period">{{.Period}}</span></div>
<ul>{{range .Features}}<li>{{.}}</li>{{end}}</ul>
{{if .CTAURL}}<a href="{{.CTAURL}}" class="btn {{if .Highlighted}}btn-primary{{else}}btn-secondary{{end}}">{{.CTAText}}</a>
{{end}}</div>
{{end}}</div>
</div>{{.Children}}</section>{{end}}

{{define "footer"}}<footer class="site-footer">
<div class="container">
<div class="footer-grid">
<div>{{if .View.CompanyName}}<h3>{{.View.CompanyName}}</h3>{{end}}{{range .View.SocialLinks}}<a href="{{.URL}}" class="social-link">{{.Label}}</a>{{end}}</div>
<div>{{range .View.Links}}<a href="{{.URL}}" class="footer-link">{{.Label}}</a>{{end}}</div>
</div>
{{if .View.Copyright}}<div class="copyright">{{.View.Copyright}}</div>
{{end}}</div>{{.Children}}</footer>{{end}}

{{define "header"}}<header class="site-header">
<div class="container header-bar">
{{if .View.LogoURL}}<a href="/" class="logo"><img src="{{.View.LogoURL}}" alt="{{.View.LogoText}}"></a>{{else}}<a href="/" class="logo">{{.View.LogoText}}</a>{{end}}
<nav>{{range .View.Links}}<a href="{{.URL}}">{{.Label}}</a>{{end}}</nav>
</div>{{.Children}}</header>{{end}}

{{define "text"}}<section class="text-block">
<div class="container">
{{if .View.Heading}}<h2>{{.View.Heading}}</h2>
{{end}}{{range .View.Paragraphs}}<p>{{.}}</p>
{{end}}</div>{{.Children}}</section>{{end}}
`
