package render

import "fmt"

const statusPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>body { font-family: system-ui, sans-serif; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; background: #f9fafb; color: #111827; } .box { text-align: center; } h1 { font-size: 3rem; margin: 0 0 1rem; } p { color: #6b7280; }</style>
</head>
<body>
<div class="box">
<h1>%s</h1>
<p>%s</p>
</div>
</body>
</html>
`

var (
	NotFoundHTML     = statusPage("404 - Page Not Found", "404", "The page you are looking for does not exist.")
	ServerErrorHTML  = statusPage("500 - Server Error", "500", "Something went wrong while loading this page.")
	NotPublishedHTML = statusPage("Site Not Published", "Site Not Published", "This site has not been published yet.")
)

func statusPage(title, heading, message string) string {
	return fmt.Sprintf(statusPageTemplate, title, heading, message)
}
