package publish

import (
	"fmt"
	"strings"

	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
)

// NormalizeSlug maps the site root ("", "/", "index") to "index" and trims
// surrounding slashes from everything else.
func NormalizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return consts.IndexSlug
	}
	return slug
}

// ArtifactKey is the object store key of one page document:
// {siteId}/{versionId}/{slug}.json
func ArtifactKey(siteID, versionID, slug string) string {
	return fmt.Sprintf("%s/%s/%s.json", siteID, versionID, NormalizeSlug(slug))
}

func VersionPrefix(siteID, versionID string) string {
	return fmt.Sprintf("%s/%s/", siteID, versionID)
}

// SlugFromPath converts a request path into an artifact slug. ok is false
// for paths that can never name an artifact (dot segments, empty segments).
func SlugFromPath(path string) (slug string, ok bool) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return consts.IndexSlug, true
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == "" || segment == "." || segment == ".." || strings.ContainsAny(segment, "\\\x00") {
			return "", false
		}
	}
	return trimmed, true
}
