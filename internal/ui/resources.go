package ui

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"coursegen-backend/internal/models"
)

const untitled = "Untitled"

var httpURL = regexp.MustCompile(`(?i)^https?://`)

type searchProvider struct {
	label   string
	resType string
	base    string
}

// Fallback link targets, picked by resource index mod 4.
var searchProviders = [...]searchProvider{
	{"YouTube", models.ResourceVideo, "https://www.youtube.com/results?search_query="},
	{"Coursera", models.ResourceCourse, "https://www.coursera.org/search?query="},
	{"Wikipedia", models.ResourceArticle, "https://en.wikipedia.org/wiki/Special:Search?search="},
	{"Google", models.ResourceArticle, "https://www.google.com/search?q="},
}

// NormalizeResources guarantees every resource a usable link. Entries without
// an absolute http(s) URL get a search link on a well-known site, chosen by
// position so the same input always yields the same output. query is used
// when an entry has no title; a non-array input yields nil.
func NormalizeResources(items gjson.Result, query string) []models.Resource {
	if !items.IsArray() {
		return nil
	}

	var out []models.Resource
	for idx, item := range items.Array() {
		out = append(out, normalizeResource(idx, item, query))
	}
	return out
}

func normalizeResource(idx int, item gjson.Result, query string) models.Resource {
	if item.Type == gjson.String {
		// A bare string is a title with no link.
		return fallbackResource(idx, searchQuery(item.Str, query))
	}

	title := strings.TrimSpace(item.Get("title").String())
	if title == "" {
		title = untitled
	}
	resType := item.Get("type").String()
	if !models.IsValidResourceType(resType) {
		resType = models.ResourceArticle
	}
	link := strings.TrimSpace(item.Get("url").String())
	if link == "" {
		link = strings.TrimSpace(item.Get("link").String())
	}

	if isHTTPURL(link) {
		return models.Resource{Title: title, Type: resType, URL: link}
	}

	pick := fallbackResource(idx, searchQuery(title, query))
	res := models.Resource{Title: title, Type: resType, URL: pick.URL}
	if title == untitled {
		res.Title = pick.Title
	}
	if resType == models.ResourceArticle {
		res.Type = pick.Type
	}
	return res
}

func searchQuery(title, query string) string {
	if t := strings.TrimSpace(title); t != "" && t != untitled {
		return t
	}
	if q := strings.TrimSpace(query); q != "" {
		return q
	}
	return "learn"
}

func fallbackResource(idx int, q string) models.Resource {
	p := searchProviders[idx%len(searchProviders)]
	return models.Resource{
		Title: p.label + ": " + q,
		Type:  p.resType,
		URL:   p.base + encodeQuery(q),
	}
}

// queryUnescapes restores the marks browsers leave alone when encoding a
// URI component, so links match what the web frontend produced.
var queryUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeQuery percent-encodes q for a query string, with spaces as %20.
func encodeQuery(q string) string {
	return queryUnescapes.Replace(url.QueryEscape(q))
}

func isHTTPURL(s string) bool {
	if !httpURL.MatchString(s) {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}
