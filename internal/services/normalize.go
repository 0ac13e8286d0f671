package services

import (
	"strings"

	"github.com/tidwall/gjson"

	"coursegen-backend/internal/models"
)

// courseFromJSON coerces an arbitrary model object into a Course. Missing or
// mistyped fields become empty values rather than errors.
func courseFromJSON(v gjson.Result) models.Course {
	course := models.Course{
		Overview:  coerceString(v.Get("overview")),
		Modules:   []models.Module{},
		Resources: []models.Resource{},
	}

	if mods := v.Get("modules"); mods.IsArray() {
		for _, m := range mods.Array() {
			course.Modules = append(course.Modules, moduleFromJSON(m))
		}
	}

	if res := v.Get("resources"); res.IsArray() {
		course.Resources = resourcesFromJSON(res)
	}

	return course
}

func moduleFromJSON(v gjson.Result) models.Module {
	mod := models.Module{Topics: []string{}}
	if !v.IsObject() {
		mod.Title = coerceString(v)
		return mod
	}

	mod.Title = coerceString(v.Get("title"))
	if topics := v.Get("topics"); topics.IsArray() {
		for _, t := range topics.Array() {
			mod.Topics = append(mod.Topics, coerceString(t))
		}
	}
	return mod
}

func resourcesFromJSON(v gjson.Result) []models.Resource {
	out := []models.Resource{}
	for _, r := range v.Array() {
		if !r.IsObject() {
			if title := coerceString(r); title != "" {
				out = append(out, models.Resource{Title: title, Type: models.ResourceArticle})
			}
			continue
		}

		res := models.Resource{
			Title: coerceString(r.Get("title")),
			Type:  strings.ToLower(coerceString(r.Get("type"))),
			URL:   strings.TrimSpace(coerceString(r.Get("url"))),
		}
		if res.URL == "" {
			res.URL = strings.TrimSpace(coerceString(r.Get("link")))
		}
		if !models.IsValidResourceType(res.Type) {
			res.Type = models.ResourceArticle
		}
		out = append(out, res)
	}
	return out
}

// chatFromJSON applies the chat reply contract: answer is always a string and
// suggestedTopics always an array.
func chatFromJSON(v gjson.Result) models.ChatResponse {
	resp := models.ChatResponse{
		Answer:          coerceString(v.Get("answer")),
		SuggestedTopics: []string{},
	}

	if topics := v.Get("suggestedTopics"); topics.IsArray() {
		for _, t := range topics.Array() {
			if s := strings.TrimSpace(coerceString(t)); s != "" {
				resp.SuggestedTopics = append(resp.SuggestedTopics, s)
			}
		}
	}

	if res := v.Get("resources"); res.IsArray() {
		resp.Resources = resourcesFromJSON(res)
	}

	return resp
}

func coerceString(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.JSON:
		return v.Raw
	default:
		return v.String()
	}
}
