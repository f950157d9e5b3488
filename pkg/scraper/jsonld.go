package scraper

import (
	"encoding/json"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	isoDuration = regexp.MustCompile(`^P(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	whitespace  = regexp.MustCompile(`\s+`)
	bareNumber  = regexp.MustCompile(`^\d+$`)
)

// findRecipeNode returns the first schema.org Recipe object among the
// page's JSON-LD blocks. Malformed blocks are skipped.
func findRecipeNode(blocks []string) map[string]any {
	for _, block := range blocks {
		var doc any
		if err := json.Unmarshal([]byte(strings.TrimSpace(block)), &doc); err != nil {
			continue
		}
		if node := searchRecipe(doc); node != nil {
			return node
		}
	}
	return nil
}

func searchRecipe(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if node := searchRecipe(item); node != nil {
				return node
			}
		}
	case map[string]any:
		if isRecipeType(t["@type"]) {
			return t
		}
		for _, key := range []string{"@graph", "mainEntity", "mainEntityOfPage"} {
			if node := searchRecipe(t[key]); node != nil {
				return node
			}
		}
	}
	return nil
}

func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "Recipe") || strings.HasSuffix(t, "/Recipe")
	case []any:
		for _, item := range t {
			if isRecipeType(item) {
				return true
			}
		}
	}
	return false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, key := range []string{"@value", "text", "name"} {
			if s, ok := t[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// cleanText strips markup, unescapes entities and collapses whitespace.
func cleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = html.UnescapeString(s)
		if strings.Contains(s, "<") {
			if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
				s = doc.Text()
			}
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func imageURL(v any) string {
	switch t := v.(type) {
	case string:
		return absoluteURL(t)
	case []any:
		for _, item := range t {
			if u := imageURL(item); u != "" {
				return u
			}
		}
	case map[string]any:
		for _, key := range []string{"url", "contentUrl", "@id"} {
			if u := imageURL(t[key]); u != "" {
				return u
			}
		}
	}
	return ""
}

// yields renders recipeYield. A bare number becomes "N servings".
func yields(v any) string {
	raw := cleanText(asString(v))
	if raw == "" {
		return ""
	}
	if bareNumber.MatchString(raw) {
		if raw == "1" {
			return "1 serving"
		}
		return raw + " servings"
	}
	return raw
}

// duration renders an ISO-8601 duration such as PT1H30M as whole minutes.
// Values that are not ISO-8601 are passed through as written.
func duration(v any) string {
	raw := strings.TrimSpace(asString(v))
	if raw == "" {
		return ""
	}

	m := isoDuration.FindStringSubmatch(strings.ToUpper(raw))
	if m == nil || raw == "P" || strings.HasSuffix(strings.ToUpper(raw), "T") {
		return cleanText(raw)
	}

	var minutes float64
	for i, factor := range []float64{24 * 60, 60, 1, 1.0 / 60} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return cleanText(raw)
		}
		minutes += n * factor
	}

	total := int(math.Round(minutes))
	switch total {
	case 0:
		return ""
	case 1:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", total)
	}
}

func ingredients(node map[string]any) []string {
	raw, ok := node["recipeIngredient"]
	if !ok {
		raw = node["ingredients"]
	}

	var items []any
	switch t := raw.(type) {
	case []any:
		items = t
	case string:
		items = []any{t}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := cleanText(asString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// instructions flattens recipeInstructions into newline separated steps.
// Plain strings, HowToStep lists and HowToSection groups are accepted.
func instructions(v any) string {
	return strings.Join(instructionSteps(v), "\n")
}

func instructionSteps(v any) []string {
	switch t := v.(type) {
	case string:
		var steps []string
		for _, line := range strings.Split(t, "\n") {
			if s := cleanText(line); s != "" {
				steps = append(steps, s)
			}
		}
		return steps
	case []any:
		var steps []string
		for _, item := range t {
			steps = append(steps, instructionSteps(item)...)
		}
		return steps
	case map[string]any:
		if list, ok := t["itemListElement"]; ok {
			return instructionSteps(list)
		}
		for _, key := range []string{"text", "name"} {
			if s := cleanText(asString(t[key])); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}
