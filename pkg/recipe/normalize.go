package recipe

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ingredientSeparator joins ingredients in the stored column. Line breaks
// inside an item are replaced first so no item can contain it.
const ingredientSeparator = "\n"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// SanitizeTitle makes a title safe to use as stored title and as image key:
// curly apostrophes become plain ones, everything except letters, digits,
// spaces, hyphens and apostrophes is dropped and the first letter is upper-cased.
func SanitizeTitle(title string) string {
	title = strings.ReplaceAll(title, "’", "'")

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '\'' {
			b.WriteRune(r)
		}
	}

	clean := strings.TrimSpace(b.String())
	first, size := utf8.DecodeRuneInString(clean)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(first)) + clean[size:]
}

// NormalizeIngredient replaces line breaks with spaces and leaves the rest
// of the item as written.
func NormalizeIngredient(item string) string {
	return lineBreaks.Replace(item)
}

// JoinIngredients stores items in order. Only an item holding a line break
// comes back changed from SplitIngredients.
func JoinIngredients(items []string) string {
	clean := make([]string, len(items))
	for i, item := range items {
		clean[i] = NormalizeIngredient(item)
	}
	return strings.Join(clean, ingredientSeparator)
}

func SplitIngredients(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, ingredientSeparator)
}

// FormatInstructions forces a line break after every sentence terminator.
// A terminator is '.', '!' or '?' followed by whitespace or the end of text,
// so decimals such as "1.5" are left alone.
func FormatInstructions(text string) string {
	runes := []rune(text)

	var b strings.Builder
	b.Grow(len(text) + len(text)/20)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		b.WriteByte('\n')
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
	}
	return b.String()
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
