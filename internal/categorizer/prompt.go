package categorizer

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/model"
)

// BuildPrompt asks for exactly one label from the closed vocabulary.
func BuildPrompt(merchantName string) string {
	labels := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		labels[i] = string(c)
	}
	return fmt.Sprintf(
		"Classify the merchant '%s' into exactly ONE of these categories: %s. "+
			"Respond with ONLY the category name, nothing else.",
		strings.TrimSpace(merchantName), strings.Join(labels, ", "))
}

// ParseReply normalizes a model reply and checks it against the vocabulary.
// Surrounding whitespace, quotes, code fences and a trailing period are ignored.
func ParseReply(reply string) (model.Category, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(reply), ".")
	s = strings.Trim(s, "`\"' ")
	s = strings.TrimSuffix(s, ".")
	return model.ParseCategory(s)
}
