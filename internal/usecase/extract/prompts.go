package extract

import (
	"fmt"
	"strings"

	"github.com/homegrid/intentd/internal/domain"
)

// Variant selects the extraction prompt for a given input kind. All variants
// share the candidate whitelist and the fixed response schema; they differ
// only in how the raw input is framed.
type Variant string

const (
	// TextIntent extracts intent from a free-text service request.
	TextIntent Variant = "text"
	// ImageIntent extracts intent from a model-produced image description.
	ImageIntent Variant = "image"
	// DocumentIntent extracts intent from concatenated document text.
	DocumentIntent Variant = "document"
)

var variantInstructions = map[Variant]string{
	TextIntent: "The user wrote a free-text request for home services. " +
		"Decide which of the allowed services they need and estimate quantities " +
		"(units, square meters, or item counts as appropriate).",
	ImageIntent: "The text below describes a photo the user took of their home. " +
		"Decide which of the allowed services the photo suggests they need and " +
		"estimate quantities where the description allows.",
	DocumentIntent: "The text below was extracted from a document (for example a " +
		"renovation estimate or a property inspection report). Decide which of the " +
		"allowed services it calls for and estimate quantities.",
}

const responseSchema = `{
  "items": [
    {"id": "<service id from the allowed list>", "title": "<service title>", "description": "<one short sentence why>", "estimatedQuantity": <number>}
  ],
  "summary": "<one sentence describing the user's intent>",
  "notes": "<optional short note, may be empty>"
}`

// buildPrompt serializes the candidate whitelist and the fixed response
// schema around the raw input. The model is never shown the full catalog;
// restricting it to the ranked candidates is what keeps IDs real.
func buildPrompt(variant Variant, input string, candidates []domain.Candidate) string {
	var b strings.Builder

	b.WriteString("You are the intent-resolution engine of a home-services marketplace.\n")
	b.WriteString(variantInstructions[variant])
	b.WriteString("\n\nAllowed services (id: title). You may select zero or more of ONLY these ids; never invent an id:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s: %s\n", c.ID, c.Title)
	}

	b.WriteString("\nRespond with a single JSON object, no prose, exactly this schema:\n")
	b.WriteString(responseSchema)

	b.WriteString("\n\nUser input:\n")
	b.WriteString(input)

	return b.String()
}
