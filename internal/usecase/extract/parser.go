package extract

import (
	"encoding/json"
	"strconv"
	"strings"
)

// modelResponse mirrors the response schema. Model output is untrusted:
// fields are decoded leniently and validated by the caller.
type modelResponse struct {
	Items   []modelItem `json:"items"`
	Summary string      `json:"summary"`
	Notes   string      `json:"notes"`
}

type modelItem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Quantity    lenientNumber  `json:"estimatedQuantity"`
	QuantityAlt *lenientNumber `json:"quantity"`
}

// quantity returns estimatedQuantity, falling back to the short field name
// some model outputs use.
func (i modelItem) quantity() float64 {
	if i.Quantity != 0 {
		return float64(i.Quantity)
	}
	if i.QuantityAlt != nil {
		return float64(*i.QuantityAlt)
	}
	return 0
}

// lenientNumber decodes a JSON number, a numeric string, or anything else
// as zero. Missing and non-numeric quantities must not fail the extraction.
type lenientNumber float64

func (n *lenientNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*n = 0
			return nil
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = lenientNumber(f)
	return nil
}

// parseResponse extracts and decodes the first JSON object from raw model
// output. Returns false when no parsable object is found.
func parseResponse(raw string) (modelResponse, bool) {
	cleaned := extractJSON(raw)

	var resp modelResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return modelResponse{}, false
	}
	return resp, true
}

// extractJSON returns the first complete JSON object in text. Models add
// markdown fences and prose around the JSON despite instructions, so fences
// are stripped and braces are matched with string awareness.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return text
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return text
}
