package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"checklens/internal/domain"
)

// JSONObject locates the substring from the first '{' to the last '}' in the
// model's free-form reply and decodes it as a JSON object.
//
// If the reply contains several objects, or commentary with stray braces
// after the intended object, everything between the first '{' and the very
// last '}' is decoded as one blob. Models do not reliably emit pure JSON, so
// the brace scan fishes the object out of surrounding prose.
func JSONObject(text string) (map[string]interface{}, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no object delimiters in %d bytes of text", domain.ErrParseFailure, len(text))
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return nil, fmt.Errorf("%w: decoding extracted object: %v", domain.ErrParseFailure, err)
	}
	return fields, nil
}
