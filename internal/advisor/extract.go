package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/iwvelando/mine-npv/internal/lab"
)

// ExtractJSONArray isolates the outermost JSON array in a model reply, which
// may be wrapped in prose or code fences.
func ExtractJSONArray(text string) string {
	clean := strings.TrimSpace(text)

	first := strings.Index(clean, "[")
	last := strings.LastIndex(clean, "]")
	if first != -1 && last > first {
		clean = clean[first : last+1]
	}

	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// ParseProfile decodes a model reply into profile points. Strict JSON is tried
// first, then a repaired copy, then Hjson.
func ParseProfile(text string) ([]lab.ProfilePoint, error) {
	raw := ExtractJSONArray(text)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrParse)
	}

	var points []lab.ProfilePoint
	if err := json.Unmarshal([]byte(raw), &points); err == nil && len(points) > 0 {
		return points, nil
	}

	if repaired, err := jsonrepair.RepairJSON(raw); err == nil {
		points = nil
		if err := json.Unmarshal([]byte(repaired), &points); err == nil && len(points) > 0 {
			return points, nil
		}
	}

	points = nil
	if err := hjson.Unmarshal([]byte(raw), &points); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no profile points", ErrParse)
	}
	return points, nil
}
