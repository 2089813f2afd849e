package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// minTrendTotal keeps the trend denominator positive for an empty table.
const minTrendTotal = 1e-6

// trendWeightsSchema accepts an object of skill name to weight in [0,1].
const trendWeightsSchema = `{
  "type": "object",
  "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
}`

// DefaultTrendWeights returns a copy of the built-in in-demand skill table.
func DefaultTrendWeights() map[string]float64 {
	return map[string]float64{
		// cloud and devops
		"aws": 1.0, "azure": 0.9, "gcp": 0.9, "docker": 0.9, "kubernetes": 1.0,
		"terraform": 0.9, "ci/cd": 0.8, "github actions": 0.6, "gitlab ci": 0.6,
		// data and streaming
		"kafka": 0.9, "airflow": 0.8, "spark": 0.9, "databricks": 0.9, "snowflake": 0.9, "dbt": 0.8,
		// ml
		"pytorch": 0.9, "tensorflow": 0.9, "transformers": 0.9, "mlops": 0.9, "mlflow": 0.8,
		"llm": 1.0, "langchain": 0.8, "vector db": 0.7, "faiss": 0.7, "weaviate": 0.7, "pinecone": 0.7,
		// backend
		"go": 0.8, "golang": 0.8, "rust": 0.9, "fastapi": 0.8, "grpc": 0.8,
		// frontend
		"typescript": 0.9, "react": 0.8, "next.js": 0.8, "nextjs": 0.8,
		// observability
		"opentelemetry": 0.8, "prometheus": 0.7, "grafana": 0.7,
		// infra and security
		"ansible": 0.7, "vault": 0.6, "k9s": 0.4,
	}
}

// TrendTable scores candidates against weighted in-demand skills.
type TrendTable struct {
	weights map[string]float64
	skills  []string
	total   float64
}

// NewTrendTable builds a table from the defaults with each override merged
// over it in order. Keys are lowercased.
func NewTrendTable(overrides ...map[string]float64) *TrendTable {
	weights := map[string]float64{}
	for k, v := range DefaultTrendWeights() {
		weights[strings.ToLower(k)] = v
	}
	for _, o := range overrides {
		for k, v := range o {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" || math.IsNaN(v) {
				continue
			}
			weights[k] = v
		}
	}

	t := &TrendTable{weights: weights, skills: make([]string, 0, len(weights))}
	for k := range weights {
		t.skills = append(t.skills, k)
	}
	sort.Strings(t.skills)
	for _, k := range t.skills {
		t.total += weights[k]
	}
	t.total = math.Max(minTrendTotal, t.total)
	return t
}

// Weight returns the weight of skill and whether it is in the table.
func (t *TrendTable) Weight(skill string) (float64, bool) {
	w, ok := t.weights[skill]
	return w, ok
}

// Match returns the sorted table skills found in lowered text or in the
// skill set, and min(1, matched weight / total weight).
func (t *TrendTable) Match(lowered string, skills map[string]struct{}) ([]string, float64) {
	matched := []string{}
	var sum float64
	for _, k := range t.skills {
		_, has := skills[k]
		if has || strings.Contains(lowered, k) {
			matched = append(matched, k)
			sum += t.weights[k]
		}
	}
	return matched, math.Min(1, sum/t.total)
}

// LoadTrendWeightsFile reads a JSON object of skill -> weight in [0,1].
func LoadTrendWeightsFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTrendWeights, path, err)
	}
	return ParseTrendWeights(data)
}

// ParseTrendWeights validates and decodes a trend weight document.
func ParseTrendWeights(data []byte) (map[string]float64, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(trendWeightsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrendWeights, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTrendWeights, strings.Join(msgs, "; "))
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrendWeights, err)
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		out[strings.ToLower(k)] = v
	}
	return out, nil
}
