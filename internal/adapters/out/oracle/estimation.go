package oracle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"laundry/internal/core/ports"
)

var (
	// ErrNoJSON is returned when the model answered without any JSON object.
	ErrNoJSON = errors.New("no JSON object in model output")
	// ErrUnusableEstimate is returned when the JSON object is missing fields or out of range.
	ErrUnusableEstimate = errors.New("estimate is unusable")
)

type rawEstimation struct {
	EstimatedTimeMinutes *float64         `json:"estimated_time_minutes"`
	TotalPrice           *decimal.Decimal `json:"total_price"`
	ConfidenceScore      *float64         `json:"confidence_score"`
	Explanation          string           `json:"explanation"`
}

// parseEstimation decodes the first well-formed JSON object found in text.
func parseEstimation(text string) (ports.Estimation, error) {
	raw, err := firstJSONObject(text)
	if err != nil {
		return ports.Estimation{}, err
	}

	var est rawEstimation
	if err = json.Unmarshal(raw, &est); err != nil {
		return ports.Estimation{}, fmt.Errorf("%w: %w", ErrUnusableEstimate, err)
	}

	switch {
	case est.TotalPrice == nil:
		return ports.Estimation{}, fmt.Errorf("%w: total_price is missing", ErrUnusableEstimate)
	case est.TotalPrice.IsNegative():
		return ports.Estimation{}, fmt.Errorf("%w: total_price %s is negative", ErrUnusableEstimate, est.TotalPrice)
	case est.EstimatedTimeMinutes == nil:
		return ports.Estimation{}, fmt.Errorf("%w: estimated_time_minutes is missing", ErrUnusableEstimate)
	case math.IsNaN(*est.EstimatedTimeMinutes) || *est.EstimatedTimeMinutes < 0 ||
		*est.EstimatedTimeMinutes > math.MaxInt32:
		return ports.Estimation{}, fmt.Errorf("%w: estimated_time_minutes %v is out of range",
			ErrUnusableEstimate, *est.EstimatedTimeMinutes)
	}

	confidence := 0.0
	if est.ConfidenceScore != nil {
		confidence = *est.ConfidenceScore
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return ports.Estimation{}, fmt.Errorf("%w: confidence_score %v is out of range", ErrUnusableEstimate, confidence)
	}

	return ports.Estimation{
		TotalPrice:       est.TotalPrice.Round(2),
		EstimatedMinutes: int(math.Round(*est.EstimatedTimeMinutes)),
		ConfidenceScore:  confidence,
		Explanation:      strings.TrimSpace(est.Explanation),
	}, nil
}

// firstJSONObject returns the first complete JSON object in text. Objects that fail to
// decode are skipped, so prose such as "{not json}" before the payload is tolerated.
func firstJSONObject(text string) (json.RawMessage, error) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		dec := json.NewDecoder(bytes.NewReader([]byte(text[start:])))
		var obj json.RawMessage
		if err := dec.Decode(&obj); err == nil && len(obj) > 0 && obj[0] == '{' {
			return obj, nil
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, ErrNoJSON
}
