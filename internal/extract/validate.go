package extract

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"checklens/internal/domain"
)

// DateFormat is the only date layout accepted on a check; anything else
// degrades to the sentinel rather than being guessed at.
const DateFormat = "2006-01-02"

// derivedKeys are score/output keys that may appear in a field mapping but
// are never extraction fields. They are excluded from completeness scoring,
// so the confidence score never counts itself in its own denominator.
var derivedKeys = map[string]bool{
	"confidence_score":           true,
	"fraud_risk_score":           true,
	"potential_fraud_indicators": true,
	"check_id":                   true,
}

// ValidateRecord turns a decoded field mapping into a CheckRecord.
// Normalization never fails: a bad amount becomes 0.0, a bad date becomes
// the sentinel, and the confidence score reflects how many extracted fields
// carry a usable value. Running it again over its own output changes nothing.
func ValidateRecord(fields map[string]interface{}) *domain.CheckRecord {
	rec := &domain.CheckRecord{
		CheckNumber:      stringField(fields, "check_number"),
		Amount:           NormalizeAmount(fields["amount"]),
		AmountInWords:    stringField(fields, "amount_in_words"),
		Payee:            stringField(fields, "payee"),
		Date:             NormalizeDate(stringField(fields, "date")),
		BankName:         stringField(fields, "bank_name"),
		AccountNumber:    stringField(fields, "account_number"),
		RoutingNumber:    stringField(fields, "routing_number"),
		Memo:             stringField(fields, "memo"),
		SignaturePresent: stringField(fields, "signature_present"),
		RiskFactors:      stringSlice(fields["potential_fraud_indicators"]),
	}
	rec.ConfidenceScore = ConfidenceScore(fields)
	return rec
}

// ConfidenceScore is the completeness metric: filled fields over total
// fields in the mapping, as a percentage in [0,100]. Derived keys never
// count on either side of the division.
func ConfidenceScore(fields map[string]interface{}) float64 {
	total := 0
	filled := 0
	for key, val := range fields {
		if derivedKeys[key] {
			continue
		}
		total++
		if fieldFilled(key, val) {
			filled++
		}
	}
	if total == 0 {
		return 0
	}
	score := float64(filled) / float64(total) * 100
	return Clamp(math.Round(score*100)/100, 0, 100)
}

// fieldFilled reports whether a raw extracted value counts toward
// completeness. The sentinel and the empty string never count; the date
// counts only when it survives normalization. An unparseable amount string
// still counts because it was present on the check, it just degrades to 0.0.
func fieldFilled(key string, val interface{}) bool {
	s := stringValue(val)
	if s == "" || s == domain.Sentinel {
		return false
	}
	if key == "date" {
		return NormalizeDate(s) != domain.Sentinel
	}
	return true
}

// NormalizeAmount strips the currency symbol and grouping separators from an
// amount value and parses it as a float. Any failure yields 0.0, never an error.
func NormalizeAmount(val interface{}) float64 {
	s := strings.TrimSpace(stringValue(val))
	if s == "" || s == domain.Sentinel {
		return 0
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// NormalizeDate validates a date string against DateFormat. Anything that
// does not parse degrades to the sentinel; no alternate layout is guessed.
func NormalizeDate(s string) string {
	if _, err := time.Parse(DateFormat, s); err != nil {
		return domain.Sentinel
	}
	return s
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// stringField reads a mapping value as a string, with the sentinel standing
// in for missing or null values.
func stringField(fields map[string]interface{}, key string) string {
	val, ok := fields[key]
	if !ok {
		return domain.Sentinel
	}
	return stringValue(val)
}

func stringValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return domain.Sentinel
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return domain.Sentinel
	}
}

func stringSlice(val interface{}) []string {
	items, ok := val.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" && s != domain.Sentinel {
			out = append(out, s)
		}
	}
	return out
}
