package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Sentinel marks a field the model could not read from the check image.
// It is distinct from the empty string and never counts toward completeness.
const Sentinel = "N/A"

// CheckRecord is the validated result of extracting one check image.
type CheckRecord struct {
	ID               int64          `db:"id" json:"id"`
	CheckNumber      string         `db:"check_number" json:"check_number"`
	Amount           float64        `db:"amount" json:"amount"`
	AmountInWords    string         `db:"amount_in_words" json:"amount_in_words"`
	Payee            string         `db:"payee" json:"payee"`
	Date             string         `db:"date" json:"date"`
	BankName         string         `db:"bank_name" json:"bank_name"`
	AccountNumber    string         `db:"account_number" json:"account_number"`
	RoutingNumber    string         `db:"routing_number" json:"routing_number"`
	Memo             string         `db:"memo" json:"memo"`
	SignaturePresent string         `db:"signature_present" json:"signature_present"`
	ConfidenceScore  float64        `db:"confidence_score" json:"confidence_score"`
	FraudRiskScore   float64        `db:"fraud_risk_score" json:"fraud_risk_score"`
	Recommendation   Recommendation `db:"recommendation" json:"recommendation"`
	RiskFactors      RiskFactors    `db:"risk_factors" json:"potential_fraud_indicators"`
	ImageKey         string         `db:"image_key" json:"image_key,omitempty"`
	ImageURL         string         `db:"-" json:"image_url,omitempty"`
	ProcessedAt      time.Time      `db:"processed_at" json:"processed_at"`
}

// RiskFactors is an ordered list of human-readable fraud reasons,
// stored as a JSON array in a TEXT column.
type RiskFactors []string

func (r RiskFactors) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling risk factors: %w", err)
	}
	return string(b), nil
}

func (r *RiskFactors) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		if v == "" {
			*r = nil
			return nil
		}
		return json.Unmarshal([]byte(v), r)
	case []byte:
		if len(v) == 0 {
			*r = nil
			return nil
		}
		return json.Unmarshal(v, r)
	default:
		return fmt.Errorf("unsupported risk factors column type %T", src)
	}
}

// TamperingResult holds the visual tamper statistics for one image.
type TamperingResult struct {
	TamperingScore float64 `json:"tampering_score"`
	EdgeDensity    float64 `json:"edge_density"`
	ColorVariance  float64 `json:"color_variance"`
}

// SignatureAnalysis is the model's free-text judgment of the signature,
// parsed from its response.
type SignatureAnalysis struct {
	SignatureQuality  string   `json:"signature_quality"`
	AuthenticityScore float64  `json:"authenticity_score"`
	FraudIndicators   []string `json:"fraud_indicators"`
	Recommendation    string   `json:"recommendation"`
}

// FraudAssessment combines the tamper, signature, and record signals into
// one clamped risk score.
type FraudAssessment struct {
	OverallRiskScore float64            `json:"overall_risk_score"`
	RiskFactors      []string           `json:"risk_factors"`
	Recommendation   Recommendation     `json:"recommendation"`
	Tampering        *TamperingResult   `json:"tampering,omitempty"`
	Signature        *SignatureAnalysis `json:"signature,omitempty"`
}

// Analytics holds aggregate metrics over all stored checks.
type Analytics struct {
	TotalChecks       int     `db:"total_checks" json:"total_checks"`
	TotalAmount       float64 `db:"total_amount" json:"total_amount"`
	AverageConfidence float64 `db:"average_confidence" json:"average_confidence"`
	AverageFraudRisk  float64 `db:"average_fraud_risk" json:"average_fraud_risk"`
}
