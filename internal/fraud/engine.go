package fraud

import (
	"context"
	"fmt"
	"log"

	"checklens/internal/config"
	"checklens/internal/domain"
	"checklens/internal/extract"
	"checklens/internal/gateway"
	"checklens/internal/port"
)

// Signal weights and penalties for the aggregated risk score.
const (
	tamperingWeight         = 0.3
	signatureWeight         = 0.4
	highAmountPenalty       = 20.0
	missingSignaturePenalty = 25.0
	missingFieldPenalty     = 15.0
)

// criticalFields drive the completeness penalty.
var criticalFields = []string{"check_number", "amount", "payee", "date"}

// Engine combines three independent fraud signals into one clamped risk
// score: visual tamper statistics, a second model call judging the
// signature, and completeness/amount rules on the validated record.
//
// The engine fails open: any sub-signal that cannot be computed (image
// decode failure, gateway failure, unparseable judgment) contributes zero
// instead of failing the analysis. That is a known trust weakness, since
// corrupting one sub-call suppresses its signal and lowers the resulting
// score.
type Engine struct {
	gateway port.VisionGateway
	cfg     config.FraudConfig
}

// NewEngine creates a fraud heuristic engine.
func NewEngine(gw port.VisionGateway, cfg config.FraudConfig) *Engine {
	return &Engine{gateway: gw, cfg: cfg}
}

// Analyze scores one check. The image bytes feed the visual and signature
// signals; the validated record feeds the amount and completeness rules.
func (e *Engine) Analyze(ctx context.Context, imageBytes []byte, contentType string, rec *domain.CheckRecord) *domain.FraudAssessment {
	out := &domain.FraudAssessment{}
	risk := 0.0

	tamper, err := DetectTampering(imageBytes, e.cfg)
	if err != nil {
		log.Printf("fraud.Engine: tampering signal skipped: %v", err)
	} else {
		out.Tampering = tamper
		risk += tamper.TamperingScore * tamperingWeight
		if tamper.TamperingScore > 50 {
			out.RiskFactors = append(out.RiskFactors, "Potential image tampering detected")
		}
	}

	if sig := e.analyzeSignature(ctx, imageBytes, contentType); sig != nil {
		out.Signature = sig
		risk += (100 - sig.AuthenticityScore) * signatureWeight
		if sig.AuthenticityScore < 70 {
			out.RiskFactors = append(out.RiskFactors, "Questionable signature authenticity")
		}
	}

	if rec.Amount > e.cfg.HighAmountThreshold {
		risk += highAmountPenalty
		out.RiskFactors = append(out.RiskFactors, "Unusually high check amount")
	}

	if rec.SignaturePresent == "false" {
		risk += missingSignaturePenalty
		out.RiskFactors = append(out.RiskFactors, "Signature not present on check")
	}

	if missing := countMissingCritical(rec); missing > 1 {
		risk += float64(missing) * missingFieldPenalty
		out.RiskFactors = append(out.RiskFactors, fmt.Sprintf("Missing %d critical fields", missing))
	}

	out.OverallRiskScore = extract.Clamp(risk, 0, 100)
	out.Recommendation = domain.RecommendationForScore(out.OverallRiskScore)
	return out
}

// analyzeSignature asks the model for a structured signature judgment.
// A nil return means "no evidence", never "maximal risk".
func (e *Engine) analyzeSignature(ctx context.Context, imageBytes []byte, contentType string) *domain.SignatureAnalysis {
	resp, err := e.gateway.Describe(ctx, port.DescribeInput{
		Prompt:      gateway.BuildSignaturePrompt(),
		ImageBytes:  imageBytes,
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("fraud.Engine: signature signal skipped: %v", err)
		return nil
	}

	fields, err := extract.JSONObject(resp.Text)
	if err != nil {
		log.Printf("fraud.Engine: signature signal skipped: %v", err)
		return nil
	}

	score, ok := fields["authenticity_score"].(float64)
	if !ok {
		log.Printf("fraud.Engine: signature signal skipped: no numeric authenticity_score")
		return nil
	}

	sig := &domain.SignatureAnalysis{
		AuthenticityScore: extract.Clamp(score, 0, 100),
	}
	if quality, ok := fields["signature_quality"].(string); ok {
		sig.SignatureQuality = quality
	}
	if recommendation, ok := fields["recommendation"].(string); ok {
		sig.Recommendation = recommendation
	}
	if indicators, ok := fields["fraud_indicators"].([]interface{}); ok {
		for _, item := range indicators {
			if s, ok := item.(string); ok && s != "" {
				sig.FraudIndicators = append(sig.FraudIndicators, s)
			}
		}
	}
	return sig
}

// countMissingCritical counts critical fields the extraction could not read.
// A zero amount is indistinguishable from an unparsed one after
// normalization, so it counts as missing.
func countMissingCritical(rec *domain.CheckRecord) int {
	missing := 0
	for _, field := range criticalFields {
		switch field {
		case "check_number":
			if absent(rec.CheckNumber) {
				missing++
			}
		case "amount":
			if rec.Amount == 0 {
				missing++
			}
		case "payee":
			if absent(rec.Payee) {
				missing++
			}
		case "date":
			if absent(rec.Date) {
				missing++
			}
		}
	}
	return missing
}

func absent(s string) bool {
	return s == "" || s == domain.Sentinel
}
