package domain

// Recommendation is the disposition derived from the overall risk score.
type Recommendation string

const (
	RecommendationAccept       Recommendation = "accept"
	RecommendationManualReview Recommendation = "manual_review"
	RecommendationReject       Recommendation = "reject"
)

// RecommendationForScore maps a clamped risk score to a disposition.
func RecommendationForScore(score float64) Recommendation {
	switch {
	case score >= 70:
		return RecommendationReject
	case score >= 40:
		return RecommendationManualReview
	default:
		return RecommendationAccept
	}
}

// AllowedContentTypes lists the image MIME types accepted for processing.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}
