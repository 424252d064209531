package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"checklens/internal/config"
	"checklens/internal/domain"
	"checklens/internal/extract"
	"checklens/internal/fraud"
	"checklens/internal/gateway"
	"checklens/internal/port"
)

// ProcessInput carries one check image through the pipeline.
type ProcessInput struct {
	ImageBase64  string
	ContentType  string
	AnalyzeFraud bool
}

// ProcessResult is the outcome of processing one check. PersistenceWarning
// is set when extraction succeeded but the store write did not; the record
// is still returned.
type ProcessResult struct {
	Record             *domain.CheckRecord     `json:"record"`
	Fraud              *domain.FraudAssessment `json:"fraud_analysis,omitempty"`
	ModelUsed          string                  `json:"model_used"`
	PersistenceWarning string                  `json:"persistence_warning,omitempty"`
}

// CheckService runs the extraction pipeline and serves stored records.
type CheckService interface {
	Process(ctx context.Context, input ProcessInput) (*ProcessResult, error)
	List(ctx context.Context, offset, limit int) ([]domain.CheckRecord, int, error)
	GetByID(ctx context.Context, id int64) (*domain.CheckRecord, error)
	Analytics(ctx context.Context) (*domain.Analytics, error)
}

type checkService struct {
	gateway port.VisionGateway
	repo    port.CheckRepository
	fraud   *fraud.Engine
	storage port.ObjectStorage
	s3cfg   *config.S3Config
}

// NewCheckService creates a CheckService. The fraud engine and storage are
// optional; nil disables the fraud analysis and image archival respectively.
func NewCheckService(gw port.VisionGateway, repo port.CheckRepository, engine *fraud.Engine, storage port.ObjectStorage, s3cfg *config.S3Config) CheckService {
	return &checkService{
		gateway: gw,
		repo:    repo,
		fraud:   engine,
		storage: storage,
		s3cfg:   s3cfg,
	}
}

func (s *checkService) Process(ctx context.Context, input ProcessInput) (*ProcessResult, error) {
	imageBytes, contentType, err := decodeImage(input)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.Describe(ctx, port.DescribeInput{
		Prompt:      gateway.BuildCheckExtractionPrompt(),
		ImageBytes:  imageBytes,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)
	}

	fields, err := extract.JSONObject(resp.Text)
	if err != nil {
		return nil, err
	}

	rec := extract.ValidateRecord(fields)

	result := &ProcessResult{Record: rec, ModelUsed: resp.ModelUsed}

	if input.AnalyzeFraud && s.fraud != nil {
		assessment := s.fraud.Analyze(ctx, imageBytes, contentType, rec)
		rec.FraudRiskScore = assessment.OverallRiskScore
		rec.Recommendation = assessment.Recommendation
		rec.RiskFactors = append(rec.RiskFactors, assessment.RiskFactors...)
		result.Fraud = assessment
	}

	s.archiveImage(ctx, imageBytes, contentType, rec)

	if err := s.repo.Create(ctx, rec); err != nil {
		// Reported, not retried: the extraction result still goes back
		// to the caller.
		log.Printf("checkService.Process: %v", err)
		result.PersistenceWarning = domain.ErrPersistenceFailure.Error()
		s.discardArchivedImage(ctx, rec)
	}

	return result, nil
}

// archiveImage uploads the original image when archival is configured.
// Failure is logged and swallowed: archival is best-effort.
func (s *checkService) archiveImage(ctx context.Context, imageBytes []byte, contentType string, rec *domain.CheckRecord) {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return
	}

	key := fmt.Sprintf("checks/%s%s", uuid.New(), extFor(contentType))
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(imageBytes),
		ContentType: contentType,
		Size:        int64(len(imageBytes)),
	})
	if err != nil {
		log.Printf("checkService.archiveImage: %v", err)
		return
	}
	rec.ImageKey = key
}

// discardArchivedImage removes the uploaded image when the record it belongs
// to was never stored, so the bucket does not accumulate orphaned objects.
func (s *checkService) discardArchivedImage(ctx context.Context, rec *domain.CheckRecord) {
	if s.storage == nil || s.s3cfg == nil || rec.ImageKey == "" {
		return
	}
	if err := s.storage.Delete(ctx, s.s3cfg.Bucket, rec.ImageKey); err != nil {
		log.Printf("checkService.discardArchivedImage: %v", err)
		return
	}
	rec.ImageKey = ""
}

// attachImageURL resolves a short-lived download link for the archived
// image. Like archival itself this is best-effort: failure is logged and the
// record goes back without a link.
func (s *checkService) attachImageURL(ctx context.Context, rec *domain.CheckRecord) {
	if s.storage == nil || s.s3cfg == nil || rec.ImageKey == "" {
		return
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, rec.ImageKey, s.s3cfg.PresignExpiry)
	if err != nil {
		log.Printf("checkService.attachImageURL: %v", err)
		return
	}
	rec.ImageURL = url
}

func (s *checkService) List(ctx context.Context, offset, limit int) ([]domain.CheckRecord, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *checkService) GetByID(ctx context.Context, id int64) (*domain.CheckRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachImageURL(ctx, rec)
	return rec, nil
}

func (s *checkService) Analytics(ctx context.Context) (*domain.Analytics, error) {
	return s.repo.Analytics(ctx)
}

// decodeImage turns the request's base64 payload into raw bytes, tolerating
// a data: URI prefix, and resolves the effective content type.
func decodeImage(input ProcessInput) ([]byte, string, error) {
	encoded := strings.TrimSpace(input.ImageBase64)
	if strings.HasPrefix(encoded, "data:") {
		if idx := strings.Index(encoded, ","); idx != -1 {
			encoded = encoded[idx+1:]
		}
	}
	if encoded == "" {
		return nil, "", domain.ErrMissingImage
	}

	imageBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidImageEncoding, err)
	}
	if len(imageBytes) == 0 {
		return nil, "", domain.ErrMissingImage
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	if !domain.AllowedContentTypes[contentType] {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrUnsupportedContentType, contentType)
	}

	return imageBytes, contentType, nil
}

func extFor(contentType string) string {
	if contentType == "image/jpeg" {
		return ".jpg"
	}
	return ".png"
}
