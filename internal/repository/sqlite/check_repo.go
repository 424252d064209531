package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"checklens/internal/domain"
	"checklens/internal/port"
)

type checkRepo struct {
	db *sqlx.DB
}

// NewCheckRepo creates a sqlite-backed CheckRepository.
func NewCheckRepo(db *sqlx.DB) port.CheckRepository {
	return &checkRepo{db: db}
}

func (r *checkRepo) Create(ctx context.Context, rec *domain.CheckRecord) error {
	rec.ProcessedAt = time.Now().UTC()

	query := `INSERT INTO processed_checks
		(check_number, amount, amount_in_words, payee, date, bank_name,
		 account_number, routing_number, memo, signature_present,
		 confidence_score, fraud_risk_score, recommendation, risk_factors,
		 image_key, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		rec.CheckNumber, rec.Amount, rec.AmountInWords, rec.Payee, rec.Date,
		rec.BankName, rec.AccountNumber, rec.RoutingNumber, rec.Memo,
		rec.SignaturePresent, rec.ConfidenceScore, rec.FraudRiskScore,
		rec.Recommendation, rec.RiskFactors, rec.ImageKey, rec.ProcessedAt)
	if err != nil {
		return fmt.Errorf("checkRepo.Create: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("checkRepo.Create id: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *checkRepo) List(ctx context.Context, offset, limit int) ([]domain.CheckRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM processed_checks"); err != nil {
		return nil, 0, fmt.Errorf("checkRepo.List count: %w", err)
	}

	var records []domain.CheckRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT * FROM processed_checks
		 ORDER BY processed_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("checkRepo.List: %w", err)
	}
	return records, total, nil
}

func (r *checkRepo) GetByID(ctx context.Context, id int64) (*domain.CheckRecord, error) {
	var rec domain.CheckRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM processed_checks WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("checkRepo.GetByID: %w", err)
	}
	return &rec, nil
}

const analyticsQuery = `SELECT
	COUNT(*) AS total_checks,
	COALESCE(SUM(amount), 0) AS total_amount,
	COALESCE(AVG(confidence_score), 0) AS average_confidence,
	COALESCE(AVG(fraud_risk_score), 0) AS average_fraud_risk
FROM processed_checks`

func (r *checkRepo) Analytics(ctx context.Context) (*domain.Analytics, error) {
	var a domain.Analytics
	if err := r.db.GetContext(ctx, &a, analyticsQuery); err != nil {
		return nil, fmt.Errorf("checkRepo.Analytics: %w", err)
	}
	return &a, nil
}
