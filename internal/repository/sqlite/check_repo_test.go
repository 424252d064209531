package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklens/internal/config"
	"checklens/internal/domain"
	"checklens/internal/port"
)

func newTestRepo(t *testing.T) port.CheckRepository {
	t.Helper()
	db, err := NewDB(&config.DBConfig{Path: ":memory:", MaxOpen: 1, MaxIdle: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, EnsureSchema(db))
	return NewCheckRepo(db)
}

func sampleRecord(checkNumber string, amount float64) *domain.CheckRecord {
	return &domain.CheckRecord{
		CheckNumber:      checkNumber,
		Amount:           amount,
		AmountInWords:    "some amount",
		Payee:            "Jane Doe",
		Date:             "2024-03-15",
		BankName:         "First National",
		AccountNumber:    "****1234",
		RoutingNumber:    "021000021",
		Memo:             "Invoice 88",
		SignaturePresent: "true",
		ConfidenceScore:  90,
		FraudRiskScore:   10,
		Recommendation:   domain.RecommendationAccept,
		RiskFactors:      domain.RiskFactors{"smudged ink"},
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := sampleRecord("1042", 1250.00)
	require.NoError(t, repo.Create(ctx, rec))
	assert.NotZero(t, rec.ID)
	assert.False(t, rec.ProcessedAt.IsZero())

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "1042", got.CheckNumber)
	assert.Equal(t, 1250.00, got.Amount)
	assert.Equal(t, "Jane Doe", got.Payee)
	assert.Equal(t, domain.RecommendationAccept, got.Recommendation)
	assert.Equal(t, domain.RiskFactors{"smudged ink"}, got.RiskFactors)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), 999)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestList_PaginationAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, num := range []string{"1001", "1002", "1003"} {
		require.NoError(t, repo.Create(ctx, sampleRecord(num, float64(100*(i+1)))))
	}

	records, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, records, 2)
	// Newest first; inserts share a timestamp so the id breaks the tie.
	assert.Equal(t, "1003", records[0].CheckNumber)
	assert.Equal(t, "1002", records[1].CheckNumber)

	records, total, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, records, 1)
	assert.Equal(t, "1001", records[0].CheckNumber)
}

func TestList_Empty(t *testing.T) {
	repo := newTestRepo(t)

	records, total, err := repo.List(context.Background(), 0, 50)

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, records)
}

func TestAnalytics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, a.TotalChecks)
	assert.Equal(t, 0.0, a.TotalAmount)

	r1 := sampleRecord("1001", 100)
	r1.ConfidenceScore = 80
	r1.FraudRiskScore = 10
	require.NoError(t, repo.Create(ctx, r1))

	r2 := sampleRecord("1002", 300)
	r2.ConfidenceScore = 100
	r2.FraudRiskScore = 30
	require.NoError(t, repo.Create(ctx, r2))

	a, err = repo.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, a.TotalChecks)
	assert.Equal(t, 400.0, a.TotalAmount)
	assert.Equal(t, 90.0, a.AverageConfidence)
	assert.Equal(t, 20.0, a.AverageFraudRisk)
}
