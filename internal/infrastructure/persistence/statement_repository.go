package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatementModel is the GORM model for statements
type StatementModel struct {
	ID            string            `gorm:"type:varchar(36);primaryKey"`
	LineNumber    string            `gorm:"type:varchar(32);index;not null"`
	Period        string            `gorm:"type:varchar(7);index;not null"`
	Contract      string            `gorm:"type:varchar(16);not null"`
	Kind          string            `gorm:"type:varchar(16);not null"`
	Label         string            `gorm:"type:varchar(32)"`
	Rate          decimal.Decimal   `gorm:"type:decimal(12,4);not null"`
	FixedCost     decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	UsageCost     decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	Total         decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	FreeMinutes   int               `gorm:"not null"`
	BilledMinutes int               `gorm:"not null"`
	AmountDue     valueobject.Money `gorm:"type:decimal(14,4);not null"`
	ClosedAt      time.Time         `gorm:"not null"`
	CreatedAt     time.Time         `gorm:"autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (StatementModel) TableName() string {
	return "statements"
}

// ToEntity converts the model to a domain statement
func (m *StatementModel) ToEntity() (*billing.Statement, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("statement %q: %w", m.ID, err)
	}
	period, err := billing.ParsePeriod(m.Period)
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w", m.ID, err)
	}

	return &billing.Statement{
		ID:         id,
		LineNumber: m.LineNumber,
		Period:     period,
		Contract:   m.Contract,
		Kind:       billing.StatementKind(m.Kind),
		Summary: billing.Summary{
			Label:         m.Label,
			Rate:          m.Rate,
			FixedCost:     valueobject.NewMoney(m.FixedCost),
			FreeMinutes:   m.FreeMinutes,
			BilledMinutes: m.BilledMinutes,
			UsageCost:     valueobject.NewMoney(m.UsageCost),
			Total:         valueobject.NewMoney(m.Total),
		},
		AmountDue: m.AmountDue,
		ClosedAt:  m.ClosedAt,
	}, nil
}

// StatementModelFromEntity creates a model from a domain statement
func StatementModelFromEntity(s *billing.Statement) *StatementModel {
	return &StatementModel{
		ID:            s.ID.String(),
		LineNumber:    s.LineNumber,
		Period:        s.Period.String(),
		Contract:      s.Contract,
		Kind:          string(s.Kind),
		Label:         s.Summary.Label,
		Rate:          s.Summary.Rate,
		FixedCost:     s.Summary.FixedCost.Amount(),
		UsageCost:     s.Summary.UsageCost.Amount(),
		Total:         s.Summary.Total.Amount(),
		FreeMinutes:   s.Summary.FreeMinutes,
		BilledMinutes: s.Summary.BilledMinutes,
		AmountDue:     s.AmountDue,
		ClosedAt:      s.ClosedAt,
	}
}

// StatementRepository implements billing.StatementRepository with gorm
type StatementRepository struct {
	db *gorm.DB
}

// NewStatementRepository creates a new statement repository
func NewStatementRepository(db *gorm.DB) *StatementRepository {
	return &StatementRepository{db: db}
}

// Save inserts the statement or replaces the one with the same ID
func (r *StatementRepository) Save(ctx context.Context, statement *billing.Statement) error {
	model := StatementModelFromEntity(statement)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save statement %s/%s: %w", statement.LineNumber, statement.Period, err)
	}
	return nil
}

// FindByLine returns all statements of a line ordered by period
func (r *StatementRepository) FindByLine(ctx context.Context, lineNumber string) ([]*billing.Statement, error) {
	var models []StatementModel
	err := r.db.WithContext(ctx).
		Where("line_number = ?", lineNumber).
		Order("period ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find statements for line %s: %w", lineNumber, err)
	}
	return toEntities(models)
}

// FindByPeriod returns all statements for a period ordered by line number
func (r *StatementRepository) FindByPeriod(ctx context.Context, period billing.Period) ([]*billing.Statement, error) {
	var models []StatementModel
	err := r.db.WithContext(ctx).
		Where("period = ?", period.String()).
		Order("line_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find statements for %s: %w", period, err)
	}
	return toEntities(models)
}

func toEntities(models []StatementModel) ([]*billing.Statement, error) {
	statements := make([]*billing.Statement, 0, len(models))
	for i := range models {
		s, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}
	return statements, nil
}

var _ billing.StatementRepository = (*StatementRepository)(nil)
