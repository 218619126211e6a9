package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
)

// MemoryStatementRepository keeps statements for the life of the process
type MemoryStatementRepository struct {
	mu         sync.RWMutex
	statements map[uuid.UUID]billing.Statement
}

// NewMemoryStatementRepository creates an empty repository
func NewMemoryStatementRepository() *MemoryStatementRepository {
	return &MemoryStatementRepository{
		statements: make(map[uuid.UUID]billing.Statement),
	}
}

// Save inserts the statement or replaces the one with the same ID
func (r *MemoryStatementRepository) Save(ctx context.Context, statement *billing.Statement) error {
	if statement == nil {
		return shared.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements[statement.ID] = *statement
	return nil
}

// FindByLine returns all statements of a line ordered by period
func (r *MemoryStatementRepository) FindByLine(ctx context.Context, lineNumber string) ([]*billing.Statement, error) {
	result := r.filter(func(s *billing.Statement) bool { return s.LineNumber == lineNumber })
	sort.Slice(result, func(i, j int) bool { return result[i].Period.Before(result[j].Period) })
	return result, nil
}

// FindByPeriod returns all statements for a period ordered by line number
func (r *MemoryStatementRepository) FindByPeriod(ctx context.Context, period billing.Period) ([]*billing.Statement, error) {
	result := r.filter(func(s *billing.Statement) bool { return s.Period == period })
	sort.Slice(result, func(i, j int) bool { return result[i].LineNumber < result[j].LineNumber })
	return result, nil
}

func (r *MemoryStatementRepository) filter(keep func(*billing.Statement) bool) []*billing.Statement {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*billing.Statement, 0)
	for _, s := range r.statements {
		if keep(&s) {
			copied := s
			result = append(result, &copied)
		}
	}
	return result
}

var _ billing.StatementRepository = (*MemoryStatementRepository)(nil)
