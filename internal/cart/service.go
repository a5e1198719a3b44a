// Package cart is the cart sink fed by the customization flow and the upsell
// sequencer.
package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

// Line is one cart line to insert.
type Line struct {
	Kind        enums.CartLineKind `json:"kind"`
	ProductID   *uuid.UUID         `json:"product_id,omitempty"`
	Name        string             `json:"name"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	Quantity    int                `json:"quantity"`
	Description string             `json:"description,omitempty"`
}

// Subtotal is UnitPrice * Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums the subtotals of lines.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Service writes cart lines atomically and lists them per session.
type Service struct {
	repo LineRepository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo LineRepository, tx txRunner, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{repo: repo, tx: tx, logg: logg, now: time.Now}, nil
}

// AddLines validates and inserts every line in one transaction; nothing is
// written when any line is invalid.
func (s *Service) AddLines(ctx context.Context, storeID, sessionID uuid.UUID, lines []Line) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.CartLine, 0, len(lines))
	base := s.now().UTC()
	for i, line := range lines {
		if err := validateLine(line); err != nil {
			return err.WithDetails(map[string]any{"line": i, "name": line.Name})
		}
		rows = append(rows, models.CartLine{
			ID:          uuid.New(),
			StoreID:     storeID,
			SessionID:   sessionID,
			Kind:        line.Kind,
			ProductID:   line.ProductID,
			Name:        line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Description: line.Description,
			// keeps insertion order stable when listing by created_at
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Insert(ctx, rows)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart lines")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"store_id":   storeID.String(),
		"session_id": sessionID.String(),
		"lines":      len(rows),
	})
	s.logg.Info(ctx, "cart.lines_added")
	return nil
}

// ListLines returns the lines a session has added, oldest first.
func (s *Service) ListLines(ctx context.Context, storeID, sessionID uuid.UUID) ([]Line, error) {
	rows, err := s.repo.ListBySession(ctx, storeID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			Kind:        row.Kind,
			ProductID:   row.ProductID,
			Name:        row.Name,
			UnitPrice:   row.UnitPrice,
			Quantity:    row.Quantity,
			Description: row.Description,
		})
	}
	return lines, nil
}

func validateLine(line Line) *pkgerrors.Error {
	switch {
	case !line.Kind.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart line kind")
	case strings.TrimSpace(line.Name) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line name is required")
	case line.Quantity < 1:
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line quantity must be at least 1")
	case line.UnitPrice.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line price must not be negative")
	}
	return nil
}
