package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/audit"
	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteService manages the quote document lifecycle. Every pricing mutation
// goes through the aggregate, which recomputes the totals breakdown, so the
// stored amounts can never drift from the line items.
type QuoteService struct {
	quotes   billing.QuoteRepository
	invoices billing.InvoiceRepository
	activity audit.Recorder
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quotes billing.QuoteRepository,
	invoices billing.InvoiceRepository,
	activity audit.Recorder,
	events shared.EventPublisher,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quotes:   quotes,
		invoices: invoices,
		activity: activity,
		events:   events,
		logger:   logger,
	}
}

// CreateQuoteRequest represents a request to create a draft quote
type CreateQuoteRequest struct {
	CustomerID   uuid.UUID
	CustomerName string
	ValidUntil   *time.Time
	Remark       string
	Items        []QuoteItemInput
	ActorID      uuid.UUID
}

// QuoteItemInput is one line item in a create/update request
type QuoteItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// UpdatePricingRequest adjusts the document-level pricing knobs of a draft
// quote. Nil fields are left unchanged.
type UpdatePricingRequest struct {
	QuoteID         uuid.UUID
	DiscountPercent *decimal.Decimal
	ShippingCharges *decimal.Decimal
	TaxRates        *billing.TaxRates
	ActorID         uuid.UUID
}

// CreateQuote creates a draft quote with optional initial line items
func (s *QuoteService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*billing.Quote, error) {
	number, err := s.quotes.GenerateQuoteNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote number: %w", err)
	}

	quote, err := billing.NewQuote(number, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}
	quote.SetValidUntil(req.ValidUntil)
	if req.Remark != "" {
		quote.SetRemark(req.Remark)
	}

	for _, item := range req.Items {
		if _, err := quote.AddItem(item.Description, item.Quantity, valueobject.NewMoney(item.UnitPrice)); err != nil {
			return nil, err
		}
	}

	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	s.publishAndClear(ctx, quote)
	s.recordActivity(ctx, req.ActorID, audit.ActionCreated, &quote.ID,
		fmt.Sprintf("quote %s created", quote.QuoteNumber))

	return quote, nil
}

// GetQuote returns a quote by id
func (s *QuoteService) GetQuote(ctx context.Context, quoteID uuid.UUID) (*billing.Quote, error) {
	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrQuoteNotFound
		}
		return nil, err
	}
	return quote, nil
}

// ListQuotes returns a paginated quote listing
func (s *QuoteService) ListQuotes(ctx context.Context, filter billing.QuoteFilter) (*shared.Paginated[billing.Quote], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	quotes, err := s.quotes.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.quotes.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(quotes, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddItem appends a line item to a draft quote
func (s *QuoteService) AddItem(ctx context.Context, quoteID uuid.UUID, input QuoteItemInput, actorID uuid.UUID) (*billing.Quote, error) {
	return s.mutate(ctx, quoteID, actorID, "line item added", func(q *billing.Quote) error {
		_, err := q.AddItem(input.Description, input.Quantity, valueobject.NewMoney(input.UnitPrice))
		return err
	})
}

// UpdateItem replaces quantity and unit price of a line item on a draft quote
func (s *QuoteService) UpdateItem(ctx context.Context, quoteID, itemID uuid.UUID, input QuoteItemInput, actorID uuid.UUID) (*billing.Quote, error) {
	return s.mutate(ctx, quoteID, actorID, "line item updated", func(q *billing.Quote) error {
		return q.UpdateItem(itemID, input.Quantity, valueobject.NewMoney(input.UnitPrice))
	})
}

// RemoveItem removes a line item from a draft quote
func (s *QuoteService) RemoveItem(ctx context.Context, quoteID, itemID uuid.UUID, actorID uuid.UUID) (*billing.Quote, error) {
	return s.mutate(ctx, quoteID, actorID, "line item removed", func(q *billing.Quote) error {
		return q.RemoveItem(itemID)
	})
}

// UpdatePricing adjusts discount, shipping and tax rates on a draft quote
func (s *QuoteService) UpdatePricing(ctx context.Context, req UpdatePricingRequest) (*billing.Quote, error) {
	return s.mutate(ctx, req.QuoteID, req.ActorID, "pricing updated", func(q *billing.Quote) error {
		if req.DiscountPercent != nil {
			if err := q.SetDiscountPercent(*req.DiscountPercent); err != nil {
				return err
			}
		}
		if req.ShippingCharges != nil {
			if err := q.SetShippingCharges(valueobject.NewMoney(*req.ShippingCharges)); err != nil {
				return err
			}
		}
		if req.TaxRates != nil {
			if err := q.SetTaxRates(*req.TaxRates); err != nil {
				return err
			}
		}
		return nil
	})
}

// SendQuote marks a quote as sent to the customer
func (s *QuoteService) SendQuote(ctx context.Context, quoteID, actorID uuid.UUID) (*billing.Quote, error) {
	return s.transition(ctx, quoteID, actorID, audit.ActionSent, "quote sent", (*billing.Quote).Send)
}

// AcceptQuote marks a quote as accepted by the customer
func (s *QuoteService) AcceptQuote(ctx context.Context, quoteID, actorID uuid.UUID) (*billing.Quote, error) {
	return s.transition(ctx, quoteID, actorID, audit.ActionAccepted, "quote accepted", (*billing.Quote).Accept)
}

// DeclineQuote marks a quote as declined
func (s *QuoteService) DeclineQuote(ctx context.Context, quoteID, actorID uuid.UUID) (*billing.Quote, error) {
	return s.transition(ctx, quoteID, actorID, audit.ActionDeclined, "quote declined", (*billing.Quote).Decline)
}

// FinalizeQuote converts an accepted quote into an invoice with the total
// frozen at the quote's computed total
func (s *QuoteService) FinalizeQuote(ctx context.Context, quoteID, actorID uuid.UUID) (*billing.Invoice, error) {
	quote, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	number, err := s.invoices.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	invoice, err := quote.Finalize(number)
	if err != nil {
		return nil, err
	}

	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	s.publishAndClear(ctx, quote)
	s.publishInvoiceEvents(ctx, invoice)
	s.recordActivity(ctx, actorID, audit.ActionInvoiced, &quote.ID,
		fmt.Sprintf("quote %s finalized into invoice %s", quote.QuoteNumber, invoice.InvoiceNumber))

	return invoice, nil
}

// mutate loads a quote, applies fn, persists and records the change
func (s *QuoteService) mutate(ctx context.Context, quoteID, actorID uuid.UUID, detail string, fn func(*billing.Quote) error) (*billing.Quote, error) {
	quote, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if err := fn(quote); err != nil {
		return nil, err
	}

	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	s.publishAndClear(ctx, quote)
	s.recordActivity(ctx, actorID, audit.ActionUpdated, &quote.ID,
		fmt.Sprintf("quote %s: %s", quote.QuoteNumber, detail))

	return quote, nil
}

// transition applies a lifecycle transition and records it
func (s *QuoteService) transition(ctx context.Context, quoteID, actorID uuid.UUID, action audit.Action, detail string, fn func(*billing.Quote) error) (*billing.Quote, error) {
	quote, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if err := fn(quote); err != nil {
		return nil, err
	}

	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	s.publishAndClear(ctx, quote)
	s.recordActivity(ctx, actorID, action, &quote.ID,
		fmt.Sprintf("quote %s: %s", quote.QuoteNumber, detail))

	return quote, nil
}

func (s *QuoteService) publishAndClear(ctx context.Context, quote *billing.Quote) {
	events := quote.GetDomainEvents()
	quote.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

func (s *QuoteService) publishInvoiceEvents(ctx context.Context, invoice *billing.Invoice) {
	events := invoice.GetDomainEvents()
	invoice.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

func (s *QuoteService) recordActivity(ctx context.Context, actorID uuid.UUID, action audit.Action, entityID *uuid.UUID, detail string) {
	if s.activity == nil || actorID == uuid.Nil {
		return
	}
	entry, err := audit.NewActivityEntry(actorID, action, audit.EntityQuote, entityID, detail)
	if err != nil {
		s.logger.Warn("failed to build activity entry", zap.Error(err))
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity entry", zap.Error(err))
	}
}
