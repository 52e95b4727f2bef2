package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/smsledger/internal/extract"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/resolver"
	"github.com/Veraticus/smsledger/internal/service"
)

// BankResolver finds or creates the bank a pattern is authored against.
type BankResolver interface {
	ResolveOrCreateBank(ctx context.Context, titleHint, explicitName string) (*model.Bank, error)
}

// PatternInput is a maker's full description of a pattern. Saving it
// overwrites every field of the stored pattern.
type PatternInput struct {
	BankName     *string
	MerchantName *string
	TxType       *string
	MsgType      *string
	MsgSubtype   *string
	Regex        string
	SampleText   string
	TitleHint    string
}

// PatternUpdate is a checker's partial edit. Nil fields are left unchanged.
type PatternUpdate struct {
	Regex        *string
	SampleText   *string
	TitleHint    *string
	BankName     *string
	MerchantName *string
	TxType       *string
	MsgType      *string
	MsgSubtype   *string
	ID           int64
}

// Service applies lifecycle operations to stored patterns.
type Service struct {
	store  service.PatternStore
	banks  BankResolver
	logger *slog.Logger
}

// NewService creates a lifecycle service.
func NewService(store service.PatternStore, banks BankResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, banks: banks, logger: logger}
}

// RecordFailure stores an SMS that no approved pattern could handle so a
// maker can author one. bank may be nil when the sender was not recognised,
// in which case the title is kept as the bank name for reference.
func (s *Service) RecordFailure(ctx context.Context, message, title string, bank *model.Bank) (*model.Pattern, error) {
	if !CanTransition(model.StatusNone, RoleSystem, model.StatusFailed) {
		return nil, illegal(model.StatusNone, RoleSystem, model.StatusFailed)
	}

	p := &model.Pattern{
		Status:     model.StatusFailed,
		SampleText: message,
		TitleHint:  title,
	}
	switch {
	case bank != nil:
		p.BankID = &bank.ID
		p.BankNameDefault = model.StringPtr(bank.Name)
	case title != "":
		p.BankNameDefault = model.StringPtr(title)
	}

	saved, err := s.store.SavePattern(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to record failed pattern: %w", err)
	}

	s.logger.Info("recorded failed pattern", "pattern_id", saved.ID, "title", title)
	return saved, nil
}

// SaveDraft creates a DRAFT pattern when id is nil, or overwrites the pattern
// with that id and moves it to DRAFT.
func (s *Service) SaveDraft(ctx context.Context, id *int64, in PatternInput) (*model.Pattern, error) {
	return s.author(ctx, id, in, model.StatusDraft)
}

// Submit creates or overwrites a pattern and sends it for review.
func (s *Service) Submit(ctx context.Context, id *int64, in PatternInput) (*model.Pattern, error) {
	return s.author(ctx, id, in, model.StatusPending)
}

func (s *Service) author(ctx context.Context, id *int64, in PatternInput, to model.PatternStatus) (*model.Pattern, error) {
	p := &model.Pattern{}
	if id != nil {
		existing, err := s.store.GetPatternByID(ctx, *id)
		if err != nil {
			return nil, fmt.Errorf("failed to load pattern %d: %w", *id, err)
		}
		p = existing
	}

	if !CanTransition(p.Status, RoleMaker, to) {
		return nil, illegal(p.Status, RoleMaker, to)
	}

	bank, err := s.banks.ResolveOrCreateBank(ctx, in.TitleHint, model.StringValue(in.BankName))
	switch {
	case err == nil:
		p.BankID = &bank.ID
	case errors.Is(err, resolver.ErrBankNameRequired) && p.BankID != nil:
		// Keep the bank already bound to the pattern.
	default:
		return nil, err
	}

	from := p.Status
	p.Regex = in.Regex
	p.SampleText = in.SampleText
	p.TitleHint = in.TitleHint
	p.BankNameDefault = in.BankName
	p.MerchantNameDefault = in.MerchantName
	p.TxTypeDefault = in.TxType
	p.MsgTypeDefault = in.MsgType
	p.MsgSubtypeDefault = in.MsgSubtype
	p.Status = to

	saved, err := s.store.SavePattern(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to save pattern: %w", err)
	}

	s.logger.Info("pattern saved", "pattern_id", saved.ID, "from", from, "to", to)
	return saved, nil
}

// Approve applies upd to a PENDING pattern and approves it. The resulting
// regex must be non-empty and compile.
func (s *Service) Approve(ctx context.Context, upd PatternUpdate) (*model.Pattern, error) {
	return s.review(ctx, upd, model.StatusApproved)
}

// Reject applies upd to a PENDING pattern and rejects it.
func (s *Service) Reject(ctx context.Context, upd PatternUpdate) (*model.Pattern, error) {
	return s.review(ctx, upd, model.StatusRejected)
}

func (s *Service) review(ctx context.Context, upd PatternUpdate, to model.PatternStatus) (*model.Pattern, error) {
	p, err := s.store.GetPatternByID(ctx, upd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern %d: %w", upd.ID, err)
	}

	if !CanTransition(p.Status, RoleChecker, to) {
		return nil, illegal(p.Status, RoleChecker, to)
	}

	regex := p.Regex
	if upd.Regex != nil {
		regex = *upd.Regex
	}
	if to == model.StatusApproved {
		if err := checkRegex(regex); err != nil {
			return nil, err
		}
	}

	hint := model.StringValue(upd.TitleHint)
	name := model.StringValue(upd.BankName)
	if strings.TrimSpace(hint) != "" || strings.TrimSpace(name) != "" {
		bank, err := s.banks.ResolveOrCreateBank(ctx, hint, name)
		switch {
		case err == nil:
			p.BankID = &bank.ID
		case errors.Is(err, resolver.ErrBankNameRequired):
		default:
			return nil, err
		}
	}

	from := p.Status
	p.Regex = regex
	if upd.SampleText != nil {
		p.SampleText = *upd.SampleText
	}
	if upd.TitleHint != nil {
		p.TitleHint = *upd.TitleHint
	}
	if upd.BankName != nil {
		p.BankNameDefault = upd.BankName
	}
	if upd.MerchantName != nil {
		p.MerchantNameDefault = upd.MerchantName
	}
	if upd.TxType != nil {
		p.TxTypeDefault = upd.TxType
	}
	if upd.MsgType != nil {
		p.MsgTypeDefault = upd.MsgType
	}
	if upd.MsgSubtype != nil {
		p.MsgSubtypeDefault = upd.MsgSubtype
	}
	p.Status = to

	saved, err := s.store.SavePattern(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to save pattern: %w", err)
	}

	s.logger.Info("pattern reviewed", "pattern_id", saved.ID, "from", from, "to", to)
	return saved, nil
}

// Get returns a single pattern.
func (s *Service) Get(ctx context.Context, id int64) (*model.Pattern, error) {
	p, err := s.store.GetPatternByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern %d: %w", id, err)
	}
	return p, nil
}

// ListByStatus returns the queue of patterns in status, oldest first.
func (s *Service) ListByStatus(ctx context.Context, status model.PatternStatus) ([]model.Pattern, error) {
	if status == model.StatusNone {
		return nil, fmt.Errorf("%w: empty", ErrUnknownStatus)
	}
	parsed, err := model.ParseStatus(string(status))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	patterns, err := s.store.ListPatternsByStatus(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s patterns: %w", status, err)
	}
	return patterns, nil
}

func checkRegex(regex string) error {
	if strings.TrimSpace(regex) == "" {
		return fmt.Errorf("%w: pattern is empty", ErrInvalidRegex)
	}
	if _, err := extract.Compile(regex); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRegex, err)
	}
	return nil
}

func illegal(from model.PatternStatus, role Role, to model.PatternStatus) error {
	name := string(from)
	if from == model.StatusNone {
		name = "none"
	}
	return fmt.Errorf("%w: %s may not move a pattern from %s to %s", ErrIllegalTransition, role, name, to)
}
