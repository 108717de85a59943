package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ticket-tracker.com/ticket-tracker/internal/constants"
	apperrors "ticket-tracker.com/ticket-tracker/internal/errors"
	model "ticket-tracker.com/ticket-tracker/internal/models"
	repository "ticket-tracker.com/ticket-tracker/internal/repositories"
	"ticket-tracker.com/ticket-tracker/internal/rules"
)

type TicketService struct {
	repo   *repository.TicketRepository
	policy rules.Policy
}

func NewTicketService(repo *repository.TicketRepository, policy rules.Policy) *TicketService {
	return &TicketService{
		repo:   repo,
		policy: policy,
	}
}

// TicketPatch carries the optional fields of a partial update; nil means the
// field was not supplied.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *constants.TicketStatus
}

// CreateTicket validates the fields, forces the status to open regardless of
// any caller-supplied value, and persists. Title and description checks run
// independently so both can be reported in one response.
func (s *TicketService) CreateTicket(ctx context.Context, ownerID, title, description string) (*model.Ticket, error) {
	ve := rules.NewValidationError()

	if err := s.policy.CheckTitle(title); err != nil {
		ve.Add("title", err.Error())
	} else {
		taken, err := s.repo.ExistsByOwnerTitle(ctx, ownerID, title, "")
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("title", rules.MsgDuplicateTitle)
		}
	}

	if err := s.policy.CheckDescription(description); err != nil {
		ve.Add("description", err.Error())
	}

	if !ve.Empty() {
		return nil, ve
	}

	now := time.Now().UTC()
	ticket := &model.Ticket{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      constants.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		// A concurrent create with the same (owner, title) lost the race
		// against the unique index; report it as the same duplicate error.
		if errors.Is(err, repository.ErrDuplicateTitle) {
			ve.Add("title", rules.MsgDuplicateTitle)
			return nil, ve
		}
		return nil, err
	}

	return ticket, nil
}

func (s *TicketService) ListTickets(ctx context.Context, ownerID string) ([]model.Ticket, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *TicketService) GetTicket(ctx context.Context, ownerID, id string) (*model.Ticket, error) {
	ticket, err := s.repo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, translateTicketError(err)
	}
	return ticket, nil
}

// UpdateTicket applies a partial update. A closed ticket rejects every
// mutation before any field-level validation runs, even when the patch is a
// no-op value identical to the current one.
func (s *TicketService) UpdateTicket(ctx context.Context, ownerID, id string, patch TicketPatch) (*model.Ticket, error) {
	ticket, err := s.repo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, translateTicketError(err)
	}

	if ticket.Status == constants.StatusClosed {
		return nil, apperrors.ErrTicketClosed
	}

	ve := rules.NewValidationError()

	if patch.Title != nil {
		if err := s.policy.CheckTitle(*patch.Title); err != nil {
			ve.Add("title", err.Error())
		} else if *patch.Title != ticket.Title {
			taken, err := s.repo.ExistsByOwnerTitle(ctx, ownerID, *patch.Title, ticket.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				ve.Add("title", rules.MsgDuplicateTitle)
			}
		}
	}

	if patch.Description != nil {
		if err := s.policy.CheckDescription(*patch.Description); err != nil {
			ve.Add("description", err.Error())
		}
	}

	if patch.Status != nil {
		if err := rules.CheckTransition(ticket.Status, *patch.Status); err != nil {
			ve.Add("status", err.Error())
		}
	}

	if !ve.Empty() {
		return nil, ve
	}

	expectedStatus := ticket.Status
	if patch.Title != nil {
		ticket.Title = *patch.Title
	}
	if patch.Description != nil {
		ticket.Description = *patch.Description
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}

	if err := s.repo.Update(ctx, ticket, expectedStatus); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateTitle):
			ve.Add("title", rules.MsgDuplicateTitle)
			return nil, ve
		case errors.Is(err, repository.ErrStaleStatus):
			return nil, apperrors.ErrTransitionConflict
		default:
			return nil, translateTicketError(err)
		}
	}

	return ticket, nil
}

// DeleteTicket removes a ticket. Closed tickets cannot be deleted, consistent
// with closed-ticket immutability elsewhere.
func (s *TicketService) DeleteTicket(ctx context.Context, ownerID, id string) error {
	ticket, err := s.repo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return translateTicketError(err)
	}

	if ticket.Status == constants.StatusClosed {
		return apperrors.ErrTicketClosedDelete
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			// The guarded delete matched nothing: the ticket was either
			// removed or closed under us. Re-check to report the right cause.
			current, ferr := s.repo.FindByOwnerAndID(ctx, ownerID, id)
			if ferr == nil && current.Status == constants.StatusClosed {
				return apperrors.ErrTicketClosedDelete
			}
			return apperrors.ErrTicketNotFound
		}
		return err
	}

	return nil
}

// translateTicketError keeps ownership opacity: a record owned by someone else
// surfaces exactly like a nonexistent one.
func translateTicketError(err error) error {
	if errors.Is(err, repository.ErrTicketNotFound) {
		return apperrors.ErrTicketNotFound
	}
	return err
}
