package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ticket-tracker.com/ticket-tracker/internal/constants"
	model "ticket-tracker.com/ticket-tracker/internal/models"
)

type TicketRepository struct {
	db *gorm.DB
}

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrDuplicateTitle = errors.New("duplicate title for owner")
	ErrStaleStatus    = errors.New("ticket status changed concurrently")
)

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

func (r *TicketRepository) FindByOwnerAndID(ctx context.Context, ownerID, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).First(&ticket, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&tickets).Error
	return tickets, err
}

// ExistsByOwnerTitle reports whether the owner already has a ticket with the
// given title, excluding excludeID when updating the record itself.
func (r *TicketRepository) ExistsByOwnerTitle(ctx context.Context, ownerID, title, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("user_id = ? AND title = ?", ownerID, title)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists field edits with a precondition on the pre-mutation status,
// so two concurrent transition requests serialize per record: the loser's
// precondition no longer matches and it gets ErrStaleStatus.
func (r *TicketRepository) Update(ctx context.Context, ticket *model.Ticket, expectedStatus constants.TicketStatus) error {
	ticket.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ? AND user_id = ? AND status = ?", ticket.ID, ticket.UserID, expectedStatus).
		Updates(map[string]interface{}{
			"title":       ticket.Title,
			"description": ticket.Description,
			"status":      ticket.Status,
			"updated_at":  ticket.UpdatedAt,
		})

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTitle
		}
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}

	return nil
}

// Delete removes the ticket unless it is closed. The status guard makes the
// closed-ticket policy atomic: a concurrent close landing after the service's
// check cannot race past it.
func (r *TicketRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status <> ?", id, ownerID, constants.StatusClosed).
		Delete(&model.Ticket{})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}
