package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/ports"
	"github.com/kamertour/kamertour/internal/pkg/metrics"
)

// CommentService handles visitor comments and their moderation.
type CommentService struct {
	comments  ports.CommentRepository
	pois      ports.POIRepository
	publisher ports.EventPublisher
	clock     clockwork.Clock
}

// NewCommentService creates a new CommentService. publisher may be nil and
// clock defaults to the real clock.
func NewCommentService(comments ports.CommentRepository, pois ports.POIRepository, publisher ports.EventPublisher, clock clockwork.Clock) *CommentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CommentService{comments: comments, pois: pois, publisher: publisher, clock: clock}
}

// Add stores a new comment pending moderation.
func (s *CommentService) Add(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.pois.GetByID(ctx, c.POIID); err != nil {
		return nil, fmt.Errorf("poi %s: %w", c.POIID, err)
	}

	now := s.clock.Now().UTC()
	c.ID = uuid.NewString()
	c.UserName = strings.TrimSpace(c.UserName)
	c.Content = strings.TrimSpace(c.Content)
	c.Status = domain.CommentStatusPending
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// ListForPOI returns the approved comments of a POI.
func (s *CommentService) ListForPOI(ctx context.Context, poiID string, offset, limit int) ([]domain.Comment, int, error) {
	return s.List(ctx, domain.CommentFilter{
		POIID:  poiID,
		Status: domain.CommentStatusApproved,
		Offset: offset,
		Limit:  limit,
	})
}

// List returns comments for the moderation view.
func (s *CommentService) List(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, &domain.ValidationError{Field: "status", Message: "unknown status " + string(filter.Status)}
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.comments.List(ctx, filter)
}

// Approve publishes a comment.
func (s *CommentService) Approve(ctx context.Context, id string) (*domain.Comment, error) {
	return s.transition(ctx, id, domain.CommentStatusApproved)
}

// Report flags a comment for moderator attention.
func (s *CommentService) Report(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := s.transition(ctx, id, domain.CommentStatusReported)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishCommentReported(ctx, c); err != nil {
			slog.WarnContext(ctx, "publish comment reported", "comment_id", id, "error", err)
		}
	}
	return c, nil
}

// Edit replaces the text of a comment.
func (s *CommentService) Edit(ctx context.Context, id, content string) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Content = strings.TrimSpace(content)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.clock.Now().UTC()
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update comment %s: %w", id, err)
	}
	return c, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	return s.comments.Delete(ctx, id)
}

func (s *CommentService) transition(ctx context.Context, id string, status domain.CommentStatus) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}
	if err := s.comments.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set comment %s status: %w", id, err)
	}
	c.Status = status
	c.UpdatedAt = s.clock.Now().UTC()
	metrics.CommentsModerated.WithLabelValues(string(status)).Inc()
	return c, nil
}
