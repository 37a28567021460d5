package sitecontent

import (
	"context"

	"github.com/google/uuid"
)

// Ordering engine: adjacent-swap reordering over the testimonial display
// ranks. A move exchanges the ranks of exactly two records and never
// renumbers the rest; ReorderTestimonials is the explicit repair path for
// gaps and duplicates.

// MoveTestimonialUp swaps the record's display order with the nearest record
// ranked above it. Moving the first-ranked record is a no-op, not an error.
func (s *service) MoveTestimonialUp(ctx context.Context, id uuid.UUID) error {
	return s.moveTestimonial(ctx, id, func(target, other *Testimonial, best *Testimonial) bool {
		if other.DisplayOrder >= target.DisplayOrder {
			return false
		}
		// Strict comparison keeps the first record seen at the winning rank
		return best == nil || other.DisplayOrder > best.DisplayOrder
	})
}

// MoveTestimonialDown swaps the record's display order with the nearest record
// ranked below it. Moving the last-ranked record is a no-op, not an error.
func (s *service) MoveTestimonialDown(ctx context.Context, id uuid.UUID) error {
	return s.moveTestimonial(ctx, id, func(target, other *Testimonial, best *Testimonial) bool {
		if other.DisplayOrder <= target.DisplayOrder {
			return false
		}
		return best == nil || other.DisplayOrder < best.DisplayOrder
	})
}

// moveTestimonial scans all testimonials in ascending display order, picks the
// swap partner via the supplied candidate rule, and delegates the atomic
// two-record swap to the repository.
func (s *service) moveTestimonial(ctx context.Context, id uuid.UUID, better func(target, other, best *Testimonial) bool) error {
	items, err := s.repository.ListTestimonials(ctx, TestimonialFilter{
		Publish: PublishAny,
		SortBy:  TestimonialSortDisplayOrderAsc,
	})
	if err != nil {
		return err
	}

	var target *Testimonial
	for _, t := range items {
		if t.ID == id {
			target = t
			break
		}
	}
	if target == nil {
		return &RecordError{RecordID: id, Op: "move", Err: ErrTestimonialNotFound}
	}

	var partner *Testimonial
	for _, t := range items {
		if t.ID == target.ID {
			continue
		}
		if better(target, t, partner) {
			partner = t
		}
	}
	if partner == nil {
		// Already at the boundary
		return nil
	}

	return s.repository.SwapTestimonialOrder(ctx, target.ID, partner.ID)
}

// ReorderTestimonials compacts all display orders into a contiguous 1..N
// sequence. It is never invoked implicitly by the move operations.
func (s *service) ReorderTestimonials(ctx context.Context) error {
	return s.repository.ReorderTestimonials(ctx)
}
