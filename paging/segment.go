package paging

import "context"

// Query parameter names of the listing contract.
const (
	// ParamMarker carries the continuation marker from a prior cursor.
	ParamMarker = "marker"

	// ParamMaxResults is an upper bound on the page size, not a
	// guarantee: the service may return fewer items and still continue.
	ParamMaxResults = "maxresults"

	// ParamPrefix filters names by exact, case-sensitive prefix match.
	ParamPrefix = "prefix"
)

// Segment is one page of a segmented listing.
type Segment[T any] struct {
	// Items holds the page contents. May be shorter than the requested
	// maximum even when more pages follow.
	Items []T

	// Cursor resumes the enumeration after this page. Nil means the
	// enumeration is complete.
	Cursor *Cursor
}

// Done reports whether this was the final page.
func (s Segment[T]) Done() bool { return s.Cursor == nil }

// Lister fetches pages of one enumeration kind. Implementations must
// reject cursors minted by a different kind before issuing any request.
type Lister[T any] interface {
	// ListSegment fetches the page after cursor. A nil cursor fetches
	// the first page.
	ListSegment(ctx context.Context, cursor *Cursor) (Segment[T], error)
}

// ListFunc is an adapter to allow ordinary functions to be used as
// Listers.
type ListFunc[T any] func(ctx context.Context, cursor *Cursor) (Segment[T], error)

// ListSegment fetches one page by calling f.
func (f ListFunc[T]) ListSegment(ctx context.Context, cursor *Cursor) (Segment[T], error) {
	return f(ctx, cursor)
}

// ForEach walks a segmented enumeration to completion, calling fn for
// every item in order. It stops at the first error from the lister or
// from fn.
func ForEach[T any](ctx context.Context, list Lister[T], fn func(T) error) error {
	var cursor *Cursor
	for {
		segment, err := list.ListSegment(ctx, cursor)
		if err != nil {
			return err
		}
		for _, item := range segment.Items {
			if err := fn(item); err != nil {
				return err
			}
		}
		if segment.Done() {
			return nil
		}
		cursor = segment.Cursor
	}
}

// Collect gathers every item of a segmented enumeration into one slice.
func Collect[T any](ctx context.Context, list Lister[T]) ([]T, error) {
	var items []T
	err := ForEach(ctx, list, func(item T) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
