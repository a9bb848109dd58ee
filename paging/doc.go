// Package paging implements segmented listings: opaque continuation
// cursors, typed result segments, and helpers that walk an enumeration to
// completion.
//
// A cursor is minted by a listing operation when the service reports more
// results, and is tagged with the enumeration kind that produced it.
// Resuming with a cursor of the wrong kind fails with a validation error
// before any request is issued. A nil cursor always means the enumeration
// is complete.
//
// Cursors also record which replica served their page. PinnedMode turns
// that into a location mode so a resumed enumeration keeps reading from a
// consistent replica.
//
// Walking every page by hand:
//
//	var cursor *paging.Cursor
//	for {
//		segment, err := client.ListSegment(ctx, prefix, cursor)
//		if err != nil {
//			return err
//		}
//		handle(segment.Items)
//		if segment.Done() {
//			return nil
//		}
//		cursor = segment.Cursor
//	}
//
// ForEach and Collect wrap that loop.
package paging
