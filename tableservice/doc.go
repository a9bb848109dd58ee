// Package tableservice is the client for the table service: creating and
// deleting tables, and enumerating them in segments.
//
// The table service speaks JSON. Listings return one page per call and a
// continuation cursor when more tables remain:
//
//	client, err := tableservice.NewClient(tableservice.Config{Account: acct})
//	if err != nil {
//		return err
//	}
//	segment, err := client.ListSegment(ctx, tableservice.ListQuery{Prefix: "dev"}, nil)
//
// List follows cursors to completion; Lister adapts a query into a
// paging.Lister for ForEach-style streaming. Every method accepts
// pipeline call options for per-call request options and an
// OperationContext:
//
//	err = client.Create(ctx, "events",
//		pipeline.WithOptions(&options.RequestOptions{
//			ServerTimeout: options.Value(30 * time.Second),
//		}))
package tableservice
