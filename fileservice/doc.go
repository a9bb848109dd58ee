// Package fileservice is the client for the file service: creating and
// deleting shares, enumerating them in segments, and reading the
// account's geo-replication statistics.
//
// The file service speaks XML. Listings return one page per call with
// the continuation marker inside the body's NextMarker element:
//
//	client, err := fileservice.NewClient(fileservice.Config{Account: acct})
//	if err != nil {
//		return err
//	}
//	segment, err := client.ListSegment(ctx, fileservice.ListQuery{Prefix: "backup"}, nil)
//
// GetServiceStats is the package's secondary-only read: it reports how
// far replication to the read-access secondary has progressed, and
// fails before any request is sent when the account has no secondary.
package fileservice
