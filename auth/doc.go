// Package auth signs storage requests.
//
// Three schemes are supported. SharedKey signs the full canonical string
// covering the verb, the standard header list, every x-stor-* header, and
// every query parameter. SharedKeyLite signs a reduced string covering
// Content-MD5, Content-Type, the date, the x-stor-* headers, and only the
// comp query parameter. Bearer attaches an OAuth2 token instead of a
// computed signature.
//
// Signing happens after a request is fully built and before it is sent:
//
//	signer := auth.NewSharedKeySigner(credential)
//	if err := signer.Sign(req); err != nil {
//		return err
//	}
//	// req now carries: Authorization: SharedKey <account>:<signature>
//
// Signers are deterministic and never mutate credentials, so one signer
// serves any number of concurrent operations.
package auth
