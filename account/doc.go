// Package account models storage accounts: the shared key credential, the
// per-service endpoint pairs, and the connection-string format that binds
// them together.
//
// # Endpoints
//
// Every service exposes a primary endpoint and, for geo-replicated
// accounts, a read-access secondary. New derives both from the account
// name:
//
//	acct, err := account.New(account.Config{Name: "myaccount", Key: key})
//	// table primary:   https://myaccount.table.stor.cloudapi.net
//	// table secondary: https://myaccount-secondary.table.stor.cloudapi.net
//
// A StorageUri's Capabilities feed the options resolver, which rejects
// location modes the account cannot serve before any request is built.
//
// # Connection strings
//
// ParseConnectionString accepts the usual Key=Value;... form, expands
// ${VAR} environment references, and validates the result:
//
//	acct, err := account.ParseConnectionString(
//		"AccountName=myaccount;AccountKey=${STOROPS_KEY}")
//
// UseDevelopmentStorage=true short-circuits to the local emulator account
// returned by NewDevelopment.
package account
