package account

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	storerrors "github.com/jonwraymond/storops/errors"
)

const (
	// DefaultEndpointSuffix is the DNS suffix production endpoints are
	// derived from when no explicit endpoint is configured.
	DefaultEndpointSuffix = "stor.cloudapi.net"

	// DevelopmentAccountName and DevelopmentAccountKey are the well-known
	// credentials of the local storage emulator.
	DevelopmentAccountName = "devaccount1"
	DevelopmentAccountKey  = "c3Rvcm9wcyBsb2NhbCBkZXZlbG9wbWVudCBlbXVsYXRvciBzaGFyZWQga2V5IG1hdGVyaWFsIDAwMDE="

	developmentTableEndpoint = "http://127.0.0.1:11002/" + DevelopmentAccountName
	developmentFileEndpoint  = "http://127.0.0.1:11003/" + DevelopmentAccountName
)

var accountNamePattern = regexp.MustCompile(`^[a-z0-9]{3,24}$`)

// SharedKeyCredential holds an account name and its decoded shared key.
//
// Contract:
//   - Immutability: never mutated after construction; signing never mutates
//     the credential.
//   - Concurrency: safe for concurrent use.
type SharedKeyCredential struct {
	accountName string
	key         []byte
}

// NewSharedKeyCredential validates the account name and decodes the
// base64-encoded shared key.
func NewSharedKeyCredential(accountName, accountKey string) (*SharedKeyCredential, error) {
	if err := validateAccountName(accountName); err != nil {
		return nil, err
	}
	key, err := base64.StdEncoding.DecodeString(accountKey)
	if err != nil {
		return nil, storerrors.NewConfigurationError("AccountKey", "must be valid base64")
	}
	if len(key) == 0 {
		return nil, storerrors.NewConfigurationError("AccountKey", "must not be empty")
	}
	return &SharedKeyCredential{accountName: accountName, key: key}, nil
}

// AccountName returns the account the key belongs to.
func (c *SharedKeyCredential) AccountName() string {
	return c.accountName
}

// ComputeHMACSHA256 signs message with the decoded key and returns the
// base64-encoded signature.
func (c *SharedKeyCredential) ComputeHMACSHA256(message string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func validateAccountName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Match(accountNamePattern).Error("must be 3-24 lowercase letters and digits"),
	)
	if err != nil {
		return storerrors.NewConfigurationError("AccountName", err.Error())
	}
	return nil
}

// Config configures New.
type Config struct {
	// Name is the storage account name: 3-24 lowercase letters and digits.
	Name string

	// Key is the base64-encoded shared key. Empty builds an anonymous
	// account that can only issue unsigned requests.
	Key string

	// EndpointSuffix is the DNS suffix endpoints are derived from.
	// Default: stor.cloudapi.net
	EndpointSuffix string

	// Protocol is the endpoint scheme, http or https.
	// Default: https
	Protocol string

	// DisableSecondary omits the derived read-access secondary endpoints,
	// for accounts without geo-replication.
	DisableSecondary bool
}

// Account aggregates a storage account's credential with its per-service
// endpoint pairs. Accounts are immutable once constructed.
type Account struct {
	name       string
	credential *SharedKeyCredential
	tableUri   StorageUri
	fileUri    StorageUri
}

// New builds an Account with endpoints derived from the account name: the
// primary at <name>.<service>.<suffix> and, unless disabled, the read-access
// secondary at <name>-secondary.<service>.<suffix>.
func New(cfg Config) (*Account, error) {
	if err := validateAccountName(cfg.Name); err != nil {
		return nil, err
	}
	if cfg.EndpointSuffix == "" {
		cfg.EndpointSuffix = DefaultEndpointSuffix
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "https"
	}
	if cfg.Protocol != "http" && cfg.Protocol != "https" {
		return nil, storerrors.NewConfigurationError("Protocol", "must be http or https")
	}

	var cred *SharedKeyCredential
	if cfg.Key != "" {
		var err error
		cred, err = NewSharedKeyCredential(cfg.Name, cfg.Key)
		if err != nil {
			return nil, err
		}
	}

	tableUri, err := deriveUri(cfg, "table")
	if err != nil {
		return nil, err
	}
	fileUri, err := deriveUri(cfg, "file")
	if err != nil {
		return nil, err
	}

	return &Account{
		name:       cfg.Name,
		credential: cred,
		tableUri:   tableUri,
		fileUri:    fileUri,
	}, nil
}

func deriveUri(cfg Config, service string) (StorageUri, error) {
	primary := fmt.Sprintf("%s://%s.%s.%s", cfg.Protocol, cfg.Name, service, cfg.EndpointSuffix)
	if cfg.DisableSecondary {
		return NewStorageUri(primary)
	}
	secondary := fmt.Sprintf("%s://%s-secondary.%s.%s", cfg.Protocol, cfg.Name, service, cfg.EndpointSuffix)
	return NewStorageUriWithSecondary(primary, secondary)
}

// NewDevelopment returns the account for the local storage emulator. The
// emulator serves a primary endpoint only.
func NewDevelopment() *Account {
	cred, err := NewSharedKeyCredential(DevelopmentAccountName, DevelopmentAccountKey)
	if err != nil {
		panic("account: development credential is invalid: " + err.Error())
	}
	tableUri, err := NewStorageUri(developmentTableEndpoint)
	if err != nil {
		panic("account: development table endpoint is invalid: " + err.Error())
	}
	fileUri, err := NewStorageUri(developmentFileEndpoint)
	if err != nil {
		panic("account: development file endpoint is invalid: " + err.Error())
	}
	return &Account{
		name:       DevelopmentAccountName,
		credential: cred,
		tableUri:   tableUri,
		fileUri:    fileUri,
	}
}

// Name returns the account name.
func (a *Account) Name() string {
	return a.name
}

// Credential returns the shared key credential, or nil for an anonymous
// account.
func (a *Account) Credential() *SharedKeyCredential {
	return a.credential
}

// IsAnonymous reports whether the account carries no key material.
func (a *Account) IsAnonymous() bool {
	return a.credential == nil
}

// TableUri returns the table service endpoint pair.
func (a *Account) TableUri() StorageUri {
	return a.tableUri
}

// FileUri returns the file service endpoint pair.
func (a *Account) FileUri() StorageUri {
	return a.fileUri
}
