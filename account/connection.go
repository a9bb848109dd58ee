package account

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"

	storerrors "github.com/jonwraymond/storops/errors"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// connectionSettings is the decoded form of a connection string. Keys are
// matched case-insensitively because the raw map is lowercased before the
// decode.
type connectionSettings struct {
	DefaultEndpointsProtocol string `mapstructure:"defaultendpointsprotocol"`
	AccountName              string `mapstructure:"accountname"`
	AccountKey               string `mapstructure:"accountkey"`
	EndpointSuffix           string `mapstructure:"endpointsuffix"`
	TableEndpoint            string `mapstructure:"tableendpoint"`
	TableSecondaryEndpoint   string `mapstructure:"tablesecondaryendpoint"`
	FileEndpoint             string `mapstructure:"fileendpoint"`
	FileSecondaryEndpoint    string `mapstructure:"filesecondaryendpoint"`
	UseDevelopmentStorage    bool   `mapstructure:"usedevelopmentstorage"`
}

func (s connectionSettings) validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.AccountName,
			validation.Required,
			validation.Match(accountNamePattern).Error("must be 3-24 lowercase letters and digits")),
		validation.Field(&s.DefaultEndpointsProtocol, validation.In("http", "https")),
		validation.Field(&s.TableSecondaryEndpoint,
			validation.When(s.TableEndpoint == "", validation.Empty.Error("requires TableEndpoint"))),
		validation.Field(&s.FileSecondaryEndpoint,
			validation.When(s.FileEndpoint == "", validation.Empty.Error("requires FileEndpoint"))),
	)
}

// ParseConnectionString builds an Account from a semicolon-separated
// Key=Value connection string, for example:
//
//	AccountName=myaccount;AccountKey=${STOROPS_KEY};EndpointSuffix=stor.cloudapi.net
//
// Recognized keys, case-insensitive: AccountName, AccountKey,
// DefaultEndpointsProtocol, EndpointSuffix, TableEndpoint,
// TableSecondaryEndpoint, FileEndpoint, FileSecondaryEndpoint,
// UseDevelopmentStorage. Unknown keys are rejected.
//
// Values may reference environment variables as ${VAR}; a referenced
// variable missing from the environment is an error, and $$ emits a
// literal dollar sign. Explicit endpoints override the ones derived from
// the account name; a secondary endpoint is only derived for fully
// derived services.
func ParseConnectionString(connection string) (*Account, error) {
	expanded, err := expandEnv(connection)
	if err != nil {
		return nil, storerrors.NewConfigurationError("connection string", err.Error())
	}

	raw, err := splitConnection(expanded)
	if err != nil {
		return nil, err
	}

	var s connectionSettings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("account: building connection decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, storerrors.NewConfigurationError("connection string", err.Error())
	}

	if s.UseDevelopmentStorage {
		return NewDevelopment(), nil
	}
	if err := s.validate(); err != nil {
		return nil, storerrors.NewConfigurationError("connection string", err.Error())
	}
	return buildAccount(s)
}

// splitConnection breaks Key=Value;Key=Value into a lowercase-keyed map.
// Values keep their case; base64 keys and URLs are case-sensitive.
func splitConnection(connection string) (map[string]string, error) {
	raw := make(map[string]string)
	for _, segment := range strings.Split(connection, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		key, value, found := strings.Cut(segment, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !found || key == "" {
			return nil, storerrors.NewConfigurationError("connection string",
				fmt.Sprintf("segment %q is not Key=Value", segment))
		}
		if _, dup := raw[key]; dup {
			return nil, storerrors.NewConfigurationError("connection string",
				fmt.Sprintf("duplicate key %q", key))
		}
		raw[key] = value
	}
	if len(raw) == 0 {
		return nil, storerrors.NewConfigurationError("connection string", "must not be empty")
	}
	return raw, nil
}

func buildAccount(s connectionSettings) (*Account, error) {
	cfg := Config{
		Name:           s.AccountName,
		Key:            s.AccountKey,
		EndpointSuffix: s.EndpointSuffix,
		Protocol:       s.DefaultEndpointsProtocol,
	}
	acct, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if s.TableEndpoint != "" {
		acct.tableUri, err = explicitUri(s.TableEndpoint, s.TableSecondaryEndpoint)
		if err != nil {
			return nil, err
		}
	}
	if s.FileEndpoint != "" {
		acct.fileUri, err = explicitUri(s.FileEndpoint, s.FileSecondaryEndpoint)
		if err != nil {
			return nil, err
		}
	}
	return acct, nil
}

func explicitUri(primary, secondary string) (StorageUri, error) {
	if secondary != "" {
		return NewStorageUriWithSecondary(primary, secondary)
	}
	return NewStorageUri(primary)
}

// expandEnv expands ${VAR} references in s.
//
// Semantics:
//   - ${VAR} is replaced with the variable's value.
//   - A referenced variable missing from the environment is an error.
//   - $$ emits a literal $ (escape hatch).
func expandEnv(s string) (string, error) {
	const dollarSentinel = "\x00STOROPS_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	expanded := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := envVarPattern.FindStringSubmatch(match)[1]
		value, ok := os.LookupEnv(key)
		if !ok {
			missing[key] = struct{}{}
			return match
		}
		return value
	})
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(keys, ", "))
	}

	return strings.ReplaceAll(expanded, dollarSentinel, "$"), nil
}
