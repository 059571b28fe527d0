package claims

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/internal/utils"
)

var FlagNotFoundErr = errors.New("feature flag not found")

// FlagType is the declared type of a feature flag value.
type FlagType string

const (
	FlagTypeString  FlagType = "string"
	FlagTypeBoolean FlagType = "boolean"
	FlagTypeInteger FlagType = "integer"
	FlagTypeUnknown FlagType = "unknown"
)

// flag claims encode the type as a single letter alongside the value:
// {"t": "s", "v": "pink"}.
var flagTypeCodes = map[string]FlagType{
	"s": FlagTypeString,
	"b": FlagTypeBoolean,
	"i": FlagTypeInteger,
}

// Flag is one evaluated feature flag. IsDefault marks a value that came
// from the caller's default rather than the claim set.
type Flag struct {
	Key       string
	Value     any
	Type      FlagType
	IsDefault bool
}

// FeatureFlags reads the subject's evaluated feature flags.
type FeatureFlags struct {
	accessor
}

// GetFlag evaluates a single flag. A missing flag fails with
// FlagNotFoundErr unless the call carries WithDefaultValue; the session
// must be authenticated either way.
func (f *FeatureFlags) GetFlag(ctx context.Context, key string, options ...QueryOption) *dispatch.Future[Flag] {
	q := buildQuery(options)
	return dispatch.Async(func() (Flag, error) {
		flagSet, err := f.resolveFlags(ctx, q)
		if err != nil {
			return Flag{}, err
		}
		entry, ok := flagSet[key].(map[string]any)
		if !ok {
			if q.hasDefault {
				return Flag{Key: key, Value: q.defaultValue, Type: flagTypeOf(q.defaultValue), IsDefault: true}, nil
			}
			return Flag{}, errors.Wrapf(FlagNotFoundErr, "[FeatureFlags.GetFlag] %q", key)
		}
		return decodeFlag(key, entry), nil
	})
}

// GetAllFlags returns every flag in the claim set, sorted by key.
func (f *FeatureFlags) GetAllFlags(ctx context.Context, options ...QueryOption) *dispatch.Future[[]Flag] {
	q := buildQuery(options)
	return dispatch.Async(func() ([]Flag, error) {
		flagSet, err := f.resolveFlags(ctx, q)
		if err != nil {
			return nil, err
		}
		flags := make([]Flag, 0, len(flagSet))
		for key, raw := range flagSet {
			if entry, ok := raw.(map[string]any); ok {
				flags = append(flags, decodeFlag(key, entry))
			}
		}
		sort.Slice(flags, func(i, j int) bool { return flags[i].Key < flags[j].Key })
		return flags, nil
	})
}

func (f *FeatureFlags) resolveFlags(ctx context.Context, q query) (map[string]any, error) {
	if q.forceAPI {
		session, err := f.currentSession()
		if err != nil {
			return nil, err
		}
		if f.source == nil {
			return nil, errors.New("[FeatureFlags.resolveFlags] force api requested but no source configured")
		}
		flagSet, err := f.source.EvaluateFlags(ctx, session.AccessToken)
		if err != nil {
			return nil, errors.Wrap(err, "[FeatureFlags.resolveFlags] source.EvaluateFlags")
		}
		return flagSet, nil
	}

	claimSet, err := f.resolveClaims(ctx, q)
	if err != nil {
		return nil, err
	}
	flagSet, _ := claimSet[featureFlagClaim].(map[string]any)
	return flagSet, nil
}

func decodeFlag(key string, entry map[string]any) Flag {
	flagType, ok := flagTypeCodes[utils.String(entry, "t")]
	if !ok {
		flagType = FlagTypeUnknown
	}
	value := entry["v"]
	// JSON numbers decode as float64; integer flags come back as int.
	if flagType == FlagTypeInteger {
		if f64, ok := value.(float64); ok {
			value = int(f64)
		}
	}
	return Flag{Key: key, Value: value, Type: flagType}
}

func flagTypeOf(value any) FlagType {
	switch value.(type) {
	case string:
		return FlagTypeString
	case bool:
		return FlagTypeBoolean
	case int, int64, float64:
		return FlagTypeInteger
	}
	return FlagTypeUnknown
}
