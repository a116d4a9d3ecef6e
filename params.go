package switchback

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// ParamTag is the struct tag Params.Decode reads field names from.
const ParamTag = "param"

var (
	paramDecoder   = newParamDecoder()
	paramValidator = v10.New()
)

// Params is an ordered mapping of request parameters.
// Keys keep the position they were first set at;
// setting an existing key replaces its value in place.
//
// The zero value is ready to use.
type Params struct {
	keys []string
	vals map[string]string
}

// ParamsFromValues builds Params from vals, keeping the first value set for each key.
// Keys are added in sorted order since [url.Values] does not preserve any.
func ParamsFromValues(vals url.Values) Params {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var p Params
	for _, k := range keys {
		if len(vals[k]) == 0 {
			continue
		}
		p.Set(k, vals[k][0])
	}

	return p
}

// ParseQuery builds Params from a raw query string, such as a URL's RawQuery or a form encoded body,
// keeping keys in the order the client sent them and the first value sent for each.
//
// Like [url.ParseQuery], ParseQuery keeps every pair it can decode
// and returns an error wrapping ErrBadFormat for the first it cannot.
func ParseQuery(raw string) (Params, error) {
	var (
		p        Params
		firstErr error
	)

	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}

		if strings.Contains(pair, ";") {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: invalid semicolon separator in query", ErrBadFormat)
			}
			continue
		}

		key, val, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err == nil {
			val, err = url.QueryUnescape(val)
		}

		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s", ErrBadFormat, err)
			}
			continue
		}

		if _, ok := p.vals[key]; !ok {
			p.Set(key, val)
		}
	}

	return p, firstErr
}

// Set assigns val to key, overwriting any prior value.
func (p *Params) Set(key, val string) {
	if p.vals == nil {
		p.vals = make(map[string]string)
	}

	if _, ok := p.vals[key]; !ok {
		p.keys = append(p.keys, key)
	}

	p.vals[key] = val
}

// Get returns the value for key or the empty string.
func (p Params) Get(key string) string { return p.vals[key] }

// Lookup returns the value for key and whether key is set.
func (p Params) Lookup(key string) (string, bool) {
	val, ok := p.vals[key]
	return val, ok
}

// Keys returns the set keys in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Len returns the number of keys set.
func (p Params) Len() int { return len(p.keys) }

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	var c Params
	for _, k := range p.keys {
		c.Set(k, p.vals[k])
	}

	return c
}

// Merge sets every key in other onto p, in other's order.
// Values in other win on collisions.
func (p *Params) Merge(other Params) {
	for _, k := range other.keys {
		p.Set(k, other.vals[k])
	}
}

// Map copies p into a plain map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p.vals))
	for k, v := range p.vals {
		m[k] = v
	}

	return m
}

// Values converts p into [url.Values].
func (p Params) Values() url.Values {
	vals := make(url.Values, len(p.vals))
	for k, v := range p.vals {
		vals.Set(k, v)
	}

	return vals
}

// String renders p as key=value pairs in order.
func (p Params) String() string {
	pairs := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		pairs = append(pairs, k+"="+p.vals[k])
	}

	return "{" + strings.Join(pairs, " ") + "}"
}

// Decode copies p into the struct structPtr points at, matching keys against `param` struct tags,
// and then validates the struct against its `validate` struct tags.
//
// Decode returns an error wrapping ErrNotValid if either step fails.
func (p Params) Decode(structPtr any) error {
	if err := paramDecoder.Decode(structPtr, p.Values()); err != nil {
		return fmt.Errorf("%w: failed decoding params: %s", ErrNotValid, err)
	}

	err := paramValidator.Struct(structPtr)
	var invalid *v10.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: Decode called with %T: %s", ErrUnexpected, structPtr, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %T failed validation: %s", ErrNotValid, structPtr, err)
	}

	return nil
}

func newParamDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	dec.SetAliasTag(ParamTag)

	return dec
}
