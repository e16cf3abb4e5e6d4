package discovery

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muurk/hapscan/internal/hap"
)

// DefaultProtocolVersion is reported when an accessory omits the "pv" key.
const DefaultProtocolVersion = "1.0"

// TXT record keys of a _hap._tcp advertisement.
const (
	KeyConfigNumber    = "c#"
	KeyFeatureFlags    = "ff"
	KeyDeviceID        = "id"
	KeyModel           = "md"
	KeyProtocolVersion = "pv"
	KeyStateNumber     = "s#"
	KeyStatusFlags     = "sf"
	KeyCategory        = "ci"
)

// Properties is a decoded TXT record.
type Properties map[string]string

// DecodeProperties converts a raw TXT payload to text. Every key and value
// must be valid UTF-8.
func DecodeProperties(payload map[string][]byte) (Properties, error) {
	out := make(Properties, len(payload))
	for k, v := range payload {
		if !utf8.ValidString(k) {
			return nil, NewDecodingError(k, "key")
		}
		if !utf8.Valid(v) {
			return nil, NewDecodingError(k, "value")
		}
		out[k] = string(v)
	}
	return out, nil
}

// DecodeTXT splits DNS-SD "key=value" strings into a raw TXT payload.
// Only the first '=' separates; a string without one is a key with an empty
// value.
func DecodeTXT(txt []string) map[string][]byte {
	out := make(map[string][]byte, len(txt))
	for _, s := range txt {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			out[parts[0]] = []byte(parts[1])
		} else {
			out[parts[0]] = []byte{}
		}
	}
	return out
}

// Lookup returns the value stored under key. With caseSensitive false, keys
// are compared lowercased; if the record carries the same key in two casings
// either value may be returned.
func (p Properties) Lookup(key string, caseSensitive bool) (string, bool) {
	if caseSensitive {
		v, ok := p[key]
		return v, ok
	}

	lowered := make(map[string]string, len(p))
	for k, v := range p {
		lowered[strings.ToLower(k)] = v
	}
	v, ok := lowered[strings.ToLower(key)]
	return v, ok
}

// LookupDefault is Lookup with a fallback for absent keys. An empty def
// means no default.
func (p Properties) LookupDefault(key, def string, caseSensitive bool) string {
	if v, ok := p.Lookup(key, caseSensitive); ok {
		return v
	}
	return def
}

// Classifier maps TXT record integers onto their HAP tables.
type Classifier interface {
	Category(v int) (hap.Category, error)
	StatusFlags(v int) (hap.StatusFlags, error)
	FeatureFlags(v int) (hap.FeatureFlags, error)
}

// Codec turns TXT records into Records. The zero value classifies with
// hap.Classifier.
type Codec struct {
	Classifier Classifier
}

func (c Codec) classifier() Classifier {
	if c.Classifier == nil {
		return hap.Classifier{}
	}
	return c.Classifier
}

// NormalizeProperties normalizes a decoded TXT record with the default tables.
// Use it when the advertisement was discovered by some other transport.
func NormalizeProperties(props Properties) (*Record, error) {
	return Codec{}.Normalize(props)
}

// Normalize parses the HAP fields of a decoded TXT record. Keys match
// case-insensitively and empty values count as absent. The returned record
// carries no name or address; completeness is left to the caller.
func (c Codec) Normalize(props Properties) (*Record, error) {
	cl := c.classifier()
	get := func(key string) string {
		return props.LookupDefault(key, "", false)
	}

	r := &Record{
		ConfigNumber:    get(KeyConfigNumber),
		ID:              get(KeyDeviceID),
		Model:           get(KeyModel),
		ProtocolVersion: props.LookupDefault(KeyProtocolVersion, DefaultProtocolVersion, false),
		StateNumber:     get(KeyStateNumber),
	}
	if r.ProtocolVersion == "" {
		r.ProtocolVersion = DefaultProtocolVersion
	}

	if v := get(KeyFeatureFlags); v != "" {
		n, err := parseInt(KeyFeatureFlags, v)
		if err != nil {
			return nil, err
		}
		r.FeatureFlagsValue = n
	}
	flags, err := cl.FeatureFlags(r.FeatureFlagsValue)
	if err != nil {
		return nil, NewUnknownEnumError(KeyFeatureFlags, err)
	}
	r.FeatureFlags = flags

	if v := get(KeyStatusFlags); v != "" {
		n, err := parseInt(KeyStatusFlags, v)
		if err != nil {
			return nil, err
		}
		sf, err := cl.StatusFlags(n)
		if err != nil {
			return nil, NewUnknownEnumError(KeyStatusFlags, err)
		}
		r.StatusFlagsValue = v
		r.StatusFlags = &sf
	}

	if v := get(KeyCategory); v != "" {
		n, err := parseInt(KeyCategory, v)
		if err != nil {
			return nil, err
		}
		cat, err := cl.Category(n)
		if err != nil {
			return nil, NewUnknownEnumError(KeyCategory, err)
		}
		r.CategoryValue = v
		r.Category = &cat
	}

	return r, nil
}

// Record decodes and normalizes an announcement and fills in its name,
// address and port.
func (c Codec) Record(info *ServiceInfo) (*Record, error) {
	props, err := DecodeProperties(info.Properties)
	if err != nil {
		return nil, err
	}

	r, err := c.Normalize(props)
	if err != nil {
		return nil, err
	}

	r.Name = info.Name
	r.Address = info.Address()
	r.Port = info.Port
	return r, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, NewParseError(key, value, err)
	}
	return n, nil
}
