package discovery

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/hapscan/internal/hap"
)

func TestDecodeProperties(t *testing.T) {
	props, err := DecodeProperties(map[string][]byte{
		"c#": []byte("1"),
		"md": []byte("Foo"),
		"id": []byte("AA:BB"),
	})
	require.NoError(t, err)
	assert.Equal(t, Properties{"c#": "1", "md": "Foo", "id": "AA:BB"}, props)
}

func TestDecodeProperties_Empty(t *testing.T) {
	props, err := DecodeProperties(map[string][]byte{})
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestDecodeProperties_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string][]byte
		wantKey string
	}{
		{
			name:    "invalid value",
			payload: map[string][]byte{"md": {0xff, 0xfe}},
			wantKey: "md",
		},
		{
			name:    "invalid key",
			payload: map[string][]byte{string([]byte{0xc3, 0x28}): []byte("x")},
			wantKey: string([]byte{0xc3, 0x28}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := DecodeProperties(tt.payload)
			require.Error(t, err)
			assert.Nil(t, props)
			assert.True(t, IsDecodingError(err))

			var de *DiscoveryError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.wantKey, de.Key)
		})
	}
}

func TestDecodeTXT(t *testing.T) {
	got := DecodeTXT([]string{"c#=2", "md=Eve=Energy", "flag", "empty="})

	assert.Equal(t, []byte("2"), got["c#"])
	assert.Equal(t, []byte("Eve=Energy"), got["md"], "only the first '=' separates")
	assert.Equal(t, []byte{}, got["flag"])
	assert.Equal(t, []byte{}, got["empty"])
	assert.Len(t, got, 4)
}

func TestProperties_Lookup(t *testing.T) {
	props := Properties{"MD": "Foo", "c#": "3"}

	tests := []struct {
		name          string
		key           string
		caseSensitive bool
		wantValue     string
		wantOK        bool
	}{
		{"insensitive match", "md", false, "Foo", true},
		{"insensitive exact", "MD", false, "Foo", true},
		{"sensitive miss", "md", true, "", false},
		{"sensitive hit", "MD", true, "Foo", true},
		{"missing", "id", false, "", false},
		{"non-letter key", "C#", false, "3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := props.Lookup(tt.key, tt.caseSensitive)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestProperties_LookupDefault(t *testing.T) {
	props := Properties{"pv": "1.1"}

	assert.Equal(t, "1.1", props.LookupDefault("PV", "1.0", false))
	assert.Equal(t, "1.0", props.LookupDefault("xx", "1.0", false))
	assert.Equal(t, "", props.LookupDefault("xx", "", false))
	assert.Equal(t, "1.0", props.LookupDefault("PV", "1.0", true))
}

func TestNormalizeProperties_Minimal(t *testing.T) {
	r, err := NormalizeProperties(Properties{"c#": "1", "md": "Foo", "ff": "0"})
	require.NoError(t, err)

	assert.Equal(t, "1", r.ConfigNumber)
	assert.Equal(t, "Foo", r.Model)
	assert.Equal(t, 0, r.FeatureFlagsValue)
	assert.Equal(t, hap.FeatureFlags(0), r.FeatureFlags)
	assert.Equal(t, "1.0", r.ProtocolVersion)
	assert.Nil(t, r.StatusFlags)
	assert.Nil(t, r.Category)
	assert.Empty(t, r.ID)
	assert.Empty(t, r.StateNumber)

	fields := r.Fields()
	assert.NotContains(t, fields, "ci")
	assert.NotContains(t, fields, "category")
	assert.NotContains(t, fields, "sf")
	assert.NotContains(t, fields, "statusflags")
	assert.NotContains(t, fields, "id")
}

func TestNormalizeProperties_Full(t *testing.T) {
	r, err := NormalizeProperties(Properties{
		"c#": "7",
		"ff": "1",
		"id": "AA:BB:CC:DD:EE:FF",
		"md": "Eve Energy",
		"pv": "1.1",
		"s#": "4",
		"sf": "1",
		"ci": "7",
	})
	require.NoError(t, err)

	assert.Equal(t, "AA:BB:CC:DD:EE:FF", r.ID)
	assert.Equal(t, "1.1", r.ProtocolVersion)
	assert.Equal(t, "4", r.StateNumber)
	assert.Equal(t, 1, r.FeatureFlagsValue)
	assert.True(t, r.FeatureFlags.Has(hap.SupportsAppleAuthenticationCoprocessor))

	require.NotNil(t, r.StatusFlags)
	assert.Equal(t, "1", r.StatusFlagsValue)
	assert.True(t, r.StatusFlags.Has(hap.StatusUnpaired))

	require.NotNil(t, r.Category)
	assert.Equal(t, "7", r.CategoryValue)
	assert.Equal(t, hap.CategoryOutlet, *r.Category)
}

func TestNormalizeProperties_CaseInsensitiveKeys(t *testing.T) {
	r, err := NormalizeProperties(Properties{"C#": "2", "MD": "Bridge", "CI": "2", "SF": "0"})
	require.NoError(t, err)

	assert.Equal(t, "2", r.ConfigNumber)
	assert.Equal(t, "Bridge", r.Model)
	require.NotNil(t, r.Category)
	assert.Equal(t, hap.CategoryBridge, *r.Category)
	require.NotNil(t, r.StatusFlags)
	assert.Equal(t, "Paired", r.PairingStatus())
}

func TestNormalizeProperties_EmptyValuesAreAbsent(t *testing.T) {
	r, err := NormalizeProperties(Properties{"c#": "1", "md": "Foo", "pv": "", "sf": "", "ci": "", "ff": ""})
	require.NoError(t, err)

	assert.Equal(t, DefaultProtocolVersion, r.ProtocolVersion)
	assert.Equal(t, 0, r.FeatureFlagsValue)
	assert.Nil(t, r.StatusFlags)
	assert.Nil(t, r.Category)
}

func TestNormalizeProperties_ParseErrors(t *testing.T) {
	for _, key := range []string{"ff", "sf", "ci"} {
		t.Run(key, func(t *testing.T) {
			_, err := NormalizeProperties(Properties{"c#": "1", "md": "Foo", key: "abc"})
			require.Error(t, err)
			assert.True(t, IsParseError(err))

			var de *DiscoveryError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, key, de.Key)
		})
	}
}

func TestNormalizeProperties_UndefinedFeatureBitsKept(t *testing.T) {
	r, err := NormalizeProperties(Properties{"c#": "1", "md": "Lamp", "ff": "10"})
	require.NoError(t, err)
	assert.Equal(t, 10, r.FeatureFlagsValue)
	assert.True(t, r.FeatureFlags.Has(hap.SupportsSoftwareAuthentication))
	assert.Equal(t, hap.FeatureFlags(8), r.FeatureFlags.Unknown())
	assert.Equal(t, "SupportsSoftwareAuthentication|0x8", r.FeatureFlags.String())
}

func TestNormalizeProperties_UnknownEnum(t *testing.T) {
	tests := []struct {
		name  string
		props Properties
	}{
		{"undefined category", Properties{"ci": "99"}},
		{"undefined status bit", Properties{"sf": "64"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeProperties(tt.props)
			require.Error(t, err)
			assert.True(t, IsUnknownEnumError(err))
			assert.ErrorIs(t, err, hap.ErrUnknownValue)
		})
	}
}

type stubClassifier struct {
	hap.Classifier
	categoryErr error
}

func (s stubClassifier) Category(v int) (hap.Category, error) {
	if s.categoryErr != nil {
		return 0, s.categoryErr
	}
	return hap.Category(v), nil
}

func TestCodec_CustomClassifier(t *testing.T) {
	boom := errors.New("boom")
	codec := Codec{Classifier: stubClassifier{categoryErr: boom}}

	_, err := codec.Normalize(Properties{"ci": "2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	codec = Codec{Classifier: stubClassifier{}}
	r, err := codec.Normalize(Properties{"ci": "500"})
	require.NoError(t, err)
	assert.Equal(t, hap.Category(500), *r.Category)
}

func TestCodec_Record(t *testing.T) {
	in := &ServiceInfo{
		Name:      "Eve._hap._tcp.local.",
		Addresses: []net.IP{net.ParseIP("fe80::1"), net.ParseIP("192.168.1.20")},
		Port:      51826,
		Properties: map[string][]byte{
			"c#": []byte("1"),
			"md": []byte("Eve"),
			"id": []byte("11:22"),
		},
	}

	r, err := Codec{}.Record(in)
	require.NoError(t, err)
	assert.Equal(t, "Eve._hap._tcp.local.", r.Name)
	assert.Equal(t, "192.168.1.20", r.Address)
	assert.Equal(t, 51826, r.Port)
	assert.Equal(t, "11:22", r.ID)
}

func TestServiceInfo_Address(t *testing.T) {
	tests := []struct {
		name  string
		addrs []net.IP
		want  string
	}{
		{"none", nil, ""},
		{"ipv4", []net.IP{net.ParseIP("10.0.0.2")}, "10.0.0.2"},
		{"ipv6 only", []net.IP{net.ParseIP("fe80::2")}, "fe80::2"},
		{"ipv4 preferred", []net.IP{net.ParseIP("fe80::2"), net.ParseIP("10.0.0.3")}, "10.0.0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ServiceInfo{Addresses: tt.addrs}
			assert.Equal(t, tt.want, s.Address())
		})
	}
}
