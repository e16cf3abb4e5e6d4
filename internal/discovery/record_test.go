package discovery

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/muurk/hapscan/internal/hap"
)

func testRecord() *Record {
	sf := hap.StatusFlags(0)
	cat := hap.CategoryLightbulb
	return &Record{
		Name:              "Hue._hap._tcp.local.",
		Address:           "192.168.1.40",
		Port:              8080,
		ConfigNumber:      "3",
		FeatureFlagsValue: 2,
		FeatureFlags:      hap.SupportsSoftwareAuthentication,
		ID:                "AA:BB:CC:DD:EE:FF",
		Model:             "LCT015",
		ProtocolVersion:   "1.1",
		StateNumber:       "1",
		StatusFlagsValue:  "0",
		StatusFlags:       &sf,
		CategoryValue:     "5",
		Category:          &cat,
	}
}

func TestRecord_Complete(t *testing.T) {
	tests := []struct {
		name string
		r    Record
		want bool
	}{
		{"both", Record{ConfigNumber: "1", Model: "Foo"}, true},
		{"no model", Record{ConfigNumber: "1"}, false},
		{"no config", Record{Model: "Foo"}, false},
		{"neither", Record{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Complete())
		})
	}
}

func TestRecord_PairingStatus(t *testing.T) {
	unpaired := hap.StatusUnpaired | hap.StatusWiFiNotConfigured
	paired := hap.StatusProblemDetected

	assert.Equal(t, "Unknown", (&Record{}).PairingStatus())
	assert.Equal(t, "Unpaired", (&Record{StatusFlags: &unpaired}).PairingStatus())
	assert.Equal(t, "Paired", (&Record{StatusFlags: &paired}).PairingStatus())
}

func TestRecord_Fields(t *testing.T) {
	f := testRecord().Fields()

	assert.Equal(t, "3", f["c#"])
	assert.Equal(t, 2, f["ff"])
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", f["id"])
	assert.Equal(t, "LCT015", f["md"])
	assert.Equal(t, "1.1", f["pv"])
	assert.Equal(t, "1", f["s#"])
	assert.Equal(t, "0", f["sf"])
	assert.Equal(t, "5", f["ci"])
	assert.Equal(t, hap.CategoryLightbulb, f["category"])
	assert.Equal(t, hap.StatusFlags(0), f["statusflags"])
	assert.Equal(t, hap.SupportsSoftwareAuthentication, f["flags"])
}

func TestRecord_JSON(t *testing.T) {
	data, err := json.Marshal(testRecord())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Lightbulb", got["category"])
	assert.Equal(t, "SupportsSoftwareAuthentication", got["flags"])
	assert.Equal(t, "LCT015", got["md"])
	assert.Equal(t, float64(8080), got["port"])

	data, err = json.Marshal(&Record{ConfigNumber: "1", Model: "Foo", ProtocolVersion: "1.0"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "category")
	assert.NotContains(t, string(data), "statusflags")
}

func TestRecord_YAML(t *testing.T) {
	data, err := yaml.Marshal(testRecord())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "category: Lightbulb")
	assert.Contains(t, out, "md: LCT015")
}

func TestRecord_Summary(t *testing.T) {
	assert.Equal(t, "LCT015 • Lightbulb • 192.168.1.40:8080 • Paired", testRecord().Summary())

	r := &Record{Model: "Foo", Address: "10.0.0.1", Port: 80}
	assert.Equal(t, "Foo • 10.0.0.1:80 • Unknown", r.Summary())
}

func TestRecord_FormatDetailed(t *testing.T) {
	out := testRecord().FormatDetailed("Kitchen lamp")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Nickname:         Kitchen lamp", lines[0])
	assert.Contains(t, out, "Category:         Lightbulb\n")
	assert.Contains(t, out, "Pairing:          Paired\n")
	assert.Contains(t, out, "Status Flags:     None(0) (sf=0)\n")

	out = (&Record{ProtocolVersion: "1.0"}).FormatDetailed("")
	assert.NotContains(t, out, "Nickname")
	assert.NotContains(t, out, "Status Flags")
	assert.Contains(t, out, "Model:            (none)\n")
}

func TestRecord_FormatCompact(t *testing.T) {
	out := testRecord().FormatCompact()
	assert.True(t, strings.HasPrefix(out, "Hue._hap._tcp.local. [AA:BB:CC:DD:EE:FF]\n"))
	assert.Contains(t, out, "  LCT015 • Lightbulb")
}
