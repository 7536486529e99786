package policies

import (
	"testing"

	"stratus-hq/federation/pkg/federation/subcluster"
)

func TestParseWeightedPolicyInfo(t *testing.T) {
	tests := []struct {
		name    string
		params  string
		wantErr bool
	}{
		{name: "valid weights", params: `{"weights":{"sc-1":0.7,"sc-2":0.3}}`},
		{name: "zero weight alongside positive", params: `{"weights":{"sc-1":1,"sc-2":0}}`},
		{name: "malformed json", params: `{"weights":`, wantErr: true},
		{name: "no weights", params: `{"weights":{}}`, wantErr: true},
		{name: "negative weight", params: `{"weights":{"sc-1":-1,"sc-2":2}}`, wantErr: true},
		{name: "all zero weights", params: `{"weights":{"sc-1":0,"sc-2":0}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseWeightedPolicyInfo([]byte(tt.params))
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseWeightedPolicyInfo() did not fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeightedPolicyInfo() error = %v", err)
			}
			if len(info.Weights) == 0 {
				t.Error("parsed info has no weights")
			}
		})
	}
}

func TestWeightedPolicyInfoMarshalRoundTrip(t *testing.T) {
	info := &WeightedPolicyInfo{
		Weights: map[subcluster.ID]float64{"sc-1": 0.25, "sc-2": 0.75},
	}

	params, err := info.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	parsed, err := ParseWeightedPolicyInfo(params)
	if err != nil {
		t.Fatalf("ParseWeightedPolicyInfo() error = %v", err)
	}
	if len(parsed.Weights) != 2 || parsed.Weights["sc-1"] != 0.25 || parsed.Weights["sc-2"] != 0.75 {
		t.Errorf("round trip produced %v", parsed.Weights)
	}
}

func TestWeightedPolicyInfoMarshalInvalid(t *testing.T) {
	info := &WeightedPolicyInfo{Weights: map[subcluster.ID]float64{"sc-1": -1}}
	if _, err := info.Marshal(); err == nil {
		t.Error("Marshal() accepted a negative weight")
	}
}
