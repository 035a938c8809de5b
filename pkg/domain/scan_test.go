package domain_test

import (
	"contractscanner/pkg/domain"
	"contractscanner/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     domain.ScanRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  domain.ScanRequest{PlatformID: "1", ChainID: "1", ContractAddress: "0xdead"},
		},
		{
			name:    "missing platform",
			req:     domain.ScanRequest{ChainID: "1", ContractAddress: "0xdead"},
			wantErr: "Missing required parameters",
		},
		{
			name:    "missing chain",
			req:     domain.ScanRequest{PlatformID: "1", ContractAddress: "0xdead"},
			wantErr: "Missing required parameters",
		},
		{
			name:    "missing address",
			req:     domain.ScanRequest{PlatformID: "1", ChainID: "1"},
			wantErr: "Missing required parameters",
		},
		{
			name:    "uppercase prefix is rejected",
			req:     domain.ScanRequest{PlatformID: "1", ChainID: "1", ContractAddress: "0Xdead"},
			wantErr: "Invalid contract address format. Address must start with '0x'",
		},
		{
			// only the prefix is checked
			name: "short address accepted",
			req:  domain.ScanRequest{PlatformID: "1", ChainID: "1", ContractAddress: "0x"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)

				return
			}
			require.ErrorIs(t, err, serrors.ErrValidation)
			require.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestParseScanType(t *testing.T) {
	st, err := domain.ParseScanType(" Combined ")
	require.NoError(t, err)
	require.Equal(t, domain.ScanTypeCombined, st)

	_, err = domain.ParseScanType("deep")
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestSeverityDistribution_DerivedCounts(t *testing.T) {
	d := domain.SeverityDistribution{Critical: 1, High: 2, Medium: 0, Low: 1, Gas: 3}
	require.Equal(t, 4, d.VulnerabilitiesCount())
	require.Equal(t, 3, d.SecurityRiskCount())
}

func TestThreatSeverityCounts_Add(t *testing.T) {
	var c domain.ThreatSeverityCounts
	for _, s := range []string{"Beneficial", "No Impact", "Low Risk", "Moderate Risk", "High Risk", "Unavailable"} {
		require.True(t, c.Add(s), s)
	}
	require.False(t, c.Add("high risk"), "labels match exactly")
	require.False(t, c.Add("Critical"))

	require.Equal(t, domain.ThreatSeverityCounts{
		Beneficial: 1, NoImpact: 1, LowRisk: 1, ModerateRisk: 1, HighRisk: 1, Unavailable: 1,
	}, c)
}
