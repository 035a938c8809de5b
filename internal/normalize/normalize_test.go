package normalize_test

import (
	"contractscanner/internal/normalize"
	"contractscanner/pkg/domain"
	"contractscanner/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

var target = domain.Target{ //nolint: gochecknoglobals
	ContractAddress: "0xabc",
	PlatformID:      "1",
	ChainID:         "1",
	PlatformName:    "etherscan.io",
	ChainName:       "mainnet",
}

func TestVulnerability_FullReport(t *testing.T) {
	body := []byte(`{
		"total_detectors_count": 420,
		"scan_report": {
			"contractname": "Token",
			"contract_url": "https://etherscan.io/address/0xabc",
			"scanner_reference_url": "https://solidityscan.com/qs/1",
			"is_quick_scan": true,
			"is_verified_scan": false,
			"request_type": "quick_scan",
			"scan_summary": {
				"issue_severity_distribution": {"critical":1,"high":2,"medium":3,"low":4,"gas":5,"informational":6},
				"threat_scan_risk_level": "High",
				"score_v2": "45.10",
				"score_rating": "Poor",
				"lines_analyzed_count": 812,
				"scan_time_taken": 3.5
			}
		}
	}`)

	res := normalize.Vulnerability(target, body)
	require.True(t, res.OK())
	require.NoError(t, res.Err)
	require.Equal(t, "Successfully scanned contract 0xabc on etherscan.io (mainnet).", res.Message)

	r, ok := res.Payload.(*domain.VulnerabilityReport)
	require.True(t, ok)
	require.Equal(t, target, r.Target)
	require.Equal(t, domain.SeverityDistribution{
		Critical: 1, High: 2, Medium: 3, Low: 4, Gas: 5, Informational: 6,
	}, r.Severity)
	require.Equal(t, 10, r.VulnerabilitiesCount)
	require.Equal(t, 6, r.SecurityRiskCount)
	require.Equal(t, "High", r.RiskLevel)
	require.Equal(t, "45.10", r.Score)
	require.Equal(t, "Poor", r.ScoreRating)
	require.Equal(t, "https://solidityscan.com/qs/1", r.ScanURL)
	require.Equal(t, "Token", r.ContractName)
	require.True(t, r.IsQuickScan)
	require.False(t, r.IsVerifiedScan)
	require.Equal(t, "quick_scan", r.RequestType)
	require.Equal(t, 420, r.TotalDetectors)
	require.Equal(t, 812, r.LinesAnalyzed)
	require.InDelta(t, 3.5, r.ScanTime, 0.0001)
	require.Equal(t, "v1", r.APIVersion)
	require.JSONEq(t, string(body), string(r.Raw))
}

func TestVulnerability_EmptyObjectUsesDefaults(t *testing.T) {
	res := normalize.Vulnerability(target, []byte(`{}`))
	require.True(t, res.OK(), "absent fields never fail a vulnerability scan")

	r := res.Payload.(*domain.VulnerabilityReport)
	require.Zero(t, r.VulnerabilitiesCount)
	require.Zero(t, r.SecurityRiskCount)
	require.Equal(t, "Unknown", r.RiskLevel)
	require.Equal(t, "", r.Score)
	require.Equal(t, "Unknown", r.ScoreRating)
	require.Equal(t, "Unknown", r.ContractName)
	require.Equal(t, "Unknown", r.RequestType)
	require.Empty(t, r.ScanURL)
	require.False(t, r.IsQuickScan)
}

func TestVulnerability_NumericScore(t *testing.T) {
	res := normalize.Vulnerability(target, []byte(`{"scan_report":{"scan_summary":{"score_v2":87.5}}}`))
	require.Equal(t, "87.5", res.Payload.(*domain.VulnerabilityReport).Score)
}

func TestThreat_Initialization(t *testing.T) {
	body := []byte(`{
		"scan_id": "abc-123",
		"data": {},
		"scan_status": "initialised",
		"status": "success",
		"request_uuid": "u-1",
		"total_detectors_count": 37,
		"contract_platform": "etherscan",
		"contract_chain": "mainnet"
	}`)

	res := normalize.Threat(target, body)
	require.True(t, res.OK())
	require.Equal(t,
		"Successfully initiated threat scan on contract 0xabc on etherscan.io (mainnet). Scan ID: abc-123",
		res.Message)

	r := res.Payload.(*domain.ThreatReport)
	require.True(t, r.IsInitialization())
	require.Nil(t, r.Completed)
	require.Equal(t, domain.ThreatInitialization{
		ScanID:           "abc-123",
		ScanStatus:       "initialised",
		RequestUUID:      "u-1",
		TotalDetectors:   37,
		Status:           "success",
		ContractPlatform: "etherscan",
		ContractChain:    "mainnet",
	}, *r.Initialization)
	require.Equal(t, "v2", r.APIVersion)
}

func TestThreat_InitializationFailedStatus(t *testing.T) {
	body := []byte(`{"scan_id":"abc","data":{},"scan_status":"initialised","status":"error"}`)

	res := normalize.Threat(target, body)
	require.False(t, res.OK())
	require.Equal(t, "Threat scan initialization failed with status: error", res.Message)
	require.ErrorIs(t, res.Err, serrors.ErrUpstream)

	r := res.Payload.(*domain.ThreatReport)
	require.True(t, r.IsInitialization(), "payload is kept on failure")
	require.Equal(t, "Unknown", r.Initialization.RequestUUID)
}

func TestThreat_DiscriminatesShape(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "no scan_id", body: `{"data":{},"scan_status":"initialised","status":"success"}`},
		{name: "no data", body: `{"scan_id":"1","scan_status":"initialised","status":"success"}`},
		{name: "other scan_status", body: `{"scan_id":"1","data":{},"scan_status":"completed","status":"success"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := normalize.Threat(target, []byte(tc.body))
			r := res.Payload.(*domain.ThreatReport)
			require.False(t, r.IsInitialization())
			require.NotNil(t, r.Completed)
		})
	}
}

func TestThreat_Completed(t *testing.T) {
	body := []byte(`{
		"status": "success",
		"total_detectors_count": 12,
		"scan_report": {
			"contractname": "Vault",
			"contract_url": "https://etherscan.io/address/0xabc",
			"scanner_reference_url": "https://solidityscan.com/ts/1",
			"threat_score": "82.5",
			"ts_scan_status": "completed",
			"threat_scan_details": [
				{"issue_severity": "High Risk", "issue_status": "fail"},
				{"issue_severity": "High Risk", "issue_status": "pass"},
				{"issue_severity": "Beneficial", "issue_status": "pass"},
				{"issue_severity": "No Impact", "issue_status": "skipped"},
				{"issue_severity": "high risk", "issue_status": "pass"},
				{"issue_severity": "Critical", "issue_status": "unknown"}
			],
			"ts_scan_details": [
				{"issue_severity": "High Risk", "issue_status": "fail"},
				{"issue_status": "skipped"}
			]
		}
	}`)

	res := normalize.Threat(target, body)
	require.True(t, res.OK())
	require.Equal(t,
		"Successfully completed threat scan on contract 0xabc on etherscan.io (mainnet). Threat Score: 82.5",
		res.Message)

	r := res.Payload.(*domain.ThreatReport)
	require.False(t, r.IsInitialization())
	c := r.Completed
	require.Equal(t, "Vault", c.ContractName)
	require.Equal(t, "82.5", c.ThreatScore)
	require.Equal(t, "completed", c.TSScanStatus)
	require.Equal(t, 12, c.TotalDetectors)
	require.Equal(t, "https://solidityscan.com/ts/1", c.ScanURL)
	// exact-match buckets only, and ts_scan_details never touch severities
	require.Equal(t, domain.ThreatSeverityCounts{HighRisk: 2, Beneficial: 1, NoImpact: 1}, c.Severity)
	require.Equal(t, 3, c.PassCount)
	require.Equal(t, 2, c.FailCount)
	require.Equal(t, 2, c.SkippedCount)
}

func TestThreat_CompletedSuccessDespiteFailedChecks(t *testing.T) {
	body := []byte(`{"status":"success","scan_report":{"threat_scan_details":[
		{"issue_severity":"High Risk","issue_status":"fail"},
		{"issue_severity":"High Risk","issue_status":"fail"}
	]}}`)

	res := normalize.Threat(target, body)
	require.True(t, res.OK())
	require.Equal(t, 2, res.Payload.(*domain.ThreatReport).Completed.FailCount)
}

func TestThreat_CompletedFailedStatus(t *testing.T) {
	res := normalize.Threat(target, []byte(`{"status":"failed","scan_report":{}}`))
	require.False(t, res.OK())
	require.Equal(t, "Threat scan failed with status: failed", res.Message)
	require.ErrorIs(t, res.Err, serrors.ErrUpstream)
	require.NotNil(t, res.Payload.(*domain.ThreatReport).Completed)

	res = normalize.Threat(target, []byte(`{}`))
	require.False(t, res.OK())
	require.Equal(t, "Threat scan failed with status: Unknown", res.Message)
	c := res.Payload.(*domain.ThreatReport).Completed
	require.Equal(t, "Unknown", c.ThreatScore)
	require.Equal(t, "Unknown", c.ContractName)
}
