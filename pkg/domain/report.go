package domain

import "encoding/json"

const (
	// VulnerabilityAPIVersion tags reports produced by the quick scan endpoint.
	VulnerabilityAPIVersion = "v1"
	// ThreatAPIVersion tags reports produced by the threat scan endpoint.
	ThreatAPIVersion = "v2"
)

// SeverityDistribution holds the per-severity issue counts of a vulnerability scan.
type SeverityDistribution struct {
	Critical      int `json:"critical"`
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	Gas           int `json:"gas"`
	Informational int `json:"informational"`
}

// VulnerabilitiesCount is critical+high+medium+low.
func (d SeverityDistribution) VulnerabilitiesCount() int {
	return d.Critical + d.High + d.Medium + d.Low
}

// SecurityRiskCount is critical+high+medium.
func (d SeverityDistribution) SecurityRiskCount() int {
	return d.Critical + d.High + d.Medium
}

// VulnerabilityReport is the normalized quick scan report.
type VulnerabilityReport struct {
	Target

	Severity             SeverityDistribution `json:"severity"`
	VulnerabilitiesCount int                  `json:"vulnerabilities_count"`
	SecurityRiskCount    int                  `json:"security_risk_count"`

	RiskLevel   string  `json:"risk_level"`
	Score       string  `json:"score"`
	ScoreRating string  `json:"score_rating"`
	ScanURL     string  `json:"scan_url"`

	ContractName   string `json:"contract_name"`
	ContractURL    string `json:"contract_url"`
	IsQuickScan    bool   `json:"is_quick_scan"`
	IsVerifiedScan bool   `json:"is_verified_scan"`
	RequestType    string `json:"scan_type"`

	TotalDetectors int     `json:"total_detectors_count"`
	LinesAnalyzed  int     `json:"lines_analyzed"`
	ScanTime       float64 `json:"scan_time"`

	APIVersion string          `json:"scan_api_version"`
	Raw        json.RawMessage `json:"scan_results,omitempty"`
}

// Subject implements Payload.
func (r *VulnerabilityReport) Subject() Target { return r.Target }

// ThreatInitialization is the acknowledgement returned when the threat scan
// was only started; results are pushed to configured endpoints later.
type ThreatInitialization struct {
	ScanID           string `json:"scan_id"`
	ScanStatus       string `json:"scan_status"`
	RequestUUID      string `json:"request_uuid"`
	TotalDetectors   int    `json:"total_detectors_count"`
	Status           string `json:"status"`
	ContractPlatform string `json:"contract_platform"`
	ContractChain    string `json:"contract_chain"`
}

// ThreatSeverityCounts tallies threat-detail issues across the six fixed buckets.
type ThreatSeverityCounts struct {
	Beneficial   int `json:"Beneficial"`
	NoImpact     int `json:"No Impact"`
	LowRisk      int `json:"Low Risk"`
	ModerateRisk int `json:"Moderate Risk"`
	HighRisk     int `json:"High Risk"`
	Unavailable  int `json:"Unavailable"`
}

// Add increments the bucket whose label equals severity exactly. It reports
// false when severity names none of the six buckets.
func (c *ThreatSeverityCounts) Add(severity string) bool {
	switch severity {
	case "Beneficial":
		c.Beneficial++
	case "No Impact":
		c.NoImpact++
	case "Low Risk":
		c.LowRisk++
	case "Moderate Risk":
		c.ModerateRisk++
	case "High Risk":
		c.HighRisk++
	case "Unavailable":
		c.Unavailable++
	default:
		return false
	}

	return true
}

// ThreatCompleted is a finished threat scan report.
type ThreatCompleted struct {
	ContractName   string               `json:"contract_name"`
	ContractURL    string               `json:"contract_url"`
	ThreatScore    string               `json:"threat_score"`
	TSScanStatus   string               `json:"ts_scan_status"`
	TotalDetectors int                  `json:"total_detectors_count"`
	Severity       ThreatSeverityCounts `json:"severity_counts"`
	PassCount      int                  `json:"pass_count"`
	FailCount      int                  `json:"fail_count"`
	SkippedCount   int                  `json:"skipped_count"`
	ScanURL        string               `json:"scan_url"`
	Status         string               `json:"status"`
}

// ThreatReport is the normalized threat scan report. Exactly one of
// Initialization and Completed is set.
type ThreatReport struct {
	Target

	Initialization *ThreatInitialization `json:"initialization,omitempty"`
	Completed      *ThreatCompleted      `json:"completed,omitempty"`

	APIVersion string          `json:"scan_api_version"`
	Raw        json.RawMessage `json:"scan_results,omitempty"`
}

// Subject implements Payload.
func (r *ThreatReport) Subject() Target { return r.Target }

// IsInitialization reports whether the upstream only acknowledged the scan.
func (r *ThreatReport) IsInitialization() bool { return r.Initialization != nil }

// CombinedReport merges a vulnerability report with the outcome of the
// threat scan that followed it.
type CombinedReport struct {
	Vulnerability *VulnerabilityReport `json:"vulnerability"`
	// Threat is set only when the threat scan succeeded.
	Threat *ThreatReport `json:"threat,omitempty"`

	ThreatStatus  ResultStatus `json:"threat_scan_status"`
	ThreatMessage string       `json:"threat_scan_message"`
	BothSucceeded bool         `json:"both_scans_successful"`
}

// Subject implements Payload.
func (r *CombinedReport) Subject() Target {
	if r.Vulnerability == nil {
		return Target{}
	}

	return r.Vulnerability.Target
}
