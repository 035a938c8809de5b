package normalize

import (
	"fmt"

	"contractscanner/pkg/domain"

	"github.com/tidwall/gjson"
)

// Vulnerability normalizes a quick scan (v1) body. The quick scan endpoint has
// no embedded failure status, so a parseable body always yields DONE.
func Vulnerability(target domain.Target, body []byte) domain.Result {
	root := gjson.ParseBytes(body)
	report := root.Get("scan_report")
	summary := report.Get("scan_summary")
	dist := summary.Get("issue_severity_distribution")

	severity := domain.SeverityDistribution{
		Critical:      intOr(dist.Get("critical")),
		High:          intOr(dist.Get("high")),
		Medium:        intOr(dist.Get("medium")),
		Low:           intOr(dist.Get("low")),
		Gas:           intOr(dist.Get("gas")),
		Informational: intOr(dist.Get("informational")),
	}

	r := &domain.VulnerabilityReport{
		Target:               target,
		Severity:             severity,
		VulnerabilitiesCount: severity.VulnerabilitiesCount(),
		SecurityRiskCount:    severity.SecurityRiskCount(),
		RiskLevel:            stringOr(summary.Get("threat_scan_risk_level"), unknown),
		Score:                stringOr(summary.Get("score_v2"), ""),
		ScoreRating:          stringOr(summary.Get("score_rating"), unknown),
		ScanURL:              stringOr(report.Get("scanner_reference_url"), ""),
		ContractName:         stringOr(report.Get("contractname"), unknown),
		ContractURL:          stringOr(report.Get("contract_url"), ""),
		IsQuickScan:          report.Get("is_quick_scan").Bool(),
		IsVerifiedScan:       report.Get("is_verified_scan").Bool(),
		RequestType:          stringOr(report.Get("request_type"), unknown),
		TotalDetectors:       intOr(root.Get("total_detectors_count")),
		LinesAnalyzed:        intOr(summary.Get("lines_analyzed_count")),
		ScanTime:             floatOr(summary.Get("scan_time_taken")),
		APIVersion:           domain.VulnerabilityAPIVersion,
		Raw:                  raw(body),
	}

	return domain.Done(fmt.Sprintf("Successfully scanned contract %s on %s (%s).",
		target.ContractAddress, target.PlatformName, target.ChainName), r)
}
