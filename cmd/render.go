package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"contractscanner/pkg/domain"
)

// printer writes the human readable report of a scan. Write errors on the
// terminal are ignored.
type printer struct {
	w io.Writer
}

func (p printer) f(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p printer) result(res domain.Result) {
	p.f("\nScan Status: %s", res.Status)
	p.f("Message: %s", res.Message)

	if !res.OK() {
		if d, ok := res.Payload.(*domain.FailureDetail); ok && d.Error != "" && d.Error != res.Message {
			p.f("- Error: %s", d.Error)
		}
		p.f("\nScan failed. Please check the error messages above.")

		return
	}

	p.f("\nScan Results:")
	switch r := res.Payload.(type) {
	case *domain.VulnerabilityReport:
		p.vulnerability(r)
	case *domain.ThreatReport:
		p.threat(r)
	case *domain.CombinedReport:
		p.combined(r)
	}
}

func (p printer) vulnerability(r *domain.VulnerabilityReport) {
	p.f("- Contract Name: %s", r.ContractName)
	p.f("- Risk Level: %s", r.RiskLevel)
	p.f("- Score: %s (%s)", r.Score, r.ScoreRating)
	p.f("- Total Vulnerabilities: %d", r.VulnerabilitiesCount)
	p.f("  - Critical: %d", r.Severity.Critical)
	p.f("  - High: %d", r.Severity.High)
	p.f("  - Medium: %d", r.Severity.Medium)
	p.f("  - Low: %d", r.Severity.Low)
	p.f("- Security Risks: %d", r.SecurityRiskCount)
	p.f("- Optimization Opportunities: %d", r.Severity.Gas)
	p.f("- Informational Issues: %d", r.Severity.Informational)

	if r.ScanURL != "" {
		p.f("\nDetailed scan results available at: %s", r.ScanURL)
	}
}

func (p printer) threat(r *domain.ThreatReport) {
	if i := r.Initialization; i != nil {
		p.f("- Scan ID: %s", i.ScanID)
		p.f("- Scan Status: %s", i.ScanStatus)
		p.f("- Request UUID: %s", i.RequestUUID)
		p.f("- Contract Platform: %s", i.ContractPlatform)
		p.f("- Contract Chain: %s", i.ContractChain)
		p.f("- Total Detectors: %d", i.TotalDetectors)
		p.f("- Status: %s", i.Status)
		p.f("\nNote: The threat scan is asynchronous. Results will be pushed to configured endpoints.")

		return
	}

	c := r.Completed
	if c == nil {
		return
	}
	p.f("- Contract Name: %s", c.ContractName)
	p.f("- Threat Score: %s", c.ThreatScore)
	p.f("- Scan Status: %s", c.TSScanStatus)
	p.threatCounts(c)

	if c.ScanURL != "" {
		p.f("\nDetailed scan results available at: %s", c.ScanURL)
	}
}

func (p printer) threatCounts(c *domain.ThreatCompleted) {
	p.f("\nIssues by Severity:")
	p.f("- Beneficial: %d", c.Severity.Beneficial)
	p.f("- No Impact: %d", c.Severity.NoImpact)
	p.f("- Low Risk: %d", c.Severity.LowRisk)
	p.f("- Moderate Risk: %d", c.Severity.ModerateRisk)
	p.f("- High Risk: %d", c.Severity.HighRisk)
	p.f("- Unavailable: %d", c.Severity.Unavailable)

	p.f("\nIssue Status:")
	p.f("- Pass: %d", c.PassCount)
	p.f("- Fail: %d", c.FailCount)
	p.f("- Skipped: %d", c.SkippedCount)
}

func (p printer) combined(r *domain.CombinedReport) {
	v := r.Vulnerability
	p.f("- Contract Name: %s", v.ContractName)
	p.f("- Both Scans Successful: %t", r.BothSucceeded)

	p.f("\nVulnerability Scan Results:")
	p.f("- Score: %s (%s)", v.Score, v.ScoreRating)
	p.f("- Total Vulnerabilities: %d", v.VulnerabilitiesCount)
	p.f("- Security Risks: %d", v.SecurityRiskCount)
	p.f("- Optimization Opportunities: %d", v.Severity.Gas)
	p.f("- Informational Issues: %d", v.Severity.Informational)

	switch {
	case r.BothSucceeded && r.Threat != nil && r.Threat.Completed != nil:
		p.f("\nThreat Scan Results:")
		p.f("- Threat Score: %s", r.Threat.Completed.ThreatScore)
		p.threatCounts(r.Threat.Completed)
	case r.BothSucceeded && r.Threat != nil && r.Threat.Initialization != nil:
		p.f("\nThreat Scan Results:")
		p.f("- Scan ID: %s", r.Threat.Initialization.ScanID)
		p.f("\nNote: The threat scan is asynchronous. Results will be pushed to configured endpoints.")
	default:
		p.f("\nThreat Scan Failed:")
		p.f("- Message: %s", r.ThreatMessage)
	}

	if v.ScanURL != "" {
		p.f("\nVulnerability scan results available at: %s", v.ScanURL)
	}
	if r.BothSucceeded && r.Threat != nil && r.Threat.Completed != nil && r.Threat.Completed.ScanURL != "" {
		p.f("Threat scan results available at: %s", r.Threat.Completed.ScanURL)
	}
}

// raw prints the upstream response bodies of a scan, indented.
func (p printer) raw(res domain.Result) {
	p.f("\nFull JSON Response:")
	switch r := res.Payload.(type) {
	case *domain.VulnerabilityReport:
		p.indented(r.Raw)
	case *domain.ThreatReport:
		p.indented(r.Raw)
	case *domain.CombinedReport:
		p.f("\nVulnerability Scan Results:")
		p.indented(r.Vulnerability.Raw)
		if r.BothSucceeded && r.Threat != nil {
			p.f("\nThreat Scan Results:")
			p.indented(r.Threat.Raw)
		}
	default:
		p.f("{}")
	}
}

func (p printer) indented(raw json.RawMessage) {
	if len(raw) == 0 {
		p.f("{}")

		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		p.f("%s", raw)

		return
	}
	p.f("%s", buf.String())
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("could not encode result: %w", err)
	}

	return nil
}
