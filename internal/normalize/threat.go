package normalize

import (
	"fmt"

	"contractscanner/pkg/domain"
	"contractscanner/pkg/serrors"

	"github.com/tidwall/gjson"
)

const (
	statusSuccess     = "success"
	statusInitialised = "initialised"
)

// Threat normalizes a threat scan (v2) body. The service either acknowledges
// that the scan was started (initialization shape) or returns the finished
// report (completed shape). In both cases the payload is kept on failure.
func Threat(target domain.Target, body []byte) domain.Result {
	root := gjson.ParseBytes(body)
	if isInitialization(root) {
		return threatInitialization(target, root, body)
	}

	return threatCompleted(target, root, body)
}

func isInitialization(root gjson.Result) bool {
	return root.Get("scan_id").Exists() &&
		root.Get("data").Exists() &&
		root.Get("scan_status").String() == statusInitialised
}

func threatInitialization(target domain.Target, root gjson.Result, body []byte) domain.Result {
	ack := &domain.ThreatInitialization{
		ScanID:           stringOr(root.Get("scan_id"), unknown),
		ScanStatus:       stringOr(root.Get("scan_status"), unknown),
		RequestUUID:      stringOr(root.Get("request_uuid"), unknown),
		TotalDetectors:   intOr(root.Get("total_detectors_count")),
		Status:           stringOr(root.Get("status"), unknown),
		ContractPlatform: stringOr(root.Get("contract_platform"), unknown),
		ContractChain:    stringOr(root.Get("contract_chain"), unknown),
	}
	r := &domain.ThreatReport{
		Target:         target,
		Initialization: ack,
		APIVersion:     domain.ThreatAPIVersion,
		Raw:            raw(body),
	}

	if ack.Status != statusSuccess || ack.ScanStatus != statusInitialised {
		msg := "Threat scan initialization failed with status: " + ack.Status

		return domain.Failed(msg, r, serrors.With(serrors.ErrUpstream, "%s", msg))
	}

	return domain.Done(fmt.Sprintf("Successfully initiated threat scan on contract %s on %s (%s). Scan ID: %s",
		target.ContractAddress, target.PlatformName, target.ChainName, ack.ScanID), r)
}

func threatCompleted(target domain.Target, root gjson.Result, body []byte) domain.Result {
	report := root.Get("scan_report")
	c := &domain.ThreatCompleted{
		ContractName:   stringOr(report.Get("contractname"), unknown),
		ContractURL:    stringOr(report.Get("contract_url"), ""),
		ThreatScore:    stringOr(report.Get("threat_score"), unknown),
		TSScanStatus:   stringOr(report.Get("ts_scan_status"), unknown),
		TotalDetectors: intOr(root.Get("total_detectors_count")),
		ScanURL:        stringOr(report.Get("scanner_reference_url"), ""),
		Status:         stringOr(root.Get("status"), unknown),
	}

	report.Get("threat_scan_details").ForEach(func(_, issue gjson.Result) bool {
		c.Severity.Add(issue.Get("issue_severity").String())
		tally(c, issue)

		return true
	})
	// transaction simulation checks carry no severity
	report.Get("ts_scan_details").ForEach(func(_, issue gjson.Result) bool {
		tally(c, issue)

		return true
	})

	r := &domain.ThreatReport{
		Target:     target,
		Completed:  c,
		APIVersion: domain.ThreatAPIVersion,
		Raw:        raw(body),
	}

	if c.Status != statusSuccess {
		msg := "Threat scan failed with status: " + c.Status

		return domain.Failed(msg, r, serrors.With(serrors.ErrUpstream, "%s", msg))
	}

	return domain.Done(fmt.Sprintf("Successfully completed threat scan on contract %s on %s (%s). Threat Score: %s",
		target.ContractAddress, target.PlatformName, target.ChainName, c.ThreatScore), r)
}

func tally(c *domain.ThreatCompleted, issue gjson.Result) {
	switch issue.Get("issue_status").String() {
	case "pass":
		c.PassCount++
	case "fail":
		c.FailCount++
	case "skipped":
		c.SkippedCount++
	}
}
