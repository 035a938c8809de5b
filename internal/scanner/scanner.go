// Package scanner orchestrates scans: it validates requests, resolves
// reference names, calls the scanning service and hands the body to the
// normalizer of the endpoint. It also sequences the combined scan.
package scanner

import (
	"context"
	"time"

	"contractscanner/internal/normalize"
	"contractscanner/internal/reference"
	"contractscanner/pkg/domain"
	"contractscanner/pkg/logger"
	"contractscanner/pkg/metrics"
	"contractscanner/pkg/serrors"
	"contractscanner/pkg/solidityscan"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// NormalizerFn converts a 200 response body into a Result for target.
type NormalizerFn func(target domain.Target, body []byte) domain.Result

// endpoint binds a scan type to its API path and normalizer.
type endpoint struct {
	scanType  domain.ScanType
	path      func(platformID, chainID, contractAddress string) string
	normalize NormalizerFn
}

var (
	vulnerabilityEndpoint = endpoint{ //nolint: gochecknoglobals
		scanType:  domain.ScanTypeVulnerability,
		path:      solidityscan.QuickScanPath,
		normalize: normalize.Vulnerability,
	}
	threatEndpoint = endpoint{ //nolint: gochecknoglobals
		scanType:  domain.ScanTypeThreat,
		path:      solidityscan.ThreatScanPath,
		normalize: normalize.Threat,
	}
)

// scanner is the concrete implementation of the Scanner interface.
type scanner struct {
	caller  solidityscan.Caller
	metrics *metrics.Recorder
}

// Ensure scanner conforms to the Scanner interface at compile time.
var _ Scanner = (*scanner)(nil)

// New constructs a Scanner calling the service through caller. rec may be nil.
func New(caller solidityscan.Caller, rec *metrics.Recorder) Scanner {
	return &scanner{caller: caller, metrics: rec}
}

func (s *scanner) Vulnerability(ctx context.Context, req domain.ScanRequest) domain.Result {
	return s.vulnerability(withRequest(ctx, req), req)
}

func (s *scanner) Threat(ctx context.Context, req domain.ScanRequest) domain.Result {
	return s.threat(withRequest(ctx, req), req)
}

func (s *scanner) Combined(ctx context.Context, req domain.ScanRequest) domain.Result {
	return s.observe(withRequest(ctx, req), domain.ScanTypeCombined, func(ctx context.Context) domain.Result {
		return s.combined(ctx, req)
	})
}

func (s *scanner) Scan(ctx context.Context, scanType domain.ScanType, req domain.ScanRequest) domain.Result {
	switch scanType {
	case domain.ScanTypeVulnerability:
		return s.Vulnerability(ctx, req)
	case domain.ScanTypeThreat:
		return s.Threat(ctx, req)
	case domain.ScanTypeCombined:
		return s.Combined(ctx, req)
	default:
		return failure(domain.TargetOf(req), serrors.With(serrors.ErrValidation, "unknown scan type %q", scanType))
	}
}

// combined runs the vulnerability scan and then the threat scan. A failed
// threat scan degrades the report but leaves the overall status DONE.
func (s *scanner) combined(ctx context.Context, req domain.ScanRequest) domain.Result {
	vuln := s.vulnerability(ctx, req)
	if !vuln.OK() {
		return domain.Failed("Vulnerability scan failed: "+vuln.Message, vuln.Payload, vuln.Err)
	}

	vr, ok := vuln.Payload.(*domain.VulnerabilityReport)
	if !ok {
		return domain.Failed("Vulnerability scan failed: unexpected payload", vuln.Payload,
			serrors.With(serrors.ErrUpstream, "unexpected vulnerability payload %T", vuln.Payload))
	}

	logger.Info(ctx, "vulnerability scan completed, starting threat scan")
	threat := s.threat(ctx, req)

	report := &domain.CombinedReport{
		Vulnerability: vr,
		ThreatStatus:  threat.Status,
		ThreatMessage: threat.Message,
	}
	if tr, ok := threat.Payload.(*domain.ThreatReport); ok && threat.OK() {
		report.Threat = tr
		report.BothSucceeded = true

		return domain.Done("Successfully completed both vulnerability and threat scans for contract "+
			req.ContractAddress, report)
	}

	logger.Warn(ctx, "threat scan failed after a successful vulnerability scan", zap.String("reason", threat.Message))

	return domain.Done("Vulnerability scan succeeded but threat scan failed: "+threat.Message, report)
}

// run is the call-and-classify routine shared by both endpoints.
func (s *scanner) run(ctx context.Context, ep endpoint, req domain.ScanRequest) domain.Result {
	target := domain.TargetOf(req)

	if err := req.Validate(); err != nil {
		return failure(target, err)
	}
	if !s.caller.HasToken() {
		return failure(target, serrors.With(serrors.ErrValidation, "SolidityScan API key is not configured"))
	}

	target = reference.Target(req)
	resp, err := s.caller.Get(ctx, ep.path(req.PlatformID, req.ChainID, req.ContractAddress))
	if err != nil {
		return failure(target, err)
	}

	if !gjson.ValidBytes(resp.Body) || !gjson.ParseBytes(resp.Body).IsObject() {
		return failure(target, serrors.With(serrors.ErrUpstream,
			"Error scanning contract: response body is not a JSON object").
			WithDiagnostic("invalid JSON response"))
	}

	return ep.normalize(target, resp.Body)
}

func (s *scanner) vulnerability(ctx context.Context, req domain.ScanRequest) domain.Result {
	return s.observe(ctx, domain.ScanTypeVulnerability, func(ctx context.Context) domain.Result {
		return s.run(ctx, vulnerabilityEndpoint, req)
	})
}

func (s *scanner) threat(ctx context.Context, req domain.ScanRequest) domain.Result {
	return s.observe(ctx, domain.ScanTypeThreat, func(ctx context.Context) domain.Result {
		return s.run(ctx, threatEndpoint, req)
	})
}

// withRequest attaches the request identifiers to the logger in ctx.
func withRequest(ctx context.Context, req domain.ScanRequest) context.Context {
	return logger.WithFields(ctx,
		zap.String("contract", req.ContractAddress),
		zap.String("platform", req.PlatformID),
		zap.String("chain", req.ChainID))
}

// observe times fn, logs its outcome and records it in the metrics.
func (s *scanner) observe(ctx context.Context, scanType domain.ScanType, fn func(context.Context) domain.Result) domain.Result {
	start := time.Now()
	res := fn(ctx)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.Observe(string(scanType), res.OK(), elapsed)
	}

	fields := []zap.Field{zap.String("scanType", string(scanType)), zap.Duration("elapsed", elapsed)}
	if res.OK() {
		logger.Info(ctx, "scan finished", fields...)
	} else {
		logger.Warn(ctx, "scan failed", append(fields, zap.String("reason", res.Message))...)
	}

	return res
}

// failure builds a FAILED result echoing the target and the diagnostic of err.
func failure(target domain.Target, err error) domain.Result {
	return domain.Failed(serrors.MessageOf(err), &domain.FailureDetail{
		Target: target,
		Error:  serrors.DiagnosticOf(err),
	}, err)
}
