package scanner

import (
	"context"

	"contractscanner/pkg/domain"
)

// Scanner runs scans against the scanning service. Every operation returns a
// Result; a FAILED result is the normal outcome of bad input or an unavailable
// service, never a panic or a returned error.
//
//go:generate mockgen -package mockscanner -source=interface.go -destination=mock/mockscanner.go *
type Scanner interface {
	// Vulnerability runs the synchronous quick scan.
	Vulnerability(ctx context.Context, req domain.ScanRequest) domain.Result
	// Threat runs the threat scan. A DONE result may only acknowledge that
	// the scan was started.
	Threat(ctx context.Context, req domain.ScanRequest) domain.Result
	// Combined runs the vulnerability scan and, only if it succeeded, the
	// threat scan. Its status is decided by the vulnerability scan alone.
	Combined(ctx context.Context, req domain.ScanRequest) domain.Result
	// Scan dispatches to one of the operations above by type.
	Scan(ctx context.Context, scanType domain.ScanType, req domain.ScanRequest) domain.Result
}
