package domain

import (
	"strings"

	"contractscanner/pkg/serrors"
)

// AddressPrefix is the case-sensitive prefix every contract address must carry.
const AddressPrefix = "0x"

// ScanType selects which endpoint family a scan goes through.
type ScanType string

const (
	// ScanTypeVulnerability runs the synchronous v1 quick scan.
	ScanTypeVulnerability ScanType = "vulnerability"
	// ScanTypeThreat runs the v2 threat scan, which may only acknowledge initialization.
	ScanTypeThreat ScanType = "threat"
	// ScanTypeCombined runs the vulnerability scan followed by the threat scan.
	ScanTypeCombined ScanType = "combined"
)

// ParseScanType converts a user supplied name into a ScanType.
func ParseScanType(s string) (ScanType, error) {
	switch t := ScanType(strings.ToLower(strings.TrimSpace(s))); t {
	case ScanTypeVulnerability, ScanTypeThreat, ScanTypeCombined:
		return t, nil
	default:
		return "", serrors.With(serrors.ErrValidation, "unknown scan type %q", s)
	}
}

// ScanRequest identifies the contract to scan. It is created per invocation
// and must pass Validate before any network call.
type ScanRequest struct {
	PlatformID      string `json:"platform_id"`
	ChainID         string `json:"chain_id"`
	ContractAddress string `json:"contract_address"`
}

// Validate checks that all fields are present and that the address carries
// the 0x prefix. No checksum or length validation is performed.
func (r ScanRequest) Validate() error {
	if r.PlatformID == "" || r.ChainID == "" || r.ContractAddress == "" {
		return serrors.With(serrors.ErrValidation, "Missing required parameters")
	}
	if !strings.HasPrefix(r.ContractAddress, AddressPrefix) {
		return serrors.With(serrors.ErrValidation,
			"Invalid contract address format. Address must start with '%s'", AddressPrefix)
	}

	return nil
}

// Target echoes the scanned contract together with the resolved platform and
// chain names. Every payload carries one so failures keep their context.
type Target struct {
	ContractAddress string `json:"contract_address"`
	PlatformID      string `json:"platform_id"`
	ChainID         string `json:"chain_id"`
	PlatformName    string `json:"platform_name,omitempty"`
	ChainName       string `json:"chain_name,omitempty"`
}

// TargetOf returns a Target for req without resolved names.
func TargetOf(req ScanRequest) Target {
	return Target{
		ContractAddress: req.ContractAddress,
		PlatformID:      req.PlatformID,
		ChainID:         req.ChainID,
	}
}
