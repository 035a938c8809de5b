// Package conversation collects scan parameters from free-form user input one
// step at a time and dispatches the scan once all of them are known. The
// machine itself is stateless; every conversation owns a State value.
package conversation

import "contractscanner/pkg/domain"

// Stage is the step of a conversation.
type Stage int

const (
	// AwaitingScanRequest waits for text expressing scanning intent.
	AwaitingScanRequest Stage = iota
	// AwaitingScanType waits for a scan type menu choice.
	AwaitingScanType
	// AwaitingPlatformID waits for a known platform id.
	AwaitingPlatformID
	// AwaitingChainID waits for a chain id of the selected platform.
	AwaitingChainID
	// AwaitingContractAddress waits for a 0x prefixed address.
	AwaitingContractAddress
)

func (s Stage) String() string {
	switch s {
	case AwaitingScanRequest:
		return "awaiting_scan_request"
	case AwaitingScanType:
		return "awaiting_scan_type"
	case AwaitingPlatformID:
		return "awaiting_platform_id"
	case AwaitingChainID:
		return "awaiting_chain_id"
	case AwaitingContractAddress:
		return "awaiting_contract_address"
	default:
		return "unknown"
	}
}

// MarshalText renders the stage by name in JSON replies.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// State is the per-conversation record. The zero value is a fresh
// conversation. It is not safe for concurrent use.
type State struct {
	Stage           Stage           `json:"stage"`
	ScanType        domain.ScanType `json:"scan_type,omitempty"`
	PlatformID      string          `json:"platform_id,omitempty"`
	ChainID         string          `json:"chain_id,omitempty"`
	ContractAddress string          `json:"contract_address,omitempty"`
}

// Reset clears every collected parameter and returns to AwaitingScanRequest.
func (s *State) Reset() { *s = State{} }

// Request returns the collected parameters as a scan request.
func (s *State) Request() domain.ScanRequest {
	return domain.ScanRequest{
		PlatformID:      s.PlatformID,
		ChainID:         s.ChainID,
		ContractAddress: s.ContractAddress,
	}
}
