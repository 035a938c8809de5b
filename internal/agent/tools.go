// Package agent exposes the scanner to a host agent runtime: a set of named
// tools invoked with JSON arguments, and chat conversations driven by the
// parameter-collection state machine. It is served over HTTP with chi.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"contractscanner/internal/reference"
	"contractscanner/internal/scanner"
	"contractscanner/pkg/domain"
	"contractscanner/pkg/serrors"
)

// Tool names.
const (
	ToolVulnerabilityScan = "vulnerability_scan"
	ToolThreatScan        = "threat_scan"
	ToolCombinedScan      = "vulnerability_and_threat_scan"
	ToolListPlatforms     = "list_platforms"
)

// Arg describes one tool argument.
type Arg struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Tool describes a callable tool.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Args        []Arg  `json:"args"`
}

// Output is what a tool invocation returns: the (status, message, payload)
// triple of the host runtime. Payload is a scan report, a failure detail or
// the platform listing.
type Output struct {
	Status  domain.ResultStatus `json:"status"`
	Message string              `json:"message"`
	Payload any                 `json:"payload,omitempty"`
}

// OutputOf converts a scan result.
func OutputOf(res domain.Result) Output {
	out := Output{Status: res.Status, Message: res.Message}
	if res.Payload != nil {
		out.Payload = res.Payload
	}

	return out
}

// PlatformListing is the payload of the list_platforms tool.
type PlatformListing struct {
	Platforms []reference.PlatformRef `json:"platforms"`
	Chains    []reference.ChainRef    `json:"chains"`
}

func scanArgs() []Arg {
	return []Arg{
		{Name: "platform_id", Type: "string", Required: true,
			Description: "ID of the blockchain explorer platform, see list_platforms"},
		{Name: "chain_id", Type: "string", Required: true,
			Description: "ID of the chain within the platform, see list_platforms"},
		{Name: "contract_address", Type: "string", Required: true,
			Description: "Contract address, must start with 0x"},
	}
}

// Tools lists every tool in a stable order.
func Tools() []Tool {
	return []Tool{
		{
			Name:        ToolVulnerabilityScan,
			Description: "Scan a deployed smart contract for vulnerabilities and return severity counts and a security score.",
			Args:        scanArgs(),
		},
		{
			Name: ToolThreatScan,
			Description: "Run a threat scan on a deployed smart contract. The service may only acknowledge the scan; " +
				"results are then delivered asynchronously.",
			Args: scanArgs(),
		},
		{
			Name:        ToolCombinedScan,
			Description: "Run a vulnerability scan followed by a threat scan and merge both reports.",
			Args:        scanArgs(),
		},
		{
			Name:        ToolListPlatforms,
			Description: "List the supported platforms and their chains.",
			Args: []Arg{{Name: "platform_id", Type: "string",
				Description: "Only list the chains of this platform"}},
		},
	}
}

// Invoker runs tools against a Scanner.
type Invoker struct {
	scanner scanner.Scanner
}

// NewInvoker constructs an Invoker.
func NewInvoker(s scanner.Scanner) *Invoker {
	return &Invoker{scanner: s}
}

// Invoke runs the named tool. Scan failures are reported through the FAILED
// status of the output; an error is returned only for an unknown tool or
// undecodable arguments.
func (i *Invoker) Invoke(ctx context.Context, name string, args json.RawMessage) (Output, error) {
	switch name {
	case ToolVulnerabilityScan, ToolThreatScan, ToolCombinedScan:
		var req domain.ScanRequest
		if err := decodeArgs(args, &req); err != nil {
			return Output{}, err
		}

		return OutputOf(i.scanner.Scan(ctx, scanTypeOf(name), req)), nil

	case ToolListPlatforms:
		var a struct {
			PlatformID string `json:"platform_id"`
		}
		if err := decodeArgs(args, &a); err != nil {
			return Output{}, err
		}

		return listPlatforms(a.PlatformID), nil

	default:
		return Output{}, serrors.With(serrors.ErrNotFound, "unknown tool %q", name)
	}
}

func scanTypeOf(tool string) domain.ScanType {
	switch tool {
	case ToolThreatScan:
		return domain.ScanTypeThreat
	case ToolCombinedScan:
		return domain.ScanTypeCombined
	default:
		return domain.ScanTypeVulnerability
	}
}

func listPlatforms(platformID string) Output {
	if platformID == "" {
		var chains []reference.ChainRef
		platforms := reference.Platforms()
		for _, p := range platforms {
			chains = append(chains, reference.ChainsFor(p.ID)...)
		}

		return Output{
			Status:  domain.ResultDone,
			Message: fmt.Sprintf("%d platforms are supported.", len(platforms)),
			Payload: PlatformListing{Platforms: platforms, Chains: chains},
		}
	}

	m := reference.Lookup(platformID, "")
	if m.Platform == nil {
		return Output{Status: domain.ResultFailed, Message: fmt.Sprintf("Unknown platform ID %s", platformID)}
	}
	chains := reference.ChainsFor(platformID)

	return Output{
		Status:  domain.ResultDone,
		Message: fmt.Sprintf("%s has %d chains.", m.Platform.Name, len(chains)),
		Payload: PlatformListing{Platforms: []reference.PlatformRef{*m.Platform}, Chains: chains},
	}
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return serrors.Wrap(serrors.ErrValidation, err, "invalid tool arguments")
	}

	return nil
}
