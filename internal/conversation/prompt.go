package conversation

import (
	"fmt"
	"strings"

	"contractscanner/internal/reference"
	"contractscanner/pkg/domain"
)

// Choice is one entry of the scan type menu.
type Choice struct {
	Key   string
	Type  domain.ScanType
	Label string
}

// DefaultScanTypes is the menu offered when Options.ScanTypes is empty.
func DefaultScanTypes() []Choice {
	return []Choice{
		{Key: "1", Type: domain.ScanTypeVulnerability, Label: "Vulnerability Scan (v1 API)"},
		{Key: "2", Type: domain.ScanTypeThreat, Label: "Threat Scan (v2 API)"},
	}
}

// CLIScanTypes extends the default menu with the combined scan.
func CLIScanTypes() []Choice {
	return append(DefaultScanTypes(), Choice{Key: "3", Type: domain.ScanTypeCombined, Label: "Combined Scan (Both)"})
}

// fallbackChains are offered for platforms without chains in the reference table.
func fallbackChains(platformID string) []reference.ChainRef {
	return []reference.ChainRef{
		{PlatformID: platformID, ID: "1", Name: "mainnet"},
		{PlatformID: platformID, ID: "2", Name: "testnet"},
	}
}

// Prompter supplies the wording of every reply so front ends can phrase the
// same conversation differently.
type Prompter interface {
	Clarify() string
	AskScanType(choices []Choice) string
	AskPlatform(platforms []reference.PlatformRef) string
	AskChain(platformName string, chains []reference.ChainRef) string
	AskAddress() string
	InvalidScanType(input string, choices []Choice) string
	InvalidPlatform(input string) string
	InvalidChain(input string) string
	InvalidAddress(input string) string
	Dispatching(scanType domain.ScanType, req domain.ScanRequest, platformName, chainName string) string
	Cancelled() string
}

// CLIPrompter phrases the conversation as the numbered steps of a terminal wizard.
type CLIPrompter struct{}

var _ Prompter = CLIPrompter{}

func (CLIPrompter) Clarify() string {
	return "Type 'scan' to start scanning a smart contract, or 'exit' to quit."
}

func (CLIPrompter) AskScanType(choices []Choice) string {
	var b strings.Builder
	b.WriteString("Step 0: Select scan type\n")
	for _, c := range choices {
		fmt.Fprintf(&b, "%s. %s\n", c.Key, c.Label)
	}
	b.WriteString("\nEnter scan type:")

	return b.String()
}

func (CLIPrompter) AskPlatform(platforms []reference.PlatformRef) string {
	var b strings.Builder
	b.WriteString("Step 1: Select a platform\nAvailable Platforms:\n")
	for _, p := range platforms {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", p.Name, p.ID)
	}
	b.WriteString("\nEnter Platform ID:")

	return b.String()
}

func (CLIPrompter) AskChain(platformName string, chains []reference.ChainRef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Selected Platform: %s\n\nStep 2: Select a chain\nAvailable Chains for this platform:\n", platformName)
	for _, c := range chains {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", c.Name, c.ID)
	}
	b.WriteString("\nEnter Chain ID:")

	return b.String()
}

func (CLIPrompter) AskAddress() string {
	return "Step 3: Enter contract address\nEnter Contract Address (must start with 0x):"
}

func (CLIPrompter) InvalidScanType(input string, choices []Choice) string {
	keys := make([]string, 0, len(choices))
	for _, c := range choices {
		keys = append(keys, c.Key)
	}

	return fmt.Sprintf("Error: invalid scan type %q. Enter one of %s.", input, strings.Join(keys, ", "))
}

func (CLIPrompter) InvalidPlatform(input string) string {
	return fmt.Sprintf("Error: unknown platform ID %q. Enter one of the listed platform IDs.", input)
}

func (CLIPrompter) InvalidChain(input string) string {
	return fmt.Sprintf("Error: unknown chain ID %q for this platform. Enter one of the listed chain IDs.", input)
}

func (CLIPrompter) InvalidAddress(string) string {
	return "Error: Invalid contract address format. Address must start with '0x'"
}

func (CLIPrompter) Dispatching(scanType domain.ScanType, req domain.ScanRequest, platformName, _ string) string {
	return fmt.Sprintf("Performing %s scan on contract %s on %s (Platform ID: %s, Chain ID: %s)...",
		scanType, req.ContractAddress, platformName, req.PlatformID, req.ChainID)
}

func (CLIPrompter) Cancelled() string { return "Scan cancelled." }

// AgentPrompter phrases the conversation for a chat assistant.
type AgentPrompter struct{}

var _ Prompter = AgentPrompter{}

func (AgentPrompter) Clarify() string {
	return "I can scan smart contracts for vulnerabilities and threats. " +
		"Tell me you would like to scan a contract to get started."
}

func (AgentPrompter) AskScanType(choices []Choice) string {
	parts := make([]string, 0, len(choices))
	for _, c := range choices {
		parts = append(parts, fmt.Sprintf("%s for a %s", c.Key, c.Label))
	}

	return "Which kind of scan would you like? Reply " + strings.Join(parts, ", or ") + "."
}

func (AgentPrompter) AskPlatform(platforms []reference.PlatformRef) string {
	parts := make([]string, 0, len(platforms))
	for _, p := range platforms {
		parts = append(parts, fmt.Sprintf("%s (%s)", p.ID, p.Name))
	}

	return "Which platform is the contract deployed on? Reply with its ID: " + strings.Join(parts, ", ") + "."
}

func (AgentPrompter) AskChain(platformName string, chains []reference.ChainRef) string {
	parts := make([]string, 0, len(chains))
	for _, c := range chains {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.ID, c.Name))
	}

	return fmt.Sprintf("Which chain on %s? Reply with its ID: %s.", platformName, strings.Join(parts, ", "))
}

func (AgentPrompter) AskAddress() string {
	return "What is the contract address? It must start with 0x."
}

func (AgentPrompter) InvalidScanType(input string, choices []Choice) string {
	return fmt.Sprintf("%q is not a scan type I know. %s", input, AgentPrompter{}.AskScanType(choices))
}

func (AgentPrompter) InvalidPlatform(input string) string {
	return fmt.Sprintf("%q is not a supported platform ID. Please reply with one of the listed IDs.", input)
}

func (AgentPrompter) InvalidChain(input string) string {
	return fmt.Sprintf("%q is not a chain ID of that platform. Please reply with one of the listed IDs.", input)
}

func (AgentPrompter) InvalidAddress(input string) string {
	return fmt.Sprintf("%q does not look like a contract address. It must start with 0x.", input)
}

func (AgentPrompter) Dispatching(scanType domain.ScanType, req domain.ScanRequest, platformName, chainName string) string {
	return fmt.Sprintf("Running a %s scan on %s (%s, %s).", scanType, req.ContractAddress, platformName, chainName)
}

func (AgentPrompter) Cancelled() string {
	return "Okay, I dropped that scan. Let me know when you want to scan another contract."
}
