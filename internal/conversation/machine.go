package conversation

import (
	"context"
	"strings"

	"contractscanner/internal/reference"
	"contractscanner/pkg/domain"
	"contractscanner/pkg/logger"

	"go.uber.org/zap"
)

// intentKeywords are matched as case-insensitive substrings of the input.
var intentKeywords = []string{"scan", "audit", "check", "vulnerabilit", "secur", "contract", "threat"} //nolint: gochecknoglobals

// cancelWords abandon the conversation at any stage but the first.
var cancelWords = map[string]struct{}{"cancel": {}, "reset": {}} //nolint: gochecknoglobals

// fallbackChainIDs are accepted for any platform.
var fallbackChainIDs = map[string]struct{}{"1": {}, "2": {}} //nolint: gochecknoglobals

// Dispatcher runs the scan once every parameter is collected.
type Dispatcher interface {
	Scan(ctx context.Context, scanType domain.ScanType, req domain.ScanRequest) domain.Result
}

// Options configure a Machine.
type Options struct {
	// ScanTypes is the scan type menu. Defaults to DefaultScanTypes.
	ScanTypes []Choice
	// Prompter phrases the replies. Defaults to AgentPrompter.
	Prompter Prompter
}

// Reply is the outcome of one step.
type Reply struct {
	Text string `json:"text"`
	// Stage is the stage after the step.
	Stage Stage `json:"stage"`
	// Result is set when the step dispatched a scan.
	Result *domain.Result `json:"result,omitempty"`
}

// Machine drives conversations. It holds no per-conversation data and can be
// shared by any number of them.
type Machine struct {
	dispatcher Dispatcher
	scanTypes  []Choice
	prompter   Prompter
}

// New constructs a Machine dispatching scans to d.
func New(d Dispatcher, opts Options) *Machine {
	if len(opts.ScanTypes) == 0 {
		opts.ScanTypes = DefaultScanTypes()
	}
	if opts.Prompter == nil {
		opts.Prompter = AgentPrompter{}
	}

	return &Machine{dispatcher: d, scanTypes: opts.ScanTypes, prompter: opts.Prompter}
}

// Start skips intent detection and asks for the scan type straight away.
func (m *Machine) Start(st *State) Reply {
	st.Reset()
	st.Stage = AwaitingScanType

	return m.reply(st, m.prompter.AskScanType(m.scanTypes))
}

// Step advances st with one line of input. Invalid input leaves the stage
// unchanged and re-prompts. After a dispatch st is reset whatever the result.
func (m *Machine) Step(ctx context.Context, st *State, input string) Reply {
	input = strings.TrimSpace(input)

	if st.Stage != AwaitingScanRequest {
		if _, ok := cancelWords[strings.ToLower(input)]; ok {
			st.Reset()

			return m.reply(st, m.prompter.Cancelled())
		}
	}

	switch st.Stage {
	case AwaitingScanRequest:
		if !HasIntent(input) {
			return m.reply(st, m.prompter.Clarify())
		}
		st.Stage = AwaitingScanType

		return m.reply(st, m.prompter.AskScanType(m.scanTypes))

	case AwaitingScanType:
		c, ok := m.choice(input)
		if !ok {
			return m.reply(st, m.prompter.InvalidScanType(input, m.scanTypes))
		}
		st.ScanType = c.Type
		st.Stage = AwaitingPlatformID

		return m.reply(st, m.prompter.AskPlatform(reference.Platforms()))

	case AwaitingPlatformID:
		if !reference.HasPlatform(input) {
			return m.reply(st, m.prompter.InvalidPlatform(input))
		}
		st.PlatformID = input
		st.Stage = AwaitingChainID

		chains := reference.ChainsFor(input)
		if len(chains) == 0 {
			chains = fallbackChains(input)
		}

		return m.reply(st, m.prompter.AskChain(reference.Lookup(input, "").PlatformName(), chains))

	case AwaitingChainID:
		_, fallback := fallbackChainIDs[input]
		if !fallback && !reference.HasChain(st.PlatformID, input) {
			return m.reply(st, m.prompter.InvalidChain(input))
		}
		st.ChainID = input
		st.Stage = AwaitingContractAddress

		return m.reply(st, m.prompter.AskAddress())

	case AwaitingContractAddress:
		if !strings.HasPrefix(input, domain.AddressPrefix) {
			return m.reply(st, m.prompter.InvalidAddress(input))
		}
		st.ContractAddress = input

		return m.dispatch(ctx, st)

	default:
		logger.Warn(ctx, "conversation in unknown stage, resetting", zap.Stringer("stage", st.Stage))
		st.Reset()

		return m.reply(st, m.prompter.Clarify())
	}
}

func (m *Machine) dispatch(ctx context.Context, st *State) Reply {
	req := st.Request()
	scanType := st.ScanType
	match := reference.Lookup(req.PlatformID, req.ChainID)
	text := m.prompter.Dispatching(scanType, req, match.PlatformName(), match.ChainName())

	// the conversation ends here whatever the outcome
	st.Reset()

	logger.Info(ctx, "dispatching scan from conversation",
		zap.String("scanType", string(scanType)), zap.String("contract", req.ContractAddress))
	res := m.dispatcher.Scan(ctx, scanType, req)

	return Reply{Text: text, Stage: st.Stage, Result: &res}
}

func (m *Machine) choice(input string) (Choice, bool) {
	for _, c := range m.scanTypes {
		if c.Key == input {
			return c, true
		}
	}

	return Choice{}, false
}

func (m *Machine) reply(st *State, text string) Reply {
	return Reply{Text: text, Stage: st.Stage}
}

// HasIntent reports whether text asks for a scan.
func HasIntent(text string) bool {
	text = strings.ToLower(text)
	for _, k := range intentKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}

	return false
}
