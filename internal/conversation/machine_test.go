package conversation_test

import (
	"context"
	"contractscanner/internal/conversation"
	"contractscanner/pkg/domain"
	"strings"
	"testing"

	mockscanner "contractscanner/internal/scanner/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestMachine(t *testing.T, opts conversation.Options) (*mockscanner.MockScanner, *conversation.Machine) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := mockscanner.NewMockScanner(ctrl)

	return d, conversation.New(d, opts)
}

func steps(t *testing.T, m *conversation.Machine, st *conversation.State, inputs ...string) conversation.Reply {
	t.Helper()

	var r conversation.Reply
	for _, in := range inputs {
		r = m.Step(context.Background(), st, in)
	}

	return r
}

func TestHasIntent(t *testing.T) {
	for _, in := range []string{
		"please SCAN this", "Audit my token", "can you check it", "any Vulnerabilities?",
		"is it secure", "look at my contract", "threat report",
	} {
		require.True(t, conversation.HasIntent(in), in)
	}
	for _, in := range []string{"", "hello", "what's the weather"} {
		require.False(t, conversation.HasIntent(in), in)
	}
}

func TestMachine_ClarifiesWithoutIntent(t *testing.T) {
	_, m := newTestMachine(t, conversation.Options{})
	var st conversation.State

	r := m.Step(context.Background(), &st, "hello there")
	require.Equal(t, conversation.AwaitingScanRequest, st.Stage)
	require.Equal(t, conversation.AgentPrompter{}.Clarify(), r.Text)
	require.Nil(t, r.Result)
}

func TestMachine_HappyPathDispatchesAndResets(t *testing.T) {
	d, m := newTestMachine(t, conversation.Options{})
	var st conversation.State

	r := m.Step(context.Background(), &st, "I want to scan a contract")
	require.Equal(t, conversation.AwaitingScanType, r.Stage)

	r = m.Step(context.Background(), &st, "2")
	require.Equal(t, conversation.AwaitingPlatformID, r.Stage)
	require.Equal(t, domain.ScanTypeThreat, st.ScanType)
	require.Contains(t, r.Text, "etherscan.io")

	r = m.Step(context.Background(), &st, " 1 ")
	require.Equal(t, conversation.AwaitingChainID, r.Stage)
	require.Equal(t, "1", st.PlatformID)
	require.Contains(t, r.Text, "kovan")

	r = m.Step(context.Background(), &st, "4")
	require.Equal(t, conversation.AwaitingContractAddress, r.Stage)
	require.Equal(t, "4", st.ChainID)

	want := domain.ScanRequest{PlatformID: "1", ChainID: "4", ContractAddress: "0xdead"}
	done := domain.Done("ok", nil)
	d.EXPECT().Scan(gomock.Any(), domain.ScanTypeThreat, want).Return(done)

	r = m.Step(context.Background(), &st, "0xdead")
	require.NotNil(t, r.Result)
	require.Equal(t, done, *r.Result)
	require.Equal(t, conversation.AwaitingScanRequest, r.Stage)
	require.Equal(t, conversation.State{}, st)
	require.Contains(t, r.Text, "0xdead")
}

func TestMachine_ResetsAfterFailedDispatch(t *testing.T) {
	d, m := newTestMachine(t, conversation.Options{})
	var st conversation.State

	steps(t, m, &st, "scan", "1", "2", "1")
	require.Equal(t, conversation.AwaitingContractAddress, st.Stage)

	d.EXPECT().Scan(gomock.Any(), domain.ScanTypeVulnerability, gomock.Any()).
		Return(domain.Failed("API request failed with status code 500", nil, nil))

	r := m.Step(context.Background(), &st, "0x1")
	require.False(t, r.Result.OK())
	require.Equal(t, conversation.State{}, st)
}

func TestMachine_InvalidInputKeepsStage(t *testing.T) {
	_, m := newTestMachine(t, conversation.Options{})
	var st conversation.State

	steps(t, m, &st, "check my contract")

	// "3" is combined, which the default menu does not offer
	for _, in := range []string{"9", "3", "vulnerability", ""} {
		r := m.Step(context.Background(), &st, in)
		require.Equal(t, conversation.AwaitingScanType, r.Stage, in)
	}

	steps(t, m, &st, "1")
	r := m.Step(context.Background(), &st, "20")
	require.Equal(t, conversation.AwaitingPlatformID, r.Stage, "platform 20 is not in the table")

	steps(t, m, &st, "2")
	r = m.Step(context.Background(), &st, "4")
	require.Equal(t, conversation.AwaitingChainID, r.Stage, "chain 4 is not a bscscan chain")

	steps(t, m, &st, "2")
	r = m.Step(context.Background(), &st, "1234")
	require.Equal(t, conversation.AwaitingContractAddress, r.Stage)
	require.Equal(t, conversation.AgentPrompter{}.InvalidAddress("1234"), r.Text)
	require.Empty(t, st.ContractAddress)
}

func TestMachine_ChainFallbackForPlatformWithoutChains(t *testing.T) {
	_, m := newTestMachine(t, conversation.Options{})
	var st conversation.State

	// buildbear has no chains in the table
	r := steps(t, m, &st, "scan", "1", "10")
	require.Equal(t, conversation.AwaitingChainID, r.Stage)
	require.Contains(t, r.Text, "mainnet")
	require.Contains(t, r.Text, "testnet")

	r = m.Step(context.Background(), &st, "3")
	require.Equal(t, conversation.AwaitingChainID, r.Stage)

	r = m.Step(context.Background(), &st, "2")
	require.Equal(t, conversation.AwaitingContractAddress, r.Stage)
}

func TestMachine_CLIMenuOffersCombined(t *testing.T) {
	d, m := newTestMachine(t, conversation.Options{
		ScanTypes: conversation.CLIScanTypes(),
		Prompter:  conversation.CLIPrompter{},
	})
	var st conversation.State

	r := m.Start(&st)
	require.Equal(t, conversation.AwaitingScanType, r.Stage)
	require.Contains(t, r.Text, "3. Combined Scan (Both)")

	d.EXPECT().Scan(gomock.Any(), domain.ScanTypeCombined, gomock.Any()).Return(domain.Done("ok", nil))
	r = steps(t, m, &st, "3", "1", "1", "0xabc")
	require.True(t, r.Result.OK())
	require.True(t, strings.HasPrefix(r.Text, "Performing combined scan on contract 0xabc on etherscan.io"))
}

func TestMachine_Cancel(t *testing.T) {
	_, m := newTestMachine(t, conversation.Options{})
	var st conversation.State

	steps(t, m, &st, "scan", "1", "1")
	require.Equal(t, conversation.AwaitingChainID, st.Stage)

	r := m.Step(context.Background(), &st, "CANCEL")
	require.Equal(t, conversation.AwaitingScanRequest, r.Stage)
	require.Equal(t, conversation.State{}, st)
	require.Equal(t, conversation.AgentPrompter{}.Cancelled(), r.Text)

	// idle conversations treat the words as ordinary text
	r = m.Step(context.Background(), &st, "reset")
	require.Equal(t, conversation.AgentPrompter{}.Clarify(), r.Text)
}

func TestState_Reset(t *testing.T) {
	st := conversation.State{
		Stage:           conversation.AwaitingContractAddress,
		ScanType:        domain.ScanTypeThreat,
		PlatformID:      "1",
		ChainID:         "1",
		ContractAddress: "0x1",
	}
	st.Reset()
	require.Equal(t, conversation.State{}, st)
	require.Equal(t, "awaiting_scan_request", st.Stage.String())
}
