package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/game"
	"github.com/lox/liarsbar/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name     string
	matchID  string
	rank     deck.Rank
	cardIDs  []string
	declared int
}

// fakeCommander records requests and answers them with err
type fakeCommander struct {
	calls []call
	seat  int
	err   error
}

func (f *fakeCommander) record(c call) error {
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeCommander) ack(matchID string) server.AckData {
	seat := f.seat
	return server.AckData{OK: true, MatchID: matchID, Seat: &seat}
}

func (f *fakeCommander) Create(ctx context.Context, name string) (server.AckData, error) {
	return f.ack("ABC123"), f.record(call{name: "create"})
}

func (f *fakeCommander) Join(ctx context.Context, matchID, name string) (server.AckData, error) {
	return f.ack(matchID), f.record(call{name: "join", matchID: matchID})
}

func (f *fakeCommander) Start(ctx context.Context) error {
	return f.record(call{name: "start"})
}

func (f *fakeCommander) ChooseRank(ctx context.Context, rank deck.Rank) error {
	return f.record(call{name: "rank", rank: rank})
}

func (f *fakeCommander) Play(ctx context.Context, cardIDs []string, declared int) error {
	return f.record(call{name: "play", cardIDs: cardIDs, declared: declared})
}

func (f *fakeCommander) Accept(ctx context.Context) error { return f.record(call{name: "accept"}) }

func (f *fakeCommander) Challenge(ctx context.Context) error {
	return f.record(call{name: "challenge"})
}

func (f *fakeCommander) Spin(ctx context.Context) error { return f.record(call{name: "spin"}) }

func (f *fakeCommander) Fire(ctx context.Context) error { return f.record(call{name: "fire"}) }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestModel(commander Commander) *TUIModel {
	return NewTUIModelWithOptions(commander, nil, "alice", quietLogger(), true)
}

func push(t *testing.T, m *TUIModel, msgType server.MessageType, data any) {
	t.Helper()
	msg, err := server.NewMessage(msgType, data)
	require.NoError(t, err)
	m.Update(ServerMsg{Msg: msg})
}

// submit types input into the box and runs the resulting request to completion
func submit(t *testing.T, m *TUIModel, input string) {
	t.Helper()
	cmd := m.processAction(input)
	if cmd == nil {
		return
	}
	m.Update(cmd())
}

func TestParseCommand(t *testing.T) {
	hand := deck.MustParseCards("KS AH JOKER")

	tests := []struct {
		name    string
		input   string
		want    Command
		wantErr string
	}{
		{name: "create", input: "/create", want: Command{Name: "create"}},
		{name: "slash optional", input: "challenge", want: Command{Name: "challenge"}},
		{name: "case folded", input: "/ACCEPT", want: Command{Name: "accept"}},
		{name: "join", input: "/join ab12cd", want: Command{Name: "join", MatchID: "ab12cd"}},
		{name: "rank", input: "/rank q", want: Command{Name: "rank", Rank: deck.Queen}},
		{name: "play picks ids", input: "/play 3 1", want: Command{Name: "play", CardIDs: []string{"JOKER#2", "KS#0"}}},
		{name: "empty", input: "  ", wantErr: "type a command"},
		{name: "extra args", input: "/spin now", wantErr: "takes no arguments"},
		{name: "join needs code", input: "/join", wantErr: "usage"},
		{name: "joker is no table rank", input: "/rank joker", wantErr: "rank must be"},
		{name: "play needs cards", input: "/play", wantErr: "usage"},
		{name: "play out of range", input: "/play 4", wantErr: "no card at position 4"},
		{name: "play zero", input: "/play 0", wantErr: "no card at position 0"},
		{name: "play twice", input: "/play 2 2", wantErr: "picked twice"},
		{name: "unknown", input: "/fold", wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.input, hand)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeSummary(t *testing.T) {
	t.Run("liar caught", func(t *testing.T) {
		lines := describeSummary(game.RoundSummary{
			Result:      game.ResultLiar,
			Challenger:  "bob",
			Liar:        "alice",
			Loser:       "alice",
			LoserAlive:  true,
			Revealed:    deck.MustParseCards("QS"),
			NextChooser: "bob",
		})
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "Q♠")
		assert.Contains(t, lines[0], "a lie")
		assert.Contains(t, lines[1], "alice survives")
		assert.Contains(t, lines[2], "bob chooses next")
	})

	t.Run("honest play, loser out", func(t *testing.T) {
		lines := describeSummary(game.RoundSummary{
			Result:   game.ResultTruth,
			Loser:    "bob",
			Revealed: deck.MustParseCards("JOKER"),
		})
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "the truth")
		assert.Contains(t, lines[0], "JOKER")
	})

	t.Run("hand emptied", func(t *testing.T) {
		lines := describeSummary(game.RoundSummary{Result: game.ResultPlayerOut, Player: "carol"})
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "carol emptied their hand")
	})
}

func TestDescribeLogCoversEveryKind(t *testing.T) {
	kinds := []game.LogKind{
		game.LogPlayerConnected, game.LogPlayerReconnected, game.LogPlayerDisconnected,
		game.LogHostChanged, game.LogHostNone, game.LogGameStarted, game.LogRoundChooser,
		game.LogRoundStarted, game.LogDealShort, game.LogCardsPlayed, game.LogPlayAccepted,
		game.LogChallengeSuccess, game.LogChallengeFailed, game.LogGunSpun,
		game.LogPlayerEliminated, game.LogGameEnded, game.LogTurnTimeout,
	}
	for _, kind := range kinds {
		line := describeLog(game.SystemLog{Kind: kind, Name: "alice", By: "bob", Liar: "alice", Rank: "K", Winner: "bob", Count: 2})
		assert.NotEqual(t, string(kind), line, "no narration for %s", kind)
	}

	assert.Contains(t, describeLog(game.SystemLog{Kind: game.LogCardsPlayed, Name: "alice", Count: 2, Rank: "K"}), "plays 2 × K")
}

func TestFormatHand(t *testing.T) {
	assert.Contains(t, formatHand(nil), "(empty)")
	assert.Equal(t, "[]", formatCards(nil))

	hand := formatHand(deck.MustParseCards("KS AH"))
	assert.Contains(t, hand, "1:[")
	assert.Contains(t, hand, "K♠")
	assert.Contains(t, hand, "2:[")
	assert.Contains(t, hand, "A♥")
}

func TestTUITestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		m := newTestModel(&fakeCommander{})

		assert.True(t, m.IsTestMode())
		assert.Empty(t, m.GetCapturedLog())

		m.AddLogEntry("alice sat down")
		m.AddLogEntry("*** alice calls K ***")
		assert.Equal(t, []string{"alice sat down", "*** alice calls K ***"}, m.GetCapturedLog())
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		m := NewTUIModel(&fakeCommander{}, nil, "alice", quietLogger())
		assert.False(t, m.IsTestMode())
		m.AddLogEntry("Some log entry")
		assert.Nil(t, m.GetCapturedLog())
	})
}

func TestModelRunsCommands(t *testing.T) {
	commander := &fakeCommander{seat: 0}
	m := newTestModel(commander)

	assert.Equal(t, []string{"/create", "/join <code>"}, m.availableActions())

	submit(t, m, "/create")
	assert.Equal(t, "ABC123", m.matchID)
	assert.Equal(t, 0, m.seat)
	assert.Contains(t, m.GetCapturedLog()[0], "ABC123")

	hand := deck.MustParseCards("KS AH JOKER")
	push(t, m, server.MessageTypeHandUpdate, server.HandData{MatchID: "ABC123", Seat: 0, Cards: hand})
	assert.Equal(t, hand, m.Hand())

	submit(t, m, "/play 1 3")
	submit(t, m, "/rank K")
	submit(t, m, "/challenge")
	require.Len(t, commander.calls, 4)
	assert.Equal(t, call{name: "play", cardIDs: []string{"KS#0", "JOKER#2"}, declared: 2}, commander.calls[1])
	assert.Equal(t, call{name: "rank", rank: deck.King}, commander.calls[2])
	assert.Equal(t, "challenge", commander.calls[3].name)

	// parse errors never reach the server
	submit(t, m, "/play 9")
	assert.Len(t, commander.calls, 4)
	entries := m.GetCapturedLog()
	assert.Contains(t, entries[len(entries)-1], "no card at position 9")
}

func TestModelShowsRejections(t *testing.T) {
	commander := &fakeCommander{err: game.NewError(game.KindPrecondition, "not your turn")}
	m := newTestModel(commander)

	submit(t, m, "/accept")
	entries := m.GetCapturedLog()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[len(entries)-1], "/accept: not your turn")
}

func TestModelAppliesPushes(t *testing.T) {
	m := newTestModel(&fakeCommander{seat: 1})
	submit(t, m, "/join ROOM01")

	phase := game.PhaseRound
	rank := deck.Queen
	responder := 1
	push(t, m, server.MessageTypeGameUpdate, game.Snapshot{
		MatchID:        "ROOM01",
		State:          game.StatePlaying,
		Phase:          &phase,
		TableRank:      &rank,
		TurnIndex:      &responder,
		ResponderIndex: &responder,
		Round:          1,
		Host:           "bob",
		LastPlay:       &game.PlayView{Seat: 0, PlayerName: "bob", Count: 2},
		Seats: []game.SeatView{
			{Index: 0, Name: "bob", Connected: true, Alive: true, CardsCount: 3, IsHost: true},
			{Index: 1, Name: "alice", Connected: true, Alive: true, CardsCount: 5},
		},
	})
	require.NotNil(t, m.snapshot)
	assert.Equal(t, game.StatePlaying, m.snapshot.State)
	assert.Equal(t, []string{"/accept", "/challenge"}, m.availableActions())

	push(t, m, server.MessageTypeSystemLog, game.SystemLog{Kind: game.LogCardsPlayed, Name: "bob", Count: 2, Rank: "Q"})
	push(t, m, server.MessageTypeGunPending, game.GunPending{Seat: 1, Name: "alice", CanSpin: true})
	push(t, m, server.MessageTypeGunResult, game.GunResult{Seat: 1, Name: "alice"})

	entries := m.GetCapturedLog()
	require.GreaterOrEqual(t, len(entries), 3)
	tail := entries[len(entries)-3:]
	assert.Contains(t, tail[0], "bob: plays 2 × Q")
	assert.Contains(t, tail[1], "/spin, then /fire")
	assert.Contains(t, tail[2], "Click")

	gun := &game.GunView{Seat: 1, Name: "alice", CanSpin: false}
	gunPhase := game.PhaseGun
	m.snapshot.Phase = &gunPhase
	m.snapshot.TurnIndex = nil
	m.snapshot.ResponderIndex = nil
	m.snapshot.Gun = gun
	assert.Equal(t, []string{"/fire"}, m.availableActions())
}

func TestModelDisconnect(t *testing.T) {
	events := make(chan *server.Message)
	m := NewTUIModelWithOptions(&fakeCommander{}, events, "alice", quietLogger(), true)

	close(events)
	msg := m.waitForEvent()()
	assert.Equal(t, DisconnectedMsg{}, msg)

	_, cmd := m.Update(msg)
	assert.Nil(t, cmd)
	assert.Contains(t, m.GetCapturedLog()[0], "Disconnected")
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(&fakeCommander{})
	cmd := m.processAction("/quit")
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
}
