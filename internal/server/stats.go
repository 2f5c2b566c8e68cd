package server

import (
	"sort"
	"sync"

	"github.com/lox/liarsbar/internal/game"
)

// PlayerStatistics tracks the record of one player name across matches
type PlayerStatistics struct {
	mu            sync.RWMutex
	matches       int
	wins          int
	eliminations  int
	challenges    int
	challengesWon int
	liesCaught    int
	honestCalled  int
	triggerPulls  int
	handsEmptied  int
}

// PlayerStats is the reported form of PlayerStatistics
type PlayerStats struct {
	Name          string  `json:"name"`
	Matches       int     `json:"matches"`
	Wins          int     `json:"wins"`
	WinRate       float64 `json:"winRate"`
	Eliminations  int     `json:"eliminations"`
	Challenges    int     `json:"challenges"`
	ChallengesWon int     `json:"challengesWon"`
	ChallengeRate float64 `json:"challengeSuccessRate"`
	LiesCaught    int     `json:"liesCaught"`
	HonestCalled  int     `json:"honestCalled"`
	TriggerPulls  int     `json:"triggerPulls"`
	HandsEmptied  int     `json:"handsEmptied"`
}

func (p *PlayerStatistics) report(name string) PlayerStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := PlayerStats{
		Name:          name,
		Matches:       p.matches,
		Wins:          p.wins,
		Eliminations:  p.eliminations,
		Challenges:    p.challenges,
		ChallengesWon: p.challengesWon,
		LiesCaught:    p.liesCaught,
		HonestCalled:  p.honestCalled,
		TriggerPulls:  p.triggerPulls,
		HandsEmptied:  p.handsEmptied,
	}
	if p.matches > 0 {
		out.WinRate = float64(p.wins) / float64(p.matches) * 100
	}
	if p.challenges > 0 {
		out.ChallengeRate = float64(p.challengesWon) / float64(p.challenges) * 100
	}
	return out
}

// StatsMonitor aggregates PlayerStatistics from match events. Names are the
// identity, so a player who keeps their name keeps their record.
type StatsMonitor struct {
	mu      sync.RWMutex
	players map[string]*PlayerStatistics
}

// NewStatsMonitor creates an empty stats monitor
func NewStatsMonitor() *StatsMonitor {
	return &StatsMonitor{players: make(map[string]*PlayerStatistics)}
}

func (s *StatsMonitor) player(name string) *PlayerStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[name]
	if !ok {
		p = &PlayerStatistics{}
		s.players[name] = p
	}
	return p
}

func (s *StatsMonitor) update(name string, fn func(p *PlayerStatistics)) {
	if name == "" {
		return
	}
	p := s.player(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

func (s *StatsMonitor) OnMatchStart(_ string, players []string) {
	for _, name := range players {
		s.update(name, func(p *PlayerStatistics) { p.matches++ })
	}
}

func (s *StatsMonitor) OnRoundResolved(_ string, _ int, summary game.RoundSummary) {
	switch summary.Result {
	case game.ResultLiar:
		s.update(summary.Challenger, func(p *PlayerStatistics) {
			p.challenges++
			p.challengesWon++
		})
		s.update(summary.Liar, func(p *PlayerStatistics) { p.liesCaught++ })
	case game.ResultTruth:
		s.update(summary.Challenger, func(p *PlayerStatistics) { p.challenges++ })
		s.update(summary.Liar, func(p *PlayerStatistics) { p.honestCalled++ })
	case game.ResultPlayerOut:
		s.update(summary.Player, func(p *PlayerStatistics) { p.handsEmptied++ })
		return
	}
	s.update(summary.Loser, func(p *PlayerStatistics) { p.triggerPulls++ })
}

func (s *StatsMonitor) OnMatchEnd(result MatchResult) {
	s.update(result.Winner, func(p *PlayerStatistics) { p.wins++ })
	for _, name := range result.Eliminated {
		s.update(name, func(p *PlayerStatistics) { p.eliminations++ })
	}
}

// Stats returns every player's record, most wins first
func (s *StatsMonitor) Stats() []PlayerStats {
	s.mu.RLock()
	out := make([]PlayerStats, 0, len(s.players))
	for name, p := range s.players {
		out = append(out, p.report(name))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Player returns one player's record
func (s *StatsMonitor) Player(name string) (PlayerStats, bool) {
	s.mu.RLock()
	p, ok := s.players[name]
	s.mu.RUnlock()
	if !ok {
		return PlayerStats{}, false
	}
	return p.report(name), true
}
