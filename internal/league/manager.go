package league

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/oddlab/oddeven/engine"
	"github.com/oddlab/oddeven/strategy"
)

// MatchRunner plays one in-progress match to completion. Implemented by the
// referee; injected so the league never depends on orchestration details.
type MatchRunner interface {
	RunMatch(ctx context.Context, m *Match) (engine.GameResult, error)
}

// ResultStore persists completed matches. A nil store disables persistence.
type ResultStore interface {
	SaveMatchResult(ctx context.Context, m *Match) error
}

// Entrant enrolls one player into a tournament under a registered strategy.
type Entrant struct {
	PlayerID     string
	StrategyName string
}

// Standing is one player's cumulative tournament record.
type Standing struct {
	PlayerID  string
	Wins      int
	Losses    int
	Ties      int
	RoundsWon int
}

// Manager runs round-robin tournaments: it schedules pairings, walks each
// match through its lifecycle and hands it to the runner, then accumulates
// standings.
type Manager struct {
	registry *Registry
	rules    engine.GameRules
	cfg      strategy.Config
	runner   MatchRunner
	store    ResultStore
	log      *logrus.Entry
}

// NewManager wires a tournament manager. registry and runner are required;
// store may be nil.
func NewManager(registry *Registry, rules engine.GameRules, cfg strategy.Config, runner MatchRunner, store ResultStore, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		registry: registry,
		rules:    rules,
		cfg:      cfg,
		runner:   runner,
		store:    store,
		log:      logger.WithField("component", "league"),
	}
}

// RunTournament plays a full round-robin among the entrants and returns the
// final standings, best record first. Each entrant keeps one strategy
// instance across all its matches; per-game learned state stays isolated by
// game ID. seed makes the whole tournament reproducible.
func (mgr *Manager) RunTournament(ctx context.Context, entrants []Entrant, seed int64) ([]Standing, error) {
	if len(entrants) < 2 {
		return nil, fmt.Errorf("league: need at least 2 entrants, got %d", len(entrants))
	}

	players := make(map[string]*MatchPlayer, len(entrants))
	ids := make([]string, 0, len(entrants))
	for i, e := range entrants {
		if _, dup := players[e.PlayerID]; dup {
			return nil, fmt.Errorf("league: duplicate entrant %q", e.PlayerID)
		}
		s, err := mgr.registry.Create(e.StrategyName, mgr.cfg, rand.New(rand.NewSource(seed+int64(i))))
		if err != nil {
			return nil, err
		}
		players[e.PlayerID] = &MatchPlayer{ID: e.PlayerID, Strategy: s}
		ids = append(ids, e.PlayerID)
	}

	records := make(map[string]*Standing, len(entrants))
	for _, id := range ids {
		records[id] = &Standing{PlayerID: id}
	}

	schedule := CreateRoundRobinSchedule(ids)
	matchIndex := 0
	for roundIdx, pairings := range schedule {
		for _, pair := range pairings {
			m := NewMatch(mgr.rules, mgr.log.Logger)
			m.LeagueRound = roundIdx + 1

			p1 := &MatchPlayer{ID: pair.Player1, Strategy: players[pair.Player1].Strategy}
			p2 := &MatchPlayer{ID: pair.Player2, Strategy: players[pair.Player2].Strategy}
			if err := m.SetPlayers(p1, p2); err != nil {
				return nil, err
			}
			if _, err := m.MarkPlayerReady(p1.ID); err != nil {
				return nil, err
			}
			if _, err := m.MarkPlayerReady(p2.ID); err != nil {
				return nil, err
			}

			// Alternate the odd role across matches so neither seat is
			// systematically favored.
			role := engine.ParityOdd
			if matchIndex%2 == 1 {
				role = engine.ParityEven
			}
			if err := m.CreateGame(role); err != nil {
				return nil, err
			}
			if err := m.Start(); err != nil {
				return nil, err
			}

			result, err := mgr.runner.RunMatch(ctx, m)
			if err != nil {
				return nil, fmt.Errorf("league: match %s: %w", m.ID, err)
			}
			mgr.tally(records, pair, result)

			if mgr.store != nil {
				if err := mgr.store.SaveMatchResult(ctx, m); err != nil {
					mgr.log.WithError(err).WithField("match_id", m.ID).Error("failed to persist match result")
				}
			}
			matchIndex++
		}
	}

	standings := make([]Standing, 0, len(records))
	for _, id := range ids {
		standings = append(standings, *records[id])
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].RoundsWon > standings[j].RoundsWon
	})
	return standings, nil
}

func (mgr *Manager) tally(records map[string]*Standing, pair Pairing, result engine.GameResult) {
	r1, r2 := records[pair.Player1], records[pair.Player2]
	r1.RoundsWon += result.Player1Score
	r2.RoundsWon += result.Player2Score

	switch result.WinnerID {
	case pair.Player1:
		r1.Wins++
		r2.Losses++
	case pair.Player2:
		r2.Wins++
		r1.Losses++
	default:
		r1.Ties++
		r2.Ties++
	}
}
