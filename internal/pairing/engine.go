package pairing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"league-companion/internal/constants"
	"league-companion/internal/domain"
)

// MatchSource supplies completed matches by date range and account
// filter. The engine performs a single batched query per run and never
// retries; retry policy belongs to the source.
type MatchSource interface {
	QueryByDateRange(ctx context.Context, start, end time.Time, accountIDs []string) ([]domain.RawMatch, error)
}

// Engine computes win-rate and surrender statistics for every subset of
// tracked players that played together.
type Engine struct {
	source MatchSource
	logger zerolog.Logger
}

func NewEngine(source MatchSource, logger zerolog.Logger) *Engine {
	return &Engine{source: source, logger: logger}
}

// tally is the mutable per-combination accumulator. Built once per run
// and discarded after conversion to output records.
type tally struct {
	aliases    []string
	wins       int
	losses     int
	surrenders int
}

// aliasOutcome is one alias's resolved result within a single match.
type aliasOutcome struct {
	win         bool
	surrendered bool
	conflicted  bool
	seen        bool
}

// Calculate runs a full pairing report for the given roster, period and
// game-mode category. Pure computation after the single match fetch.
func (e *Engine) Calculate(ctx context.Context, players []domain.Participant, start, end time.Time, serverID string, category domain.GameModeCategory) (*domain.ServerPairingStats, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown game mode category %q", category)
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	aliasByAccount := make(map[string]string)
	for _, p := range players {
		for _, a := range p.Accounts {
			aliasByAccount[a.AccountID] = p.DisplayName
		}
	}

	stats := &domain.ServerPairingStats{
		Version:      domain.PairingStatsVersion,
		RunID:        runID,
		ServerID:     serverID,
		Category:     category,
		PeriodStart:  start,
		PeriodEnd:    end,
		CalculatedAt: time.Now().UTC(),
	}

	if len(aliasByAccount) == 0 {
		e.logger.Debug().Str("server_id", serverID).Msg("no linked accounts, skipping match query")
		return stats, nil
	}

	accountIDs := make([]string, 0, len(aliasByAccount))
	for id := range aliasByAccount {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	matches, err := e.source.QueryByDateRange(ctx, start, end, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}

	var filtered struct {
		duration       int
		queue          int
		noParticipants int
		winConflict    int
	}

	tallies := make(map[string]*tally)

	for _, m := range matches {
		if m.Duration < int(constants.MinMatchDuration.Seconds()) {
			filtered.duration++
			e.logger.Debug().Str("match_id", m.MatchID).Int("duration", m.Duration).Msg("match filtered: below duration threshold")
			continue
		}
		if !category.Allows(m.Queue()) {
			filtered.queue++
			continue
		}

		outcomes := resolveAliasOutcomes(m, aliasByAccount)
		if len(outcomes) == 0 {
			filtered.noParticipants++
			e.logger.Debug().Str("match_id", m.MatchID).Msg("match filtered: no tracked participants")
			continue
		}

		aliases := make([]string, 0, len(outcomes))
		for alias, o := range outcomes {
			if o.conflicted {
				// Same alias with accounts on both outcomes, only seen in
				// custom games. Dropped from this match's combinations and
				// surfaced as its own diagnostic, distinct from ordinary
				// queue/duration filtering.
				filtered.winConflict++
				e.logger.Warn().Str("match_id", m.MatchID).Str("alias", alias).Msg("alias dropped: conflicting win flags across linked accounts")
				continue
			}
			aliases = append(aliases, alias)
		}
		if len(aliases) == 0 {
			continue
		}
		sort.Strings(aliases)

		stats.TotalMatchesAnalyzed++

		for _, combo := range combinations(aliases) {
			win := outcomes[combo[0]].win
			sameOutcome := true
			surrendered := false
			for _, alias := range combo {
				o := outcomes[alias]
				if o.win != win {
					// Members on opposing teams: skip this combination,
					// others from the same match still count.
					sameOutcome = false
					break
				}
				if o.surrendered {
					surrendered = true
				}
			}
			if !sameOutcome {
				continue
			}

			key := strings.Join(combo, ",")
			t, ok := tallies[key]
			if !ok {
				t = &tally{aliases: combo}
				tallies[key] = t
			}
			if win {
				t.wins++
			} else {
				t.losses++
				// Surrenders only ever count on losses; an enemy team
				// surrendering is not a tracked player's surrender.
				if surrendered {
					t.surrenders++
				}
			}
		}
	}

	stats.TotalMatchesFiltered = filtered.duration + filtered.queue + filtered.noParticipants

	e.logger.Info().
		Str("server_id", serverID).
		Str("category", string(category)).
		Int("analyzed", stats.TotalMatchesAnalyzed).
		Int("filtered_duration", filtered.duration).
		Int("filtered_queue", filtered.queue).
		Int("filtered_no_participants", filtered.noParticipants).
		Int("alias_win_conflicts", filtered.winConflict).
		Msg("pairing calculation complete")

	stats.IndividualStats, stats.Pairings = convertTallies(tallies)
	return stats, nil
}

// resolveAliasOutcomes collapses per-account participations to per-alias
// outcomes. An alias whose accounts disagree on win/loss within the match
// is marked conflicted.
func resolveAliasOutcomes(m domain.RawMatch, aliasByAccount map[string]string) map[string]*aliasOutcome {
	outcomes := make(map[string]*aliasOutcome)
	for _, mp := range m.Participants {
		alias, tracked := aliasByAccount[mp.AccountID]
		if !tracked {
			continue
		}
		o, ok := outcomes[alias]
		if !ok {
			o = &aliasOutcome{}
			outcomes[alias] = o
		}
		if o.seen && o.win != mp.Win {
			o.conflicted = true
		}
		o.seen = true
		o.win = mp.Win
		if mp.Surrendered {
			o.surrendered = true
		}
	}
	return outcomes
}

// convertTallies turns accumulators into sorted output records:
// single-alias keys become individual stats, multi-alias keys pairings.
func convertTallies(tallies map[string]*tally) ([]domain.IndividualPlayerStats, []domain.PairingStatsEntry) {
	var individuals []domain.IndividualPlayerStats
	var pairings []domain.PairingStatsEntry

	for _, t := range tallies {
		total := t.wins + t.losses
		winRate := 0.0
		if total > 0 {
			winRate = float64(t.wins) / float64(total)
		}
		if len(t.aliases) == 1 {
			individuals = append(individuals, domain.IndividualPlayerStats{
				Alias:      t.aliases[0],
				Wins:       t.wins,
				Losses:     t.losses,
				Surrenders: t.surrenders,
				TotalGames: total,
				WinRate:    winRate,
			})
		} else {
			pairings = append(pairings, domain.PairingStatsEntry{
				Players:    t.aliases,
				Wins:       t.wins,
				Losses:     t.losses,
				Surrenders: t.surrenders,
				TotalGames: total,
				WinRate:    winRate,
			})
		}
	}

	sort.Slice(individuals, func(i, j int) bool {
		if individuals[i].TotalGames != individuals[j].TotalGames {
			return individuals[i].TotalGames > individuals[j].TotalGames
		}
		return individuals[i].Alias < individuals[j].Alias
	})
	sort.Slice(pairings, func(i, j int) bool {
		if pairings[i].TotalGames != pairings[j].TotalGames {
			return pairings[i].TotalGames > pairings[j].TotalGames
		}
		return strings.Join(pairings[i].Players, ",") < strings.Join(pairings[j].Players, ",")
	})
	return individuals, pairings
}
