package analyzer

import (
	"fmt"

	"pixelarmies/internal/combat"
	"pixelarmies/internal/config"
)

// StompThreshold is the winner base HP fraction that counts as a stomp.
const StompThreshold = 0.70

const defaultTimeoutPolicy = "lower enemy base HP wins; ties draw"

// MatchupStats aggregates a batch. Averages are over every completed run.
type MatchupStats struct {
	Requested int `json:"requested"`
	Runs      int `json:"runs"`
	LeftWins  int `json:"left_wins"`
	RightWins int `json:"right_wins"`
	Draws     int `json:"draws"`
	Timeouts  int `json:"timeouts"`
	Stomps    int `json:"stomps"`

	AvgTimeToWin             float64 `json:"avg_time_to_win"`
	AvgWinnerBaseHpRemaining float64 `json:"avg_winner_base_hp_remaining"`

	MaxSeconds    float64 `json:"max_seconds"`
	TimeoutPolicy string  `json:"timeout_policy"`
	Truncated     bool    `json:"truncated,omitempty"`

	baseMaxHp float64
	sumTime   float64
	sumWinHp  float64
}

func newStats(cfg *config.SimConfig, maxSeconds float64, requested int) *MatchupStats {
	return &MatchupStats{
		Requested:     requested,
		MaxSeconds:    maxSeconds,
		TimeoutPolicy: defaultTimeoutPolicy,
		baseMaxHp:     cfg.BaseMaxHp,
	}
}

func (m *MatchupStats) add(o Outcome) {
	m.Runs++
	switch {
	case !o.Decided:
		m.Draws++
	case o.Winner == combat.SideLeft:
		m.LeftWins++
	default:
		m.RightWins++
	}
	if o.Timeout {
		m.Timeouts++
	}
	m.sumTime += o.Time
	m.sumWinHp += o.WinnerHp
	if o.WinnerHp > StompThreshold*m.baseMaxHp {
		m.Stomps++
	}
}

func (m *MatchupStats) finish() {
	n := float64(max(m.Runs, 1))
	m.AvgTimeToWin = m.sumTime / n
	m.AvgWinnerBaseHpRemaining = m.sumWinHp / n
}

func (m *MatchupStats) pct(n int) float64 {
	if m.Runs == 0 {
		return 0
	}
	return 100 * float64(n) / float64(m.Runs)
}

func (m *MatchupStats) LeftWinRate() float64  { return m.pct(m.LeftWins) }
func (m *MatchupStats) RightWinRate() float64 { return m.pct(m.RightWins) }
func (m *MatchupStats) DrawRate() float64     { return m.pct(m.Draws) }
func (m *MatchupStats) StompRate() float64    { return m.pct(m.Stomps) }

func (m *MatchupStats) String() string {
	return fmt.Sprintf(`Runs: %d
Left wins: %d (%.1f%%)
Right wins: %d (%.1f%%)
Draws: %d (%.1f%%)
Avg time-to-win: %.1fs
Avg winner base HP remaining: %.1f
Stomp rate (>70%% base HP): %.1f%%
Max sim time: %.1fs (timeout policy: %s)`,
		m.Runs,
		m.LeftWins, m.LeftWinRate(),
		m.RightWins, m.RightWinRate(),
		m.Draws, m.DrawRate(),
		m.AvgTimeToWin,
		m.AvgWinnerBaseHpRemaining,
		m.StompRate(),
		m.MaxSeconds, m.TimeoutPolicy)
}
