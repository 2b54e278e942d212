package timeline

import (
	"raidplan/internal/config"
	"raidplan/internal/util"
)

const (
	DefaultFPS             = 30
	DefaultCostUnit        = 10000
	DefaultMaxCost         = 10
	DefaultRegenStartDelay = 2.0
	DefaultDuration        = 240.0
	DefaultCascadeAttempts = 3000
	DefaultFillerLoopCap   = 5000
	DefaultInitialMove     = 2.0
	DefaultBonusDelay      = 0.05
)

// Settings are the per-encounter tunables shared by every engine stage.
type Settings struct {
	FPS             int                `json:"fps"`
	CostUnit        float64            `json:"costUnit"`
	MaxCost         float64            `json:"maxCost"`
	RegenStartDelay float64            `json:"regenStartDelay"`
	Duration        float64            `json:"duration"`
	CascadeAttempts int                `json:"cascadeAttempts"`
	FillerLoopCap   int                `json:"fillerLoopCap"`
	InitialMove     float64            `json:"initialMove"`
	InitialMoves    map[string]float64 `json:"initialMoves,omitempty"`
	BonusDelay      float64            `json:"bonusDelay"`
}

func DefaultSettings() Settings {
	return Settings{
		FPS:             DefaultFPS,
		CostUnit:        DefaultCostUnit,
		MaxCost:         DefaultMaxCost,
		RegenStartDelay: DefaultRegenStartDelay,
		Duration:        DefaultDuration,
		CascadeAttempts: DefaultCascadeAttempts,
		FillerLoopCap:   DefaultFillerLoopCap,
		InitialMove:     DefaultInitialMove,
		BonusDelay:      util.SnapUp(DefaultBonusDelay, DefaultFPS),
	}
}

// SettingsFrom overlays the non-zero fields of an encounter document onto
// the defaults.
func SettingsFrom(ec *config.EncounterConfig) Settings {
	s := DefaultSettings()
	if ec == nil {
		return s
	}
	if ec.FPS > 0 {
		s.FPS = ec.FPS
	}
	if ec.Duration > 0 {
		s.Duration = ec.Duration
	}
	if ec.MaxCost > 0 {
		s.MaxCost = ec.MaxCost
	}
	if ec.CostUnit > 0 {
		s.CostUnit = ec.CostUnit
	}
	if ec.RegenStartDelay != nil {
		s.RegenStartDelay = *ec.RegenStartDelay
	}
	if ec.CascadeAttempts > 0 {
		s.CascadeAttempts = ec.CascadeAttempts
	}
	if ec.FillerLoopCap > 0 {
		s.FillerLoopCap = ec.FillerLoopCap
	}
	if ec.InitialMove != nil {
		s.InitialMove = *ec.InitialMove
	}
	bonus := DefaultBonusDelay
	if ec.BonusDelay != nil {
		bonus = *ec.BonusDelay
	}
	s.BonusDelay = util.SnapUp(bonus, s.FPS)
	s.InitialMove = util.SnapToFrame(s.InitialMove, s.FPS)
	if len(ec.InitialMoves) > 0 {
		s.InitialMoves = make(map[string]float64, len(ec.InitialMoves))
		for id, d := range ec.InitialMoves {
			s.InitialMoves[id] = util.SnapToFrame(d, s.FPS)
		}
	}
	return s
}

func (s Settings) Frame() float64 { return 1 / float64(s.FPS) }

// InitialMoveFor is the entry walk of one actor, 0 disabling it.
func (s Settings) InitialMoveFor(actorID string) float64 {
	if d, ok := s.InitialMoves[actorID]; ok {
		return d
	}
	return s.InitialMove
}

// WithInitialMove returns a copy with the actor's entry walk replaced.
func (s Settings) WithInitialMove(actorID string, d float64) Settings {
	moves := make(map[string]float64, len(s.InitialMoves)+1)
	for k, v := range s.InitialMoves {
		moves[k] = v
	}
	moves[actorID] = util.SnapToFrame(d, s.FPS)
	s.InitialMoves = moves
	return s
}
