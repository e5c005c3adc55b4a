package core

import "time"

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the summary a platform needs to drive the game.
type GameState struct {
	Score    int
	Running  bool
	GameOver bool
	Cause    string        // Why the run ended, empty while alive
	Elapsed  time.Duration // Length of the current or last run
}

// StepResult is returned after each simulation tick.
type StepResult struct {
	State   GameState
	Scored  int    // Points earned this tick
	Whisper string // Milestone message fired this tick
	Flapped bool   // The player flapped this tick
	Died    bool   // The run ended this tick
}
