package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty maps a CLI value to a preset. Unknown values yield "",
// meaning the config is used unchanged.
func ParseDifficulty(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPreset widens or narrows the gates and the spawn cadence.
// Normal keeps the configured values.
func ApplyPreset(cfg *RavenConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.GapHeight *= 1.25
		cfg.Obstacles.SpawnIntervalMS = cfg.Obstacles.SpawnIntervalMS * 6 / 5
	case DifficultyHard:
		cfg.Obstacles.GapHeight *= 0.8
		cfg.Obstacles.SpawnIntervalMS = cfg.Obstacles.SpawnIntervalMS * 3 / 4
		cfg.Physics.ScrollSpeed *= 1.5
	}
}
