package raven

import (
	"math/rand"
	"time"
)

// whisperState tracks the milestone messages. A whisper fires at most once
// per milestone and disappears at its deadline.
type whisperState struct {
	every     int
	duration  time.Duration
	messages  []string
	enabled   bool
	milestone int // last score that fired a whisper
	text      string
	until     time.Duration
}

// due reports whether score is a new milestone.
func (w *whisperState) due(score int) bool {
	return w.enabled && w.every > 0 && len(w.messages) > 0 &&
		score > 0 && score%w.every == 0 && score != w.milestone
}

// fire picks a message for the milestone and shows it until now+duration.
func (w *whisperState) fire(rng *rand.Rand, score int, now time.Duration) string {
	w.milestone = score
	w.text = w.messages[rng.Intn(len(w.messages))]
	w.until = now + w.duration
	return w.text
}

// expire hides the message once its deadline passed.
func (w *whisperState) expire(now time.Duration) {
	if w.text != "" && now >= w.until {
		w.text = ""
	}
}

func (w *whisperState) reset() {
	w.milestone = 0
	w.text = ""
	w.until = 0
}
