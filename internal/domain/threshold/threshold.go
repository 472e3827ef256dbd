// Package threshold evaluates a new score against a scenario's high
// score. The verdict is telemetry only: it is logged so the player can
// see how close a run came to "ready to move on", and it never gates
// ingestion or notifications.
package threshold

// defaultRatio matches the historical 95%-of-high-score check.
const defaultRatio = 0.95

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithRatio sets the pass threshold as a fraction of the high score.
func WithRatio(ratio float64) Option {
	return func(e *Evaluator) {
		if ratio > 0 && ratio <= 1 {
			e.ratio = ratio
		}
	}
}

// Verdict describes how a score compares to the scenario high score.
type Verdict struct {
	HighScore float64
	Threshold float64
	// PctFromHigh is the percentage gap to the high score; negative
	// when the score is below it.
	PctFromHigh float64
	Passed      bool
}

// Evaluator computes threshold verdicts.
type Evaluator struct {
	ratio float64
}

// New creates an Evaluator with configuration options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{ratio: defaultRatio}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate compares score against the scenario high score. A zero or
// negative high score never passes; it means there is nothing
// meaningful to compare against.
func (e *Evaluator) Evaluate(score, highScore float64) Verdict {
	if highScore <= 0 {
		return Verdict{HighScore: highScore}
	}
	t := e.ratio * highScore
	return Verdict{
		HighScore:   highScore,
		Threshold:   t,
		PctFromHigh: (score/highScore - 1) * 100,
		Passed:      score > t,
	}
}
