package atp

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Run is one train/test split of an experiment.
type Run struct {
	Name  string
	Train []Pair
	Test  []Pair
	// FeatureSpace defaults to the features observed in Train.
	FeatureSpace Features
}

// RunResult holds the measurements of one run.
type RunResult struct {
	Name          string
	TrainAccuracy float64
	TestAccuracy  float64
	// RelaxedAccuracy is the test accuracy when grammatical features are ignored.
	RelaxedAccuracy float64
	// GuessRate is the share of test queries answered by the nearest-neighbour guess.
	GuessRate float64
	Leaves    int
	// Suffixes lists the distinct suffixes of productive leaves.
	Suffixes []string
}

// Report summarizes an experiment over several runs.
type Report struct {
	Runs []RunResult

	MeanTest, StdTest       float64
	MeanRelaxed, StdRelaxed float64
	MeanGuessRate           float64
	// SuffixRuns counts, per suffix, the runs in which it was productive.
	SuffixRuns map[string]int
}

// Evaluate trains a fresh Learner per run and scores it on the run's test set.
func Evaluate(runs []Run, opts ...Option) (*Report, error) {
	rep := &Report{SuffixRuns: make(map[string]int)}
	var test, relaxed, guess []float64
	for _, run := range runs {
		space := run.FeatureSpace
		if len(space) == 0 {
			space = FeatureSpace(run.Train)
		}
		l := New(space, opts...)
		if err := l.Train(run.Train); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.Name, err)
		}
		res, err := score(l, run)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", run.Name, err)
		}
		for _, s := range res.Suffixes {
			rep.SuffixRuns[s]++
		}
		rep.Runs = append(rep.Runs, res)
		test = append(test, res.TestAccuracy)
		relaxed = append(relaxed, res.RelaxedAccuracy)
		guess = append(guess, res.GuessRate)
	}
	rep.MeanTest, rep.StdTest = meanStdDev(test)
	rep.MeanRelaxed, rep.StdRelaxed = meanStdDev(relaxed)
	rep.MeanGuessRate, _ = meanStdDev(guess)
	return rep, nil
}

func score(l *Learner, run Run) (RunResult, error) {
	res := RunResult{Name: run.Name, TrainAccuracy: l.Accuracy(run.Train)}
	correct, relaxedCorrect, guesses := 0, 0, 0
	for _, p := range run.Test {
		pred, err := l.Predict(p.Lemma, p.Features)
		if err != nil {
			return res, err
		}
		if pred.Form == p.Inflected {
			correct++
		}
		if pred.Guessed {
			guesses++
		}
		form, err := l.InflectIgnoringFeatures(p.Lemma, Features{})
		if err != nil {
			return res, err
		}
		if form == p.Inflected {
			relaxedCorrect++
		}
	}
	if n := float64(len(run.Test)); n > 0 {
		res.TestAccuracy = float64(correct) / n
		res.RelaxedAccuracy = float64(relaxedCorrect) / n
		res.GuessRate = float64(guesses) / n
	}

	suffixes := make(map[string]bool)
	for _, leaf := range l.Leaves() {
		res.Leaves++
		if s, ok := leaf.ProductiveSuffix(); ok {
			suffixes[s] = true
		}
	}
	for s := range suffixes {
		res.Suffixes = append(res.Suffixes, s)
	}
	sort.Strings(res.Suffixes)
	return res, nil
}

// meanStdDev is stat.MeanStdDev with a zero deviation for fewer than two values.
func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
