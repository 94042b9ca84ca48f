package atp

import "errors"

// ErrNoMatchingBranch is returned when inference reaches an internal node
// where neither branch condition accepts the query.
var ErrNoMatchingBranch = errors.New("atp: no matching branch")

// ErrNotTrained is returned by inference on a Learner that has no tree yet.
var ErrNotTrained = errors.New("atp: learner not trained")

// ErrNoTrainingPairs is returned by Train when given an empty training set.
var ErrNoTrainingPairs = errors.New("atp: no training pairs")
