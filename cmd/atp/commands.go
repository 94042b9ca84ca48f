package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cours-de-latin/atp"
	"github.com/cours-de-latin/atp/render"
)

// writeOutput runs fn on stdout, or on the file at path when path is set.
// The file is closed before returning and a failed close is reported.
func writeOutput(stdout io.Writer, path string, fn func(w io.Writer) error) (err error) {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ---- predict ------------------------------------------------------------

func predictCmd(a *app) *cobra.Command {
	var trainPath, testPath, outPath string
	var relaxed bool
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Train on one dataset and inflect the lemmas of another",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, train, err := a.train(trainPath)
			if err != nil {
				return err
			}
			test, err := a.load(testPath)
			if err != nil {
				return err
			}

			correct, guessed := 0, 0
			err = writeOutput(cmd.OutOrStdout(), outPath, func(w io.Writer) error {
				for _, p := range test.Pairs {
					var pred atp.Prediction
					var err error
					if relaxed {
						pred, err = l.PredictIgnoringFeatures(p.Lemma, p.Features)
					} else {
						pred, err = l.Predict(p.Lemma, p.Features)
					}
					if err != nil {
						return err
					}
					if pred.Form == p.Inflected {
						correct++
					}
					if pred.Guessed {
						guessed++
					}
					if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", p.Lemma, pred.Form, p.Features); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			pr := printer()
			pr.Fprintf(cmd.ErrOrStderr(), "trained on %d pairs, %d leaves\n", len(train.Pairs), len(l.Leaves()))
			if n := len(test.Pairs); n > 0 {
				pr.Fprintf(cmd.ErrOrStderr(), "test accuracy %.4f (%d/%d), %d guessed\n",
					float64(correct)/float64(n), correct, n, guessed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&trainPath, "input", "i", "", "Training dataset")
	cmd.Flags().StringVarP(&testPath, "test", "t", "", "Test dataset")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write predictions here instead of stdout")
	cmd.Flags().BoolVar(&relaxed, "relaxed", false, "Ignore grammatical features when routing")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}

// ---- leaves -------------------------------------------------------------

func leavesCmd(a *app) *cobra.Command {
	var trainPath string
	cmd := &cobra.Command{
		Use:   "leaves",
		Short: "Train on a dataset and list the leaves of the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := a.train(trainPath)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, leaf := range l.Leaves() {
				fmt.Fprintf(w, "%s\t%d", leaf.Name(), len(leaf.Table().Vocabulary()))
				if r := leaf.ClosestRule(); r != nil {
					fmt.Fprintf(w, "\tclosest: %s (%d)", r.Name(), r.Hits())
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&trainPath, "input", "i", "", "Training dataset")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// ---- render -------------------------------------------------------------

func renderCmd(a *app) *cobra.Command {
	var trainPath, outPath, format, title string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Train on a dataset and draw the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "html" {
				return fmt.Errorf("unknown format %q (want dot or html)", format)
			}
			l, _, err := a.train(trainPath)
			if err != nil {
				return err
			}
			if title == "" {
				title = filepath.Base(trainPath)
			}
			return writeOutput(cmd.OutOrStdout(), outPath, func(w io.Writer) error {
				if format == "dot" {
					return render.DOT(w, l.Tree())
				}
				return render.HTML(w, l.Tree(), title)
			})
		},
	}
	cmd.Flags().StringVarP(&trainPath, "input", "i", "", "Training dataset")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format (dot, html)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title for html output")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// ---- eval ---------------------------------------------------------------

func evalCmd(a *app) *cobra.Command {
	var trainGlob, testPath string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Train on every file matching a glob and score each against one test set",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := filepath.Glob(trainGlob)
			if err != nil {
				return fmt.Errorf("glob %q: %w", trainGlob, err)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no training files match %q", trainGlob)
			}
			sort.Strings(paths)

			test, err := a.load(testPath)
			if err != nil {
				return err
			}
			runs := make([]atp.Run, 0, len(paths))
			for _, p := range paths {
				ds, err := a.load(p)
				if err != nil {
					return err
				}
				runs = append(runs, atp.Run{
					Name:         filepath.Base(p),
					Train:        ds.Pairs,
					Test:         test.Pairs,
					FeatureSpace: ds.FeatureSpace,
				})
			}

			rep, err := atp.Evaluate(runs, a.learnerOptions()...)
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().StringVar(&trainGlob, "train", "", "Glob of training datasets")
	cmd.Flags().StringVar(&testPath, "test", "", "Test dataset")
	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}

func writeReport(w io.Writer, rep *atp.Report) {
	pr := printer()
	pr.Fprintf(w, "run\ttrain\ttest\trelaxed\tguessed\tleaves\n")
	for _, r := range rep.Runs {
		pr.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%d\n",
			r.Name, r.TrainAccuracy, r.TestAccuracy, r.RelaxedAccuracy, r.GuessRate, r.Leaves)
	}
	pr.Fprintf(w, "mean test %.4f (sd %.4f), relaxed %.4f (sd %.4f), guessed %.4f over %d runs\n",
		rep.MeanTest, rep.StdTest, rep.MeanRelaxed, rep.StdRelaxed, rep.MeanGuessRate, len(rep.Runs))

	suffixes := make([]string, 0, len(rep.SuffixRuns))
	for s := range rep.SuffixRuns {
		suffixes = append(suffixes, s)
	}
	sort.Strings(suffixes)
	for _, s := range suffixes {
		label := s
		if label == "" {
			label = "∅"
		}
		pr.Fprintf(w, "productive -%s in %d/%d runs\n", label, rep.SuffixRuns[s], len(rep.Runs))
	}
}
