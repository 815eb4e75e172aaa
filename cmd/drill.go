package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/tutor"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Answer questions line by line, without the full-screen UI",
	Long: `Run a practice session for one topic, or a short exam, on plain stdin/stdout.

Answer with letters such as "B" or "A, C". Handy over SSH or in a terminal
that cannot host the full-screen interface.`,
	RunE: runDrill,
}

func init() {
	drillCmd.Flags().String("topic", "", "Topic ID to practice (see `az104 bank stats`)")
	drillCmd.Flags().Int("count", 0, "Exam length; drills an exam when --topic is empty (default 40)")
	drillCmd.Flags().Bool("explain", false, "Ask the AI tutor to explain wrong answers")
}

func runDrill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topicID, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")
	explain, _ := cmd.Flags().GetBool("explain")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := stderrLogger(cfg)
	if err != nil {
		return err
	}
	b, _, err := loadBank(ctx, cfg)
	if err != nil {
		return err
	}
	selector := newSelector(b, cfg)

	var (
		items []session.Item
		mode  = session.ModePractice
	)
	if topicID != "" {
		items, err = selector.SelectTopic(topicID)
		if err != nil {
			return fmt.Errorf("%w (known topics: %s)", err, strings.Join(b.TopicIDs(), ", "))
		}
	} else {
		if count <= 0 {
			count = session.SimulatedExamLength
		}
		mode = session.ModeExam
		items = selector.SelectExam(count)
	}

	var t *tutor.Service
	if explain {
		t, err = newTutor(ctx, logger)
		if err != nil {
			return fmt.Errorf("AI tutor: %w", err)
		}
	}

	d := &drill{
		engine: session.New(items, session.Options{Mode: mode, Budget: cfg.ExamBudget}),
		in:     bufio.NewScanner(cmd.InOrStdin()),
		out:    cmd.OutOrStdout(),
		tutor:  t,
	}
	return d.run(ctx)
}

// drill drives a session over line-oriented input.
type drill struct {
	engine *session.Session
	in     *bufio.Scanner
	out    io.Writer
	tutor  *tutor.Service
}

func (d *drill) run(ctx context.Context) error {
	e := d.engine
	if e.Timed() {
		fmt.Fprintf(d.out, "Exam: %d questions, %s on the clock.\n\n", e.Len(), session.FormatClock(e.RemainingTime()))
	} else {
		fmt.Fprintf(d.out, "Practice: %d questions.\n\n", e.Len())
	}

	for e.State() == session.StateInProgress {
		if e.Expire() {
			fmt.Fprintln(d.out, "\033[33mTime is up! The exam was submitted automatically.\033[0m")
			break
		}
		item, _ := e.Current()
		d.printQuestion(item)

		snap, err := d.answer()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(d.out, "\n(input closed)")
			return nil
		}
		if errors.Is(err, errTimeUp) {
			fmt.Fprintln(d.out, "\033[33mTime is up! That answer was not counted.\033[0m")
			break
		}
		if err != nil {
			return err
		}
		if e.Mode() == session.ModePractice {
			d.printFeedback(ctx, snap.Last)
		}
	}

	return d.printResult()
}

func (d *drill) printQuestion(item session.Item) {
	e := d.engine
	q := item.Question
	header := fmt.Sprintf("── Question %d/%d · %s ", e.Cursor()+1, e.Len(), item.TopicName)
	if e.Timed() {
		header += "· " + session.FormatClock(e.RemainingTime()) + " "
	}
	fmt.Fprintln(d.out, header+"──")
	fmt.Fprintln(d.out, q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(d.out, "  %s) %s\n", bank.Letter(i), opt)
	}
	if q.IsMultiple() {
		fmt.Fprintln(d.out, "Select all that apply, separated by commas.")
	}
}

var errTimeUp = errors.New("time is up")

// answer reads lines until the session accepts one as a selection for the
// current question.
func (d *drill) answer() (session.Snapshot, error) {
	for {
		fmt.Fprint(d.out, "\nYour answer: ")
		if !d.in.Scan() {
			return session.Snapshot{}, io.EOF
		}
		sel, err := bank.ParseLetters(d.in.Text())
		if err != nil {
			fmt.Fprintf(d.out, "%v. Try again.\n", err)
			continue
		}
		if d.engine.Expire() {
			return session.Snapshot{}, errTimeUp
		}
		snap, err := d.engine.Submit(sel)
		if errors.Is(err, session.ErrInvalidSelection) {
			fmt.Fprintf(d.out, "%v. Try again.\n", err)
			continue
		}
		return snap, err
	}
}

func (d *drill) printFeedback(ctx context.Context, a session.AnsweredQuestion) {
	if a.Correct {
		fmt.Fprintln(d.out, "\033[32m✓ Correct!\033[0m")
	} else {
		fmt.Fprintf(d.out, "\033[31m✗ Incorrect.\033[0m Correct answer: %s\n", bank.Letters(a.Question.Answer))
	}
	if a.Question.Explanation != "" {
		fmt.Fprintf(d.out, "Explanation: %s\n", a.Question.Explanation)
	}
	if !a.Correct && d.tutor != nil {
		ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		exp, err := d.tutor.Explain(ctx, a)
		if err != nil {
			fmt.Fprintf(d.out, "(tutor unavailable: %v)\n", err)
		} else {
			fmt.Fprintf(d.out, "Tutor: %s\n", exp.Summary)
			if exp.Mistake != "" {
				fmt.Fprintf(d.out, "  Your choice: %s\n", exp.Mistake)
			}
			fmt.Fprintf(d.out, "  Remember: %s\n", exp.Remember)
		}
	}
	fmt.Fprintln(d.out)
}

func (d *drill) printResult() error {
	res, err := d.engine.Result()
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out)
	switch {
	case res.Mode == session.ModePractice:
		fmt.Fprintln(d.out, "── Practice complete ──")
	case res.Passed:
		fmt.Fprintln(d.out, "\033[32m── PASSED ──\033[0m")
	default:
		fmt.Fprintln(d.out, "\033[31m── NOT PASSED ──\033[0m")
	}
	fmt.Fprintf(d.out, "Correct: %d of %d   Score: %.1f%%   Required: %.0f%%\n",
		res.Correct, res.Total, res.Percentage, session.PassThreshold)
	for _, ts := range res.ByTopic {
		fmt.Fprintf(d.out, "  %-40s %d/%d (%.1f%%)\n", ts.TopicName, ts.Correct, ts.Total, ts.Percent())
	}
	return nil
}
