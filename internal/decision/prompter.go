package decision

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when input ends before a prompt is answered.
var ErrInputClosed = errors.New("input closed")

// Prompter drives the interactive decision questionnaire.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter creates a Prompter reading answers from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask writes prompt and returns the next input line.
func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", ErrInputClosed
	}
	return p.scanner.Text(), nil
}

// Evaluate asks a Y/N question per factor, re-asking on anything else, and
// prints and returns the recommendation.
func (p *Prompter) Evaluate(d *Decision) (string, error) {
	fmt.Fprintln(p.out, "Answer Y or N for the following questions")

	answers := make([]float64, 0, len(d.Factors))
	for _, factor := range d.Factors {
		for {
			val, err := p.ask(factor + " ")
			if err != nil {
				return "", err
			}
			switch strings.ToUpper(strings.TrimSpace(val)) {
			case "Y":
				answers = append(answers, 1)
			case "N":
				answers = append(answers, 0)
			default:
				fmt.Fprintln(p.out, "Invalid Input")
				continue
			}
			break
		}
	}

	rec, err := d.Recommend(answers)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.out, rec)
	return rec, nil
}

// Build sets up a new Decision from a series of prompts. When shouldEvaluate is
// set it then offers to evaluate the factors until the user quits.
func (p *Prompter) Build(shouldEvaluate bool) (*Decision, error) {
	label, err := p.ask("What would you like to decide today? ")
	if err != nil {
		return nil, err
	}
	label = strings.TrimSpace(label)

	count, err := p.askInt("How many factors does this depend on? ", func(v int) bool { return v > 0 },
		func(raw string) string { return fmt.Sprintf("%s isn't a valid number of factors, enter a positive number: ", raw) })
	if err != nil {
		return nil, err
	}

	factors := make([]string, 0, count)
	weights := make([]float64, 0, count)
	for i := 1; i <= count; i++ {
		factor, err := p.ask(fmt.Sprintf("Factor %d: ", i))
		if err != nil {
			return nil, err
		}
		factor = strings.TrimSpace(factor)

		weight, err := p.askInt(fmt.Sprintf("How much does %s matter to you (0-10)? ", factor),
			func(v int) bool { return v >= 0 && v <= 10 },
			func(raw string) string { return fmt.Sprintf("%s isn't a valid value, enter a number 0 - 10: ", raw) })
		if err != nil {
			return nil, err
		}

		factors = append(factors, factor)
		weights = append(weights, float64(weight))
	}

	d, err := New(label, weights, factors)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(p.out, "Decision Created!")

	for shouldEvaluate {
		command, err := p.ask("Type 'q' to quit or 'f' to try new factors ")
		if err != nil {
			return nil, err
		}
		switch strings.TrimSpace(command) {
		case "q":
			shouldEvaluate = false
		case "f":
			if _, err := p.Evaluate(d); err != nil {
				return nil, err
			}
		default:
			fmt.Fprintln(p.out, "Invalid command")
		}
	}
	return d, nil
}

// askInt re-prompts with retry(raw) until the answer parses and satisfies valid.
func (p *Prompter) askInt(prompt string, valid func(int) bool, retry func(raw string) string) (int, error) {
	for {
		raw, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(raw)
		if v, err := strconv.Atoi(raw); err == nil && valid(v) {
			return v, nil
		}
		prompt = retry(raw)
	}
}
