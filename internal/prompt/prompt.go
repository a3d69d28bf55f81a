// Package prompt runs line-oriented interactive questions. A question is a
// plain value describing its text, default, validation and conversion; the
// Runner asks it until a valid answer arrives.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInterrupted is returned when the user aborts (interrupt signal or end
// of input) while a question is pending.
var ErrInterrupted = errors.New("prompt interrupted")

// ValidationError is reported to the user before asking again. It never
// leaves the runner.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Question describes one prompt producing a value of type T.
type Question[T any] struct {
	ID       string
	Text     string
	Default  string
	Required bool
	Validate func(answer string) error
	Convert  func(answer string) (T, error)
}

// Runner asks questions on out and reads answers line by line from in.
type Runner struct {
	in     io.Reader
	out    io.Writer
	prefix string
	lines  chan string
	lineNo int
}

// NewRunner creates a Runner. prefix is printed before every question.
func NewRunner(in io.Reader, out io.Writer, prefix string) *Runner {
	return &Runner{in: in, out: out, prefix: prefix}
}

// Lines returns how many terminal lines the runner has printed so far,
// counting the line each answer is typed on.
func (r *Runner) Lines() int {
	return r.lineNo
}

// Println prints a line of text and counts it.
func (r *Runner) Println(text string) {
	fmt.Fprintln(r.out, text)
	r.lineNo += strings.Count(text, "\n") + 1
}

// readLine waits for the next input line. The scanner goroutine is started
// on first use so that a runner which never asks anything never reads.
func (r *Runner) readLine(ctx context.Context) (string, error) {
	if r.lines == nil {
		r.lines = make(chan string)
		go func(lines chan<- string) {
			defer close(lines)
			scanner := bufio.NewScanner(r.in)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}(r.lines)
	}

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case line, ok := <-r.lines:
		if !ok {
			return "", ErrInterrupted
		}
		return line, nil
	}
}

// Ask runs q until the answer validates and converts. Validation and
// conversion failures are printed and the same question is asked again.
func Ask[T any](ctx context.Context, r *Runner, q Question[T]) (T, error) {
	var zero T
	if q.Convert == nil {
		return zero, fmt.Errorf("question %q has no converter", q.ID)
	}

	for {
		text := r.prefix + q.Text
		if q.Default != "" {
			text += " (" + q.Default + ")"
		}
		fmt.Fprint(r.out, text+" ")

		line, err := r.readLine(ctx)
		if err != nil {
			fmt.Fprintln(r.out)
			return zero, err
		}
		r.lineNo++

		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = q.Default
		}

		if answer == "" && q.Required {
			r.Println(">> Value must be provided")
			continue
		}
		if q.Validate != nil {
			if err := q.Validate(answer); err != nil {
				r.Println(">> " + err.Error())
				continue
			}
		}

		value, err := q.Convert(answer)
		if err != nil {
			r.Println(">> " + err.Error())
			continue
		}
		return value, nil
	}
}

// String returns the answer unchanged.
func String(answer string) (string, error) {
	return answer, nil
}

// Upper returns the answer in upper case.
func Upper(answer string) (string, error) {
	return strings.ToUpper(answer), nil
}

// Confirm asks a yes/no question. An empty answer selects def.
func Confirm(ctx context.Context, r *Runner, text string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	return Ask(ctx, r, Question[bool]{
		ID:   "confirm",
		Text: text + " (" + hint + ")",
		Convert: func(answer string) (bool, error) {
			switch strings.ToLower(answer) {
			case "":
				return def, nil
			case "y", "yes":
				return true, nil
			case "n", "no":
				return false, nil
			}
			return false, Invalid("Please answer y or n")
		},
	})
}

// MultiSelect lists choices and asks for a comma or space separated list
// of their numbers. It returns the chosen indexes in the order given;
// an empty answer selects nothing.
func MultiSelect(ctx context.Context, r *Runner, text string, choices []string) ([]int, error) {
	r.Println(r.prefix + text)
	for i, choice := range choices {
		r.Println(fmt.Sprintf("  %d) %s", i+1, choice))
	}

	return Ask(ctx, r, Question[[]int]{
		ID:   "select",
		Text: "Select (e.g. 1,3):",
		Convert: func(answer string) ([]int, error) {
			fields := strings.FieldsFunc(answer, func(c rune) bool {
				return c == ',' || c == ' '
			})
			seen := make(map[int]bool, len(fields))
			var picked []int
			for _, f := range fields {
				n, err := strconv.Atoi(f)
				if err != nil || n < 1 || n > len(choices) {
					return nil, Invalid("Choose numbers between 1 and %d", len(choices))
				}
				if !seen[n] {
					seen[n] = true
					picked = append(picked, n-1)
				}
			}
			return picked, nil
		},
	})
}
