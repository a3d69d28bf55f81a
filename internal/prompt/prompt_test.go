package prompt

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(input string) (*Runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewRunner(strings.NewReader(input), out, "[?] "), out
}

var amountQuestion = Question[float64]{
	ID:       "amount",
	Text:     "What amount?",
	Required: true,
	Convert: func(answer string) (float64, error) {
		v, err := strconv.ParseFloat(answer, 64)
		if err != nil || v < 0 {
			return 0, Invalid("Invalid amount provided")
		}
		return v, nil
	},
}

func TestAsk(t *testing.T) {
	t.Run("ConvertsAnswer", func(t *testing.T) {
		r, out := newRunner("2.5\n")

		v, err := Ask(context.Background(), r, amountQuestion)

		require.NoError(t, err)
		assert.Equal(t, 2.5, v)
		assert.Equal(t, "[?] What amount? ", out.String())
		assert.Equal(t, 1, r.Lines())
	})

	t.Run("RepromptsUntilValid", func(t *testing.T) {
		// Arrange
		r, out := newRunner("\nabc\n-1\n4\n")

		// Act
		v, err := Ask(context.Background(), r, amountQuestion)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 4.0, v)
		assert.Equal(t, 4, strings.Count(out.String(), "What amount?"))
		assert.Contains(t, out.String(), ">> Value must be provided")
		assert.Equal(t, 2, strings.Count(out.String(), ">> Invalid amount provided"))
		assert.Equal(t, 7, r.Lines())
	})

	t.Run("UsesDefault", func(t *testing.T) {
		r, out := newRunner("\n")

		v, err := Ask(context.Background(), r, Question[string]{
			ID:      "base",
			Text:    "Base currency?",
			Default: "USD",
			Convert: Upper,
		})

		require.NoError(t, err)
		assert.Equal(t, "USD", v)
		assert.Equal(t, "[?] Base currency? (USD) ", out.String())
	})

	t.Run("Validator", func(t *testing.T) {
		r, out := newRunner("x\nxyz\n")

		v, err := Ask(context.Background(), r, Question[string]{
			ID:   "code",
			Text: "Code?",
			Validate: func(answer string) error {
				if len(answer) < 3 {
					return Invalid("too short")
				}
				return nil
			},
			Convert: Upper,
		})

		require.NoError(t, err)
		assert.Equal(t, "XYZ", v)
		assert.Contains(t, out.String(), ">> too short")
	})

	t.Run("EndOfInputInterrupts", func(t *testing.T) {
		r, _ := newRunner("abc\n")

		_, err := Ask(context.Background(), r, amountQuestion)

		assert.ErrorIs(t, err, ErrInterrupted)
	})

	t.Run("CanceledContextInterrupts", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		r := NewRunner(pr, io.Discard, "")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Ask(ctx, r, amountQuestion)

		assert.ErrorIs(t, err, ErrInterrupted)
	})

	t.Run("MissingConverter", func(t *testing.T) {
		r, _ := newRunner("a\n")
		_, err := Ask(context.Background(), r, Question[string]{ID: "broken"})
		assert.Error(t, err)
	})
}

func TestConfirm(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		def      bool
		expected bool
	}{
		{name: "Yes", input: "y\n", def: false, expected: true},
		{name: "No", input: "no\n", def: true, expected: false},
		{name: "Default yes", input: "\n", def: true, expected: true},
		{name: "Default no", input: "\n", def: false, expected: false},
		{name: "Reprompt", input: "maybe\nY\n", def: false, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newRunner(tc.input)
			v, err := Confirm(context.Background(), r, "Continue?", tc.def)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestMultiSelect(t *testing.T) {
	t.Run("PicksInOrder", func(t *testing.T) {
		// Arrange
		r, out := newRunner("3, 1 3\n")

		// Act
		picked, err := MultiSelect(context.Background(), r, "Which?", []string{"BTC (1)", "ETH (4)", "TRX (2000)"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []int{2, 0}, picked)
		assert.Contains(t, out.String(), "  2) ETH (4)")
		assert.Equal(t, 5, r.Lines())
	})

	t.Run("EmptySelectsNothing", func(t *testing.T) {
		r, _ := newRunner("\n")
		picked, err := MultiSelect(context.Background(), r, "Which?", []string{"BTC (1)"})
		require.NoError(t, err)
		assert.Empty(t, picked)
	})

	t.Run("OutOfRangeReprompts", func(t *testing.T) {
		r, out := newRunner("5\n1\n")
		picked, err := MultiSelect(context.Background(), r, "Which?", []string{"BTC (1)"})
		require.NoError(t, err)
		assert.Equal(t, []int{0}, picked)
		assert.Contains(t, out.String(), ">> Choose numbers between 1 and 1")
	})
}
