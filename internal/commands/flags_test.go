package commands

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFlag(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		wantSet     bool
		wantSeconds float64
		wantErr     bool
	}{
		{name: "Absent", args: nil},
		{name: "Bare", args: []string{"-watch"}, wantSet: true},
		{name: "WithInterval", args: []string{"-watch=10"}, wantSet: true, wantSeconds: 10},
		{name: "Fractional", args: []string{"-watch=0.5"}, wantSet: true, wantSeconds: 0.5},
		{name: "ExplicitFalse", args: []string{"-watch=false"}},
		{name: "Invalid", args: []string{"-watch=soon"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var w watchFlag
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			fs.Var(&w, "watch", "")

			err := fs.Parse(tc.args)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSet, w.set)
			assert.Equal(t, tc.wantSeconds, w.seconds)
		})
	}
}

func TestWatchFlag_BareDoesNotConsumeArgument(t *testing.T) {
	var w watchFlag
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&w, "watch", "")

	require.NoError(t, fs.Parse([]string{"-watch", "BTC"}))

	assert.True(t, w.set)
	assert.Equal(t, []string{"BTC"}, fs.Args())
}

func TestEditFlag(t *testing.T) {
	var e editFlag
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&e, "edit", "")

	require.NoError(t, fs.Parse([]string{"-edit"}))
	assert.True(t, e.set)
	assert.Empty(t, e.editor)

	require.NoError(t, fs.Parse([]string{"-edit=code --wait"}))
	assert.True(t, e.set)
	assert.Equal(t, "code --wait", e.editor)
}
