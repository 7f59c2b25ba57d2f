package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
)

func TestParseWindow(t *testing.T) {
	now := time.Date(2024, 6, 30, 15, 4, 5, 0, time.UTC)

	type testCase struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantErr   error
	}

	tests := []testCase{
		{name: "Defaults", wantStart: "2024-05-31", wantEnd: "2024-06-30"},
		{name: "StartOnly", start: "2024-06-01", wantStart: "2024-06-01", wantEnd: "2024-06-30"},
		{name: "Both", start: "2024-01-01", end: "2024-01-31", wantStart: "2024-01-01", wantEnd: "2024-01-31"},
		{name: "SameDay", start: "2024-01-01", end: "2024-01-01", wantStart: "2024-01-01", wantEnd: "2024-01-01"},
		{name: "EndBeforeStart", start: "2024-02-01", end: "2024-01-01", wantErr: reconcile.ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := parseWindow(tt.start, tt.end, now, 30)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, w.Start.Format(time.DateOnly))
			assert.Equal(t, tt.wantEnd, w.End.Format(time.DateOnly))
		})
	}

	_, err := parseWindow("yesterday", "", now, 30)
	assert.ErrorContains(t, err, "--start-date")
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"verbose", "balances", "start-date", "end-date", "cursor-sync", "account", "parallel"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	for short, long := range map[string]string{"v": "verbose", "b": "balances", "s": "start-date", "e": "end-date"} {
		f := cmd.Flags().ShorthandLookup(short)
		require.NotNil(t, f, short)
		assert.Equal(t, long, f.Name)
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer

	p := newProgressReporter(&buf)
	obs := p.observer("checking")

	obs.PageFetched(reconcile.Progress{Pages: 1, Items: 500, Total: 1234})
	assert.Contains(t, buf.String(), "500/1234")

	buf.Reset()
	obs.PageFetched(reconcile.Progress{Pages: 2, Items: 12, Total: -1})
	assert.True(t, strings.Contains(buf.String(), "page 2, 12 changes"))
}
