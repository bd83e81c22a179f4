package ui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/driver"
)

func TestApplyEvents(t *testing.T) {
	m := NewProgressModel("scan", 3, nil).(*progressModel)
	m.record(driver.ProgressEvent{Path: "a.py", Done: 1, Total: 3, Refs: 2})
	m.record(driver.ProgressEvent{Path: "b.py", Done: 2, Total: 3, Unrecoverable: true})
	m.record(driver.ProgressEvent{Path: "c.py", Done: 3, Total: 3, Err: errors.New("boom")})

	assert.Equal(t, 3, m.done)
	assert.Equal(t, 2, m.refs)
	assert.Equal(t, 1, m.unrecovered)
	assert.Equal(t, 1, m.failed)
	require.Len(t, m.recent, 3)
	assert.Equal(t, "2 refs", m.recent[0].label())
	assert.Equal(t, "unrecoverable", m.recent[1].label())
	assert.Equal(t, "error", m.recent[2].label())

	view := m.View()
	assert.Contains(t, view, "3/3 files")
	assert.Contains(t, view, "2 refs")
	assert.Contains(t, view, "1 unrecoverable")
	assert.Contains(t, view, "1 failed")
}

func TestRecentIsBounded(t *testing.T) {
	m := NewProgressModel("scan", 20, nil).(*progressModel)
	for i := range 20 {
		m.record(driver.ProgressEvent{Path: fmt.Sprintf("f%02d.py", i), Done: i + 1, Total: 20})
	}
	require.Len(t, m.recent, recentLimit)
	assert.Equal(t, "f19.py", m.recent[recentLimit-1].path)
}

func TestDoneMessageQuits(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	close(events)
	m := NewProgressModel("scan", 0, events)
	msg := m.(*progressModel).next()()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.True(t, m.(*progressModel).finished)
	assert.Contains(t, m.View(), "✓")
	assert.Contains(t, m.View(), "scan")
}

func TestCtrlCInterrupts(t *testing.T) {
	m := NewProgressModel("scan", 1, nil)
	assert.False(t, Interrupted(m))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, Interrupted(m))
}

func TestCountersHideZeroProblems(t *testing.T) {
	m := NewProgressModel("scan", 1, nil).(*progressModel)
	m.record(driver.ProgressEvent{Path: "a.py", Done: 1, Total: 1, Refs: 4})
	assert.Equal(t, "4 refs", m.counters())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdefgh", 2))
	assert.Equal(t, "abcdefgh", truncate("abcdefgh", 0))
}
