package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cogniscreen/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	closed  int
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Close()               { s.closed++ }

// plainScreen does not implement screen.Closer.
type plainScreen struct{ title string }

func (s *plainScreen) Init() tea.Cmd                           { return nil }
func (s *plainScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *plainScreen) View(int, int) string                    { return s.title }
func (s *plainScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "dashboard"})

	patients := &stubScreen{title: "patients"}
	r.Push(patients)

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "patients", r.Active().Title())
	assert.True(t, patients.initRan)
}

func TestPop_ClosesScreen(t *testing.T) {
	dashboard := &stubScreen{title: "dashboard"}
	r := New(dashboard)

	run := &stubScreen{title: "assessment"}
	r.Push(run)
	r.Pop()

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "dashboard", r.Active().Title())
	assert.Equal(t, 1, run.closed)
	assert.Zero(t, dashboard.closed)
}

func TestPopNoopAtBottom(t *testing.T) {
	login := &stubScreen{title: "login"}
	r := New(login)

	r.Pop()

	assert.Equal(t, 1, r.Depth())
	assert.Zero(t, login.closed)
}

func TestReplace(t *testing.T) {
	login := &stubScreen{title: "login"}
	r := New(login)

	dashboard := &stubScreen{title: "dashboard"}
	r.Replace(dashboard)

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "dashboard", r.Active().Title())
	assert.True(t, dashboard.initRan)
	assert.Equal(t, 1, login.closed)
}

func TestReplaceScreenMsg(t *testing.T) {
	r := New(&stubScreen{title: "assessment"})

	result := &stubScreen{title: "result"}
	r.Update(ReplaceScreenMsg{Screen: result})

	assert.Equal(t, "result", r.Active().Title())
	assert.True(t, result.initRan)
}

func TestReplacePreservesStackDepth(t *testing.T) {
	r := New(&stubScreen{title: "dashboard"})
	r.Push(&stubScreen{title: "assessment"})

	r.Replace(&stubScreen{title: "result"})

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "result", r.Active().Title())
}

func TestReset_ClosesEveryScreen(t *testing.T) {
	dashboard := &stubScreen{title: "dashboard"}
	patients := &stubScreen{title: "patients"}
	run := &stubScreen{title: "assessment"}
	r := New(dashboard)
	r.Push(patients)
	r.Push(run)

	login := &stubScreen{title: "login"}
	r.Update(ResetScreenMsg{Screen: login})

	require.Equal(t, 1, r.Depth())
	assert.Equal(t, "login", r.Active().Title())
	assert.True(t, login.initRan)
	for _, s := range []*stubScreen{dashboard, patients, run} {
		assert.Equal(t, 1, s.closed, s.title)
	}
}

func TestPopToRoot(t *testing.T) {
	dashboard := &stubScreen{title: "dashboard"}
	picker := &stubScreen{title: "patients"}
	result := &stubScreen{title: "result"}
	r := New(dashboard)
	r.Push(picker)
	r.Push(result)

	r.Update(PopToRoot())

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "dashboard", r.Active().Title())
	assert.Equal(t, 1, picker.closed)
	assert.Equal(t, 1, result.closed)
	assert.Zero(t, dashboard.closed)
}

type resumingScreen struct {
	stubScreen
	resumed int
}

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return func() tea.Msg { return "resumed" }
}

func TestPop_ResumesScreenUnderneath(t *testing.T) {
	dashboard := &resumingScreen{stubScreen: stubScreen{title: "dashboard"}}
	r := New(dashboard)
	r.Push(&stubScreen{title: "reports"})

	cmd := r.Pop()

	require.NotNil(t, cmd)
	assert.Equal(t, "resumed", cmd())
	assert.Equal(t, 1, dashboard.resumed)
}

func TestPopToRoot_ResumesOnce(t *testing.T) {
	dashboard := &resumingScreen{stubScreen: stubScreen{title: "dashboard"}}
	r := New(dashboard)
	r.Push(&stubScreen{title: "tests"})
	r.Push(&stubScreen{title: "result"})

	r.PopToRoot()
	assert.Equal(t, 1, dashboard.resumed)

	assert.Nil(t, r.PopToRoot())
	assert.Equal(t, 1, dashboard.resumed)
}

func TestPopScreenWithoutCloser(t *testing.T) {
	r := New(&plainScreen{title: "dashboard"})
	r.Push(&plainScreen{title: "results"})

	r.Update(PopScreenMsg{})

	assert.Equal(t, "dashboard", r.Active().Title())
}

func TestUpdateForwardsToActive(t *testing.T) {
	dashboard := &stubScreen{title: "dashboard"}
	r := New(dashboard)
	patients := &stubScreen{title: "patients"}
	r.Push(patients)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.Len(t, patients.got, 1)
	assert.Empty(t, dashboard.got)
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "reports"}

	assert.Equal(t, PushScreenMsg{Screen: s}, Push(s)())
	assert.Equal(t, ReplaceScreenMsg{Screen: s}, Replace(s)())
	assert.Equal(t, PopScreenMsg{}, Pop())
}
