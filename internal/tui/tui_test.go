package tui

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumfx/lbadmin/internal/auth"
	"github.com/aurumfx/lbadmin/internal/country"
	"github.com/aurumfx/lbadmin/internal/keyring"
	"github.com/aurumfx/lbadmin/internal/leaderboard"
	"github.com/aurumfx/lbadmin/internal/model"
)

// memGateway is a minimal in-memory trader collection.
type memGateway struct {
	mu       sync.Mutex
	traders  []model.Trader
	listErr  error
	reorders [][]model.RankAssignment
	updated  []model.TraderID
	deleted  []model.TraderID
	created  []model.Draft
}

func (g *memGateway) List(context.Context) ([]model.Trader, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	return slices.Clone(g.traders), nil
}

func (g *memGateway) Create(_ context.Context, d model.Draft) (model.Trader, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, d)
	t := model.Trader{ID: "new", Name: d.Name, Platform: d.Platform, RankPosition: len(g.traders) + 1}
	g.traders = append(g.traders, t)
	return t, nil
}

func (g *memGateway) Update(_ context.Context, id model.TraderID, d model.Draft) (model.Trader, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updated = append(g.updated, id)
	for i, t := range g.traders {
		if t.ID == id {
			g.traders[i].Name = d.Name
			return g.traders[i], nil
		}
	}
	return model.Trader{}, &model.ServerError{StatusCode: 404, Message: "trader not found"}
}

func (g *memGateway) Delete(_ context.Context, id model.TraderID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, id)
	g.traders = slices.DeleteFunc(g.traders, func(t model.Trader) bool { return t.ID == id })
	return nil
}

func (g *memGateway) Reorder(_ context.Context, orders []model.RankAssignment) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reorders = append(g.reorders, orders)
	byID := make(map[model.TraderID]model.Trader, len(g.traders))
	for _, t := range g.traders {
		byID[t.ID] = t
	}
	next := make([]model.Trader, 0, len(orders))
	for _, o := range orders {
		t := byID[o.ID]
		t.RankPosition = o.Rank
		next = append(next, t)
	}
	g.traders = next
	return nil
}

func trader(id, name, platform string, rank int) model.Trader {
	return model.Trader{
		ID:               model.TraderID(id),
		Name:             name,
		AccountBalance:   decimal.NewFromInt(int64(1000 * rank)),
		GrowthPercentage: decimal.NewFromInt(int64(rank)),
		Platform:         platform,
		CountryCode:      "US",
		RankPosition:     rank,
	}
}

type fixture struct {
	gw      *memGateway
	session *auth.SessionStore
	ctrl    *leaderboard.Controller
	logins  int
	login   LoginFunc
}

func newFixture(t *testing.T, loggedIn bool, traders ...model.Trader) *fixture {
	t.Helper()
	f := &fixture{gw: &memGateway{traders: traders}}
	f.session = auth.NewSessionStore(auth.NewKeyringPersister(keyring.NewMockStore()), zerolog.Nop())
	if loggedIn {
		require.NoError(t, f.session.RecordLogin("tok", "Admin"))
	}
	f.ctrl = leaderboard.NewController(f.gw, leaderboard.Options{
		Session:   f.session,
		Countries: country.Default(),
		Logger:    zerolog.Nop(),
	})
	f.login = func(_ context.Context, username, password string) (*auth.Credentials, error) {
		f.logins++
		if password != "secret" {
			return nil, &model.AuthorizationError{}
		}
		return &auth.Credentials{Token: "tok-" + username, DisplayName: "Admin"}, nil
	}
	return f
}

func (f *fixture) model() Model {
	return New(Deps{
		Session:    f.session,
		Guard:      auth.NewGuard(f.session),
		Login:      f.login,
		Controller: f.ctrl,
		Countries:  country.Default(),
		Logger:     zerolog.Nop(),
	})
}

func abc() []model.Trader {
	return []model.Trader{
		trader("A", "Ana", "MT4", 1),
		trader("B", "Bo", "cTrader", 2),
		trader("C", "Cy", "MT5", 3),
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// press sends keys in order and returns the command of the last one.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(t, m, k)
	}
	return m, cmd
}

// collect runs cmd and returns the messages it produced. Commands that do
// not finish promptly, such as cursor blinks, are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle runs cmd and feeds the results of our own async commands back in.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case LoginSucceededMsg, LoginFailedMsg, ReloadedMsg, MutationDoneMsg, ReorderSavedMsg:
			var next tea.Cmd
			m, next = update(t, m, msg)
			m = settle(t, m, next)
		}
	}
	return m
}

func loaded(t *testing.T, f *fixture) Model {
	t.Helper()
	m := f.model()
	m = settle(t, m, m.Init())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	return m
}

func TestNew_Unauthenticated_ShowsLogin(t *testing.T) {
	f := newFixture(t, false, abc()...)
	m := f.model()

	assert.Equal(t, ScreenLogin, m.Screen())
	_ = settle(t, m, m.Init())
	assert.Equal(t, leaderboard.PhaseIdle, f.ctrl.Phase())
}

func TestNew_Authenticated_LoadsLeaderboard(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	assert.Equal(t, ScreenLeaderboard, m.Screen())
	assert.Equal(t, leaderboard.PhaseReady, f.ctrl.Phase())
	assert.Equal(t, []model.TraderID{"A", "B", "C"}, f.ctrl.WorkingOrder())

	view := m.View()
	assert.Contains(t, view, "lbadmin")
	assert.Contains(t, view, "Ana")
	assert.Contains(t, view, "United States")
	assert.Contains(t, view, "Showing 1 to 3 of 3 entries")
	assert.Contains(t, view, "signed in as Admin")
}

func TestModelViewBeforeResize(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, "Loading...", f.model().View())
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, false, abc()...)
	m := f.model()

	m, _ = press(t, m, runes("admin"), key(tea.KeyEnter), runes("secret"))
	m, cmd := press(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.login.Submitting)

	m = settle(t, m, cmd)

	assert.Equal(t, ScreenLeaderboard, m.Screen())
	assert.True(t, f.session.IsAuthenticated())
	token, err := f.session.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-admin", token)
	assert.Equal(t, leaderboard.PhaseReady, f.ctrl.Phase())
}

func TestLogin_RejectedCredentials(t *testing.T) {
	f := newFixture(t, false)
	m := f.model()

	m, _ = press(t, m, runes("admin"), key(tea.KeyTab), runes("wrong"))
	m, cmd := press(t, m, key(tea.KeyEnter))
	m = settle(t, m, cmd)

	assert.Equal(t, ScreenLogin, m.Screen())
	assert.False(t, m.login.Submitting)
	assert.Equal(t, "Invalid username or password", m.login.Err)
	assert.False(t, f.session.IsAuthenticated())
}

func TestLogin_EmptyFieldsSkipRequest(t *testing.T) {
	f := newFixture(t, false)
	m := f.model()

	m, cmd := press(t, m, key(tea.KeyTab), key(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Equal(t, 0, f.logins)
	assert.NotEmpty(t, m.login.Err)
}

func TestLogin_EscQuits(t *testing.T) {
	f := newFixture(t, false)
	_, cmd := press(t, f.model(), key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestLeaderboard_DragAndSave(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, space())
	assert.Equal(t, ModeDrag, m.board.Mode)
	assert.Contains(t, m.View(), "» Ana")

	m, _ = press(t, m, key(tea.KeyDown), key(tea.KeyDown))
	assert.Equal(t, []model.TraderID{"A", "B", "C"}, f.ctrl.WorkingOrder(), "preview only")

	m, _ = press(t, m, key(tea.KeyEnter))
	assert.Equal(t, ModeNormal, m.board.Mode)
	assert.Equal(t, []model.TraderID{"B", "C", "A"}, f.ctrl.WorkingOrder())
	assert.True(t, f.ctrl.IsDirty())
	assert.Contains(t, m.View(), "unsaved rank order")

	m, cmd := press(t, m, runes("s"))
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)

	require.Len(t, f.gw.reorders, 1)
	assert.Equal(t, []model.RankAssignment{{ID: "B", Rank: 1}, {ID: "C", Rank: 2}, {ID: "A", Rank: 3}}, f.gw.reorders[0])
	assert.False(t, f.ctrl.IsDirty())
	assert.Equal(t, "Rank order saved", m.board.Status)
}

func TestLeaderboard_DragCancel(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, space(), key(tea.KeyDown), key(tea.KeyEsc))

	assert.Equal(t, ModeNormal, m.board.Mode)
	assert.False(t, f.ctrl.IsDirty())
	_, dragging := f.ctrl.Dragging()
	assert.False(t, dragging)
}

func TestLeaderboard_SaveWithoutChanges(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, cmd := press(t, m, runes("s"))

	assert.Nil(t, cmd)
	assert.True(t, m.board.StatusErr)
	assert.Empty(t, f.gw.reorders)
}

func TestLeaderboard_Search(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, runes("/"))
	assert.Equal(t, ModeSearch, m.board.Mode)

	m, _ = press(t, m, runes("ctr"))
	assert.Equal(t, "ctr", f.ctrl.SearchTerm())
	require.Len(t, f.ctrl.Filtered(), 1)
	assert.Equal(t, model.TraderID("B"), f.ctrl.Filtered()[0].ID)

	m, _ = press(t, m, key(tea.KeyEnter))
	assert.Equal(t, ModeNormal, m.board.Mode)
	assert.Equal(t, "ctr", f.ctrl.SearchTerm())
	assert.Contains(t, m.View(), "Filter: ")

	m, _ = press(t, m, runes("/"), key(tea.KeyEsc))
	assert.Empty(t, f.ctrl.SearchTerm())
	assert.Len(t, f.ctrl.Filtered(), 3)
}

func TestLeaderboard_Paging(t *testing.T) {
	traders := make([]model.Trader, 7)
	for i := range traders {
		traders[i] = trader(string(rune('A'+i)), "T"+string(rune('A'+i)), "MT4", i+1)
	}
	f := newFixture(t, true, traders...)
	m := loaded(t, f)

	m, _ = press(t, m, key(tea.KeyRight))
	assert.Equal(t, 2, f.ctrl.Page())
	assert.Contains(t, m.View(), "Showing 6 to 7 of 7 entries")

	m, _ = press(t, m, key(tea.KeyRight))
	assert.Equal(t, 2, f.ctrl.Page())

	_, _ = press(t, m, key(tea.KeyLeft))
	assert.Equal(t, 1, f.ctrl.Page())
}

func TestLeaderboard_AddValidationStaysOpen(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, runes("a"))
	require.Equal(t, ModeForm, m.board.Mode)

	m, cmd := press(t, m, runes("Dee"), key(tea.KeyCtrlS))

	assert.Nil(t, cmd)
	assert.Equal(t, ModeForm, m.board.Mode)
	assert.Contains(t, m.board.Form().Err, "account_balance")
	assert.Empty(t, f.gw.created)
}

func TestLeaderboard_AddTrader(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m,
		runes("a"),
		runes("Dee"), key(tea.KeyTab),
		runes("2500"), key(tea.KeyTab),
		runes("4.5"),
	)
	m, cmd := press(t, m, key(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	assert.Equal(t, ModeNormal, m.board.Mode)

	m = settle(t, m, cmd)

	require.Len(t, f.gw.created, 1)
	assert.Equal(t, "Dee", f.gw.created[0].Name)
	assert.Equal(t, model.DefaultPlatform, f.gw.created[0].Platform)
	assert.Equal(t, "Trader added", m.board.Status)
	assert.Len(t, f.ctrl.Traders(), 4)
}

func TestLeaderboard_EditTrader(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, key(tea.KeyDown), runes("e"))
	require.Equal(t, ModeForm, m.board.Mode)
	assert.Equal(t, model.TraderID("B"), m.board.Form().ID)
	assert.Equal(t, "Bo", m.board.Form().Input().Name)

	m, cmd := press(t, m, runes("b"), key(tea.KeyCtrlS))
	m = settle(t, m, cmd)

	assert.Equal(t, []model.TraderID{"B"}, f.gw.updated)
	got, ok := f.ctrl.Find("B")
	require.True(t, ok)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "Trader updated", m.board.Status)
}

func TestLeaderboard_FormEscCancels(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, runes("e"), key(tea.KeyEsc))

	assert.Equal(t, ModeNormal, m.board.Mode)
	assert.Nil(t, m.board.Form())
	assert.Empty(t, f.gw.updated)
}

func TestLeaderboard_DeleteConfirm(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, runes("d"))
	assert.Equal(t, ModeConfirmDelete, m.board.Mode)
	assert.Contains(t, m.View(), "Press Y to confirm, N to cancel")

	m, cmd := press(t, m, runes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, ModeNormal, m.board.Mode)
	assert.Empty(t, f.gw.deleted)

	m, cmd = press(t, m, runes("d"), runes("y"))
	m = settle(t, m, cmd)

	assert.Equal(t, []model.TraderID{"A"}, f.gw.deleted)
	assert.Equal(t, []model.TraderID{"B", "C"}, f.ctrl.WorkingOrder())
	assert.Equal(t, "Trader deleted", m.board.Status)
}

func TestLeaderboard_AuthorizationFailureRedirects(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	f.gw.listErr = &model.AuthorizationError{}
	_, cmd := press(t, m, runes("r"))
	m = settle(t, m, cmd)

	assert.Equal(t, ScreenLogin, m.Screen())
	assert.False(t, f.session.IsAuthenticated())
	assert.Equal(t, "Session expired, please log in again", m.login.Notice)
}

func TestLeaderboard_ServerErrorShown(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	f.gw.listErr = &model.ServerError{StatusCode: 500, Message: "database unavailable"}
	_, cmd := press(t, m, runes("r"))
	m = settle(t, m, cmd)

	assert.Equal(t, ScreenLeaderboard, m.Screen())
	assert.Equal(t, leaderboard.PhaseError, f.ctrl.Phase())
	assert.Contains(t, m.View(), "database unavailable")
	assert.Len(t, f.ctrl.Traders(), 3)
}

func TestModel_Logout(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, runes("L"))

	assert.Equal(t, ScreenLogin, m.Screen())
	assert.False(t, f.session.IsAuthenticated())
	assert.Empty(t, m.login.Notice)
}

func TestModel_QuitClosesController(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	err := f.ctrl.Reload(context.Background())
	assert.True(t, errors.Is(err, leaderboard.ErrClosed))
}

func TestModel_QuitKeyIgnoredWhileSearching(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	m, _ = press(t, m, runes("/"), runes("q"))

	assert.Equal(t, ModeSearch, m.board.Mode)
	assert.Equal(t, "q", f.ctrl.SearchTerm())
}

func TestRenderFooter_PerMode(t *testing.T) {
	f := newFixture(t, true, abc()...)
	m := loaded(t, f)

	assert.Contains(t, m.renderFooter(), "save order")

	m, _ = press(t, m, space())
	footer := m.renderFooter()
	assert.Contains(t, footer, "drop")
	assert.NotContains(t, footer, "save order")
}

func TestDescribeError(t *testing.T) {
	assert.Empty(t, describeError(nil))
	assert.Equal(t, "Session expired, please log in again", describeError(&model.AuthorizationError{Message: "token expired"}))
	assert.Equal(t, "Another operation is in progress", describeError(leaderboard.ErrBusy))
	assert.Equal(t, "duplicate rank", describeError(&model.ServerError{StatusCode: 409, Message: "duplicate rank"}))
	assert.Equal(t, "network error: timeout", describeError(&model.TransportError{Op: "GET", Err: errors.New("timeout")}))
}
