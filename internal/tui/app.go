package tui

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DaylightE/Log-Highlighter/internal/logging"
	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/profile"
	"github.com/DaylightE/Log-Highlighter/internal/report"
	"github.com/DaylightE/Log-Highlighter/internal/session"
	"github.com/DaylightE/Log-Highlighter/internal/source"
	"github.com/DaylightE/Log-Highlighter/internal/store"
	"github.com/DaylightE/Log-Highlighter/internal/util"
	"github.com/DaylightE/Log-Highlighter/internal/visibility"
)

type viewState int

const (
	viewLoading viewState = iota
	viewLog               // the highlighted log
	viewExtras            // editing extra names
	viewSenders           // list of speakers
	viewMessage           // single message
)

// PreferenceStore persists viewer settings.
type PreferenceStore interface {
	LoadPreferences(ctx context.Context) (store.Preferences, error)
	SavePreferences(ctx context.Context, p store.Preferences) error
}

// ProfileLookup resolves profile genders and links.
type ProfileLookup interface {
	LookupAll(ctx context.Context, names []string) map[string]profile.Gender
	URL(name string) string
}

// Options configures the viewer.
type Options struct {
	// Source is a file path, "-" for stdin, or an http(s) URL.
	Source       string
	HTTPClient   *http.Client
	Capabilities session.Capabilities
	// Defaults are used when Store is nil or has nothing saved yet.
	Defaults store.Preferences
	Location *time.Location
	Store    PreferenceStore
	Profiles ProfileLookup
	// OpenURL opens a link in a browser; nil uses profile.OpenBrowser.
	OpenURL func(url string) error
	Logger  *slog.Logger
}

type AppModel struct {
	// Core state
	opts   Options
	log    *slog.Logger
	Err    error
	status string

	// View state machine
	view      viewState
	sess      *session.Session
	current   session.View
	items     []visibility.Item
	itemLines []int
	cursor    int
	detailMsg int

	// Preferences not owned by the session
	compact     bool
	headerShown bool
	genders     map[string]profile.Gender

	// Sub-models
	logViewport viewport.Model
	msgViewport viewport.Model
	extrasInput textinput.Model
	sendersList list.Model

	// Layout
	width, height int
}

func NewAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.OpenURL == nil {
		opts.OpenURL = profile.OpenBrowser
	}

	ti := textinput.New()
	ti.Placeholder = "Carol, Dave Smith"
	ti.CharLimit = 2048

	sl := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	sl.Title = "People"
	// Remove esc from the list's built-in Quit binding so it returns to the log
	sl.KeyMap.Quit.SetKeys("q")

	return AppModel{
		opts:        opts,
		log:         opts.Logger,
		status:      "Loading...",
		view:        viewLoading,
		genders:     make(map[string]profile.Gender),
		headerShown: true,
		logViewport: viewport.New(0, 0),
		msgViewport: viewport.New(0, 0),
		extrasInput: ti,
		sendersList: sl,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.loadCmd(m.opts.Source)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sendersList.SetSize(msg.Width, msg.Height-4) // room for footer
		m.msgViewport.Width = msg.Width
		m.msgViewport.Height = max(1, msg.Height-4)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		if msg.err != nil {
			if m.sess == nil {
				m.Err = msg.err
				m.status = "Loading failed!"
				return m, tea.Quit
			}
			m.status = fmt.Sprintf("Load failed: %v", msg.err)
			return m, clearStatusAfter(3 * time.Second)
		}
		return m, m.startSession(msg.doc, msg.prefs)

	case gendersMsg:
		for name, g := range msg.genders {
			m.genders[strings.ToLower(name)] = g
		}
		m.layout()
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			m.log.Warn("action failed", "action", msg.action, "error", msg.err)
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		} else {
			m.status = fmt.Sprintf("%s complete", msg.action)
		}
		return m, clearStatusAfter(2 * time.Second)

	case statusMsg:
		if string(msg) == "" {
			m.status = ""
			m.layout()
		}
		return m, nil
	}

	// Delegate to active sub-model
	var cmd tea.Cmd
	switch m.view {
	case viewLog:
		m.logViewport, cmd = m.logViewport.Update(msg)
	case viewExtras:
		m.extrasInput, cmd = m.extrasInput.Update(msg)
	case viewSenders:
		m.sendersList, cmd = m.sendersList.Update(msg)
	case viewMessage:
		m.msgViewport, cmd = m.msgViewport.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) startSession(doc source.Document, prefs store.Preferences) tea.Cmd {
	roles := prefs.Roles
	m.sess = session.New(doc, session.Options{
		Capabilities: m.opts.Capabilities,
		Extras:       prefs.Extras,
		Roles:        &roles,
		LocalTimes:   prefs.LocalTimes,
		Location:     m.opts.Location,
		Logger:       m.log,
	})
	m.compact = prefs.Compact
	m.headerShown = prefs.HeaderShown
	m.current = m.sess.View()
	m.cursor = 0
	m.view = viewLog
	m.status = ""
	m.refresh()
	m.logViewport.GotoTop()
	m.log.Info("log loaded", "messages", len(m.sess.Records()), "url", doc.URL)
	return m.lookupGendersCmd()
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.view {
	case viewLoading:
		if key == "q" {
			return m, tea.Quit
		}
		return m, nil

	case viewLog:
		return m.handleLogKey(msg)

	case viewExtras:
		switch key {
		case "enter":
			raw := m.extrasInput.Value()
			m.extrasInput.Blur()
			m.view = viewLog
			if raw == "" {
				m.apply(session.SetExtras{Names: nil})
			} else {
				m.apply(session.SetExtras{Raw: raw})
			}
			return m, m.savePrefsCmd()
		case "esc":
			m.extrasInput.Blur()
			m.view = viewLog
			return m, nil
		}
		var cmd tea.Cmd
		m.extrasInput, cmd = m.extrasInput.Update(msg)
		return m, cmd

	case viewSenders:
		// When the list is filtering, let it handle all keys except ctrl+c
		if m.sendersList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.sendersList, cmd = m.sendersList.Update(msg)
			return m, cmd
		}
		switch key {
		case "q":
			return m, tea.Quit
		case "esc":
			m.view = viewLog
			return m, nil
		case "enter":
			return m.toggleSelectedSender()
		}
		var cmd tea.Cmd
		m.sendersList, cmd = m.sendersList.Update(msg)
		return m, cmd

	case viewMessage:
		switch key {
		case "q":
			return m, tea.Quit
		case "esc":
			m.view = viewLog
			return m, nil
		case " ":
			m.apply(session.ToggleSelect{Index: m.detailMsg})
			return m, nil
		case "o":
			return m, m.openProfileCmd(SenderName(m.sess.Records()[m.detailMsg]))
		}
		var cmd tea.Cmd
		m.msgViewport, cmd = m.msgViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *AppModel) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rep := m.sess.Report()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.moveCursor(-len(m.items))
	case "G", "end":
		m.moveCursor(len(m.items))
	case " ":
		if it, ok := m.currentItem(); ok && !it.IsPlaceholder() {
			m.apply(session.ToggleSelect{Index: it.Message})
		}
	case "enter":
		return m.enter()
	case "h":
		m.apply(session.ToggleHide{})
	case "a":
		m.apply(session.ToggleAds{})
	case "1":
		m.apply(session.ToggleRole{Role: model.RoleReported})
		return m, m.savePrefsCmd()
	case "2":
		m.apply(session.ToggleRole{Role: model.RoleSubmitter})
		return m, m.savePrefsCmd()
	case "3":
		m.apply(session.ToggleRole{Role: model.RoleExtra})
		return m, m.savePrefsCmd()
	case "n":
		if i, ok := m.sess.Next(); ok {
			m.moveCursorTo(i)
		}
	case "N":
		if i, ok := m.sess.Previous(); ok {
			m.moveCursorTo(i)
		}
	case "e":
		m.extrasInput.SetValue(util.FormatNames(m.sess.Names().Extras))
		m.extrasInput.CursorEnd()
		m.view = viewExtras
		return m, m.extrasInput.Focus()
	case "p":
		m.sendersList.SetItems(sendersToItems(Senders(m.sess.Records(), m.current.Roles), m.sess.Names().Extras))
		m.view = viewSenders
	case "t":
		m.sess.Apply(session.SetLocalTimes{On: !m.sess.LocalTimes()})
		m.refresh()
		return m, m.savePrefsCmd()
	case "c":
		m.compact = !m.compact
		m.refresh()
		return m, m.savePrefsCmd()
	case "H":
		m.headerShown = !m.headerShown
		m.layout()
		return m, m.savePrefsCmd()
	case "r":
		return m, m.openProfileCmd(rep.ReportingUser)
	case "s":
		return m, m.openProfileCmd(rep.SubmittedBy)
	case "[", "]":
		prev, next, ok := report.NeighborURLs(m.sess.Document().URL)
		if !ok {
			m.status = "No neighbouring logs"
			return m, clearStatusAfter(2 * time.Second)
		}
		target := next
		if msg.String() == "[" {
			target = prev
		}
		m.status = "Loading..."
		return m, m.loadCmd(target)
	default:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) enter() (tea.Model, tea.Cmd) {
	it, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	if it.IsPlaceholder() {
		m.apply(session.TogglePlaceholder{Placeholder: *it.Placeholder})
		return m, nil
	}
	m.sess.Focus(it.Message)
	m.detailMsg = it.Message
	m.msgViewport.SetContent(m.messageHeader(it.Message) + "\n" + m.sess.Text(it.Message))
	m.msgViewport.GotoTop()
	m.view = viewMessage
	return m, nil
}

func (m *AppModel) toggleSelectedSender() (tea.Model, tea.Cmd) {
	selected := m.sendersList.SelectedItem()
	if selected == nil {
		return m, nil
	}
	si := selected.(senderItem)
	extras := m.sess.Names().Extras
	idx := slices.IndexFunc(extras, func(e string) bool { return strings.EqualFold(e, si.Name) })
	next := slices.Clone(extras)
	if idx >= 0 {
		next = slices.Delete(next, idx, idx+1)
	} else {
		next = append(next, si.Name)
	}
	m.apply(session.SetExtras{Names: next})

	cur := m.sendersList.Index()
	m.sendersList.SetItems(sendersToItems(Senders(m.sess.Records(), m.current.Roles), m.sess.Names().Extras))
	m.sendersList.Select(cur)
	return m, m.savePrefsCmd()
}

// apply runs an intent and keeps the cursor on the same part of the log.
func (m *AppModel) apply(in session.Intent) {
	before, hadItem := m.currentItem()
	anchor := m.anchor()
	if anchor >= 0 {
		m.sess.SetAnchor(anchor)
	}
	m.current = m.sess.Apply(in)
	m.refresh()
	if hadItem && before.IsPlaceholder() {
		for k, it := range m.items {
			if it.IsPlaceholder() && it.Placeholder.StartIndex == before.Placeholder.StartIndex && it.Placeholder.Kind == before.Placeholder.Kind {
				m.cursor = k
				m.renderContent()
				return
			}
		}
	}
	if anchor >= 0 {
		m.moveCursorTo(anchor)
	}
}

// anchor is the message the cursor is on, or the first message of the
// placeholder under it.
func (m *AppModel) anchor() int {
	it, ok := m.currentItem()
	if !ok {
		return -1
	}
	if it.IsPlaceholder() {
		return it.Placeholder.StartIndex
	}
	return it.Message
}

func (m *AppModel) currentItem() (visibility.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return visibility.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *AppModel) moveCursor(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.items)-1, m.cursor+delta))
	if it, ok := m.currentItem(); ok && !it.IsPlaceholder() {
		m.sess.Focus(it.Message)
	}
	m.renderContent()
}

// moveCursorTo puts the cursor on message msg, or on the first item at or
// after it when msg is collapsed.
func (m *AppModel) moveCursorTo(msg int) {
	m.cursor = max(0, m.itemFor(msg))
	m.renderContent()
}

func (m *AppModel) itemFor(msg int) int {
	for k, it := range m.items {
		if !it.IsPlaceholder() && it.Message == msg {
			return k
		}
	}
	for k, it := range m.items {
		if it.IsPlaceholder() {
			if p := it.Placeholder; p.StartIndex <= msg && msg <= p.End() {
				return k
			}
			continue
		}
		if it.Message > msg {
			return k
		}
	}
	return len(m.items) - 1
}

func (m *AppModel) roles() []model.Role { return m.current.Roles }

// refresh rebuilds the item list from the current view and redraws.
func (m *AppModel) refresh() {
	m.items = m.current.Snapshot.Layout()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 && len(m.items) > 0 {
		m.cursor = 0
	}
	m.layout()
}

// layout sizes the log viewport around the header and footer, then redraws.
func (m *AppModel) layout() {
	if m.sess == nil {
		return
	}
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(logFooter()) + 2
	m.logViewport.Width = m.width
	m.logViewport.Height = max(1, m.height-used)
	m.renderContent()
}

func (m *AppModel) renderContent() {
	if m.sess == nil {
		return
	}
	m.logViewport.SetContent(m.renderLog())
	m.ensureVisible()
}

func (m *AppModel) ensureVisible() {
	if m.cursor < 0 || m.cursor >= len(m.itemLines) {
		return
	}
	line := m.itemLines[m.cursor]
	switch {
	case line < m.logViewport.YOffset:
		m.logViewport.SetYOffset(line)
	case line >= m.logViewport.YOffset+m.logViewport.Height:
		m.logViewport.SetYOffset(line - m.logViewport.Height + 1)
	}
}

// Preferences returns the settings currently in effect.
func (m *AppModel) Preferences() store.Preferences {
	if m.sess == nil {
		return m.opts.Defaults
	}
	return store.Preferences{
		Extras:      slices.Clone(m.sess.Names().Extras),
		Roles:       m.sess.State().Toggles.Roles,
		LocalTimes:  m.sess.LocalTimes(),
		Compact:     m.compact,
		HeaderShown: m.headerShown,
	}
}

// Commands

func (m *AppModel) loadCmd(src string) tea.Cmd {
	client := m.opts.HTTPClient
	st := m.opts.Store
	defaults := m.opts.Defaults
	if m.sess != nil {
		defaults = m.Preferences()
		st = nil // keep the settings of the running session
	}
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		doc, err := source.Load(ctx, client, src)
		if err != nil {
			return loadedMsg{err: err}
		}
		prefs := defaults
		if st != nil {
			if p, err := st.LoadPreferences(ctx); err != nil {
				log.Warn("loading preferences failed", "error", err)
			} else {
				prefs = p
			}
		}
		return loadedMsg{doc: doc, prefs: prefs}
	}
}

func (m *AppModel) savePrefsCmd() tea.Cmd {
	if m.opts.Store == nil || m.sess == nil {
		return nil
	}
	st := m.opts.Store
	prefs := m.Preferences()
	return func() tea.Msg {
		if err := st.SavePreferences(context.Background(), prefs); err != nil {
			return actionResultMsg{action: "Save preferences", err: err}
		}
		return nil
	}
}

func (m *AppModel) lookupGendersCmd() tea.Cmd {
	if m.opts.Profiles == nil {
		return nil
	}
	rep := m.sess.Report()
	names := []string{rep.SubmittedBy, rep.ReportingUser}
	profiles := m.opts.Profiles
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return gendersMsg{genders: profiles.LookupAll(ctx, names)}
	}
}

func (m *AppModel) openProfileCmd(name string) tea.Cmd {
	if m.opts.Profiles == nil || strings.TrimSpace(name) == "" {
		m.status = "No profile to open"
		return clearStatusAfter(2 * time.Second)
	}
	url := m.opts.Profiles.URL(name)
	open := m.opts.OpenURL
	return func() tea.Msg {
		return actionResultMsg{action: "Open profile", err: open(url)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusMsg("")
	})
}

// View renders the appropriate view based on current state.
func (m *AppModel) View() string {
	// Error state
	if m.Err != nil {
		return "Error: " + m.Err.Error() + "\n"
	}

	// Loading
	if m.view == viewLoading {
		if m.status != "" {
			return m.status + "\n"
		}
		return "Loading...\n"
	}

	var b strings.Builder

	switch m.view {
	case viewLog:
		b.WriteString(m.renderHeader())
		b.WriteString("\n")
		b.WriteString(m.logViewport.View())
		b.WriteString("\n")
		b.WriteString(logFooter())
	case viewExtras:
		b.WriteString(m.renderHeader())
		b.WriteString("\n\nExtra names (comma or newline separated):\n")
		b.WriteString(m.extrasInput.View())
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("enter: apply  esc: cancel"))
	case viewSenders:
		b.WriteString(m.sendersList.View())
		b.WriteString("\n")
		b.WriteString(sendersFooter())
	case viewMessage:
		b.WriteString(m.msgViewport.View())
		b.WriteString("\n")
		b.WriteString(messageFooter())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	return b.String()
}
