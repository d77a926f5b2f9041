// ABOUTME: The top-level bubbletea model: credential gate, room form, chat screen.
// ABOUTME: State changes arrive as store updates; user intent leaves as sequencer calls.

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pixelmbti/chat/internal/chat"
	"github.com/pixelmbti/chat/internal/conversation"
	"github.com/pixelmbti/chat/internal/persona"
	"github.com/pixelmbti/chat/internal/store"
)

// screen is which of the three screens is showing.
type screen int

const (
	screenGate screen = iota
	screenChat
	screenCreate
)

// focusedPane tracks keyboard focus on the chat screen.
type focusedPane int

const (
	paneInput focusedPane = iota
	paneSidebar
)

const sidebarWidth = 30

// maxAttachmentBytes bounds how large an attached image may be.
const maxAttachmentBytes = 8 << 20

type tickMsg time.Time

type storeUpdateMsg store.Update

type submitDoneMsg struct{ err error }

// Submitter defines what the presentation layer needs from the sequencer.
type Submitter interface {
	Submit(ctx context.Context, roomID, text string, image *chat.ImagePayload) (*chat.Message, error)
}

// Model is the top-level bubbletea model.
type Model struct {
	ctx      context.Context
	store    *store.RoomStore
	svc      Submitter
	personas *persona.Registry
	creds    conversation.CredentialChecker

	screen  screen
	focused focusedPane

	rooms      []*chat.Room
	selected   string
	roomCursor int
	busy       map[string]bool

	chatViewport viewport.Model
	input        textinput.Model

	// Create-room form: name first, then the personality picker.
	nameInput  textinput.Model
	nameFocus  bool
	profiles   []persona.Profile
	pickCursor int
	picked     map[chat.Personality]bool

	pendingImage     *chat.ImagePayload
	pendingImageName string

	status  string
	updates <-chan store.Update

	spinTick      int
	width, height int
	ready         bool
}

// NewModel creates the initial model. ctx must outlive the program: it
// carries the watch subscription and every sequencer call.
func NewModel(ctx context.Context, st *store.RoomStore, svc Submitter, personas *persona.Registry, creds conversation.CredentialChecker) Model {
	in := textinput.New()
	in.Placeholder = "Say something... (/attach <path> to add an image)"
	in.CharLimit = 2000
	in.Focus()

	name := textinput.New()
	name.Placeholder = "Room name"
	name.CharLimit = 60

	updates, _ := st.Watch(ctx)

	m := Model{
		ctx:          ctx,
		store:        st,
		svc:          svc,
		personas:     personas,
		creds:        creds,
		screen:       screenChat,
		chatViewport: viewport.New(0, 0),
		input:        in,
		nameInput:    name,
		profiles:     personas.All(),
		picked:       make(map[chat.Personality]bool),
		busy:         make(map[string]bool),
		updates:      updates,
	}
	if creds != nil && !creds.HasValidCredential() {
		m.screen = screenGate
	}
	m.refresh()
	return m
}

// Init starts the cursor blink, the spinner ticker, and the watch loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForUpdate(m.updates),
		tickCmd(),
	)
}

// waitForUpdate blocks until the store publishes a change.
func waitForUpdate(ch <-chan store.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return storeUpdateMsg(u)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.relayout()

	case tickMsg:
		m.spinTick++
		cmds = append(cmds, tickCmd())

	case storeUpdateMsg:
		m.refresh()
		cmds = append(cmds, waitForUpdate(m.updates))

	case submitDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(submitFailure(msg.err))
		}

	case tea.KeyMsg:
		switch m.screen {
		case screenGate:
			return m.updateGate(msg)
		case screenCreate:
			return m.updateCreate(msg)
		default:
			model, cmd := m.updateChat(msg)
			return model, tea.Batch(append(cmds, cmd)...)
		}
	}

	var cmd tea.Cmd
	m.chatViewport, cmd = m.chatViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// updateGate handles keys on the credential gate screen.
func (m Model) updateGate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "enter", "r":
		if m.creds == nil || m.creds.HasValidCredential() {
			m.screen = screenChat
		} else {
			m.status = errorStyle.Render("Still no credential. Set GEMINI_API_KEY and retry.")
		}
	}
	return m, nil
}

// updateCreate handles keys on the room creation form.
func (m Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.screen = screenChat
		m.status = ""
		return m, nil
	}

	if m.nameFocus {
		switch msg.String() {
		case "enter", "tab", "down":
			m.nameFocus = false
			m.nameInput.Blur()
		default:
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.pickCursor > 0 {
			m.pickCursor--
		} else {
			m.nameFocus = true
			m.nameInput.Focus()
		}
	case "down", "j":
		if m.pickCursor < len(m.profiles)-1 {
			m.pickCursor++
		}
	case " ":
		typ := m.profiles[m.pickCursor].Type
		if m.picked[typ] {
			delete(m.picked, typ)
		} else if len(m.picked) < 5 {
			m.picked[typ] = true
		} else {
			m.status = errorStyle.Render("A room holds at most 5 agents.")
		}
	case "enter":
		return m.createRoom()
	}
	return m, nil
}

// createRoom materializes the form into a store room and switches to it.
func (m Model) createRoom() (tea.Model, tea.Cmd) {
	picks := make([]chat.Personality, 0, len(m.picked))
	for _, prof := range m.profiles {
		if m.picked[prof.Type] {
			picks = append(picks, prof.Type)
		}
	}
	if len(picks) == 0 {
		m.status = errorStyle.Render("Pick at least one personality.")
		return m, nil
	}

	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		name = "New Room"
	}

	room, err := m.store.CreateRoom(name, picks)
	if err != nil {
		m.status = errorStyle.Render("Could not create room: " + err.Error())
		return m, nil
	}

	m.selected = room.ID
	m.screen = screenChat
	m.status = ""
	m.nameInput.Reset()
	m.picked = make(map[chat.Personality]bool)
	m.pickCursor = 0
	m.focused = paneInput
	m.input.Focus()
	m.refresh()
	return m, nil
}

// updateChat handles keys on the chat screen.
func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+n":
		m.screen = screenCreate
		m.nameFocus = true
		m.nameInput.Focus()
		m.status = ""
		return m, nil
	case "tab":
		if m.focused == paneInput {
			m.focused = paneSidebar
			m.input.Blur()
		} else {
			m.focused = paneInput
			m.input.Focus()
		}
		return m, nil
	case "esc":
		m.pendingImage = nil
		m.pendingImageName = ""
		m.status = ""
		return m, nil
	}

	if m.focused == paneSidebar {
		switch msg.String() {
		case "up", "k":
			if m.roomCursor > 0 {
				m.roomCursor--
			}
		case "down", "j":
			if m.roomCursor < len(m.rooms)-1 {
				m.roomCursor++
			}
		case "enter":
			if m.roomCursor < len(m.rooms) {
				m.selected = m.rooms[m.roomCursor].ID
				m.focused = paneInput
				m.input.Focus()
				m.refresh()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m.handleSubmit()
	case "pgup":
		m.chatViewport.LineUp(5)
		return m, nil
	case "pgdown":
		m.chatViewport.LineDown(5)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit interprets the input line: an /attach command stages an
// image, anything else goes to the sequencer.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	if path, ok := strings.CutPrefix(text, "/attach "); ok {
		m.input.Reset()
		return m.stageAttachment(strings.TrimSpace(path)), nil
	}

	if text == "" && m.pendingImage == nil {
		return m, nil
	}
	if m.selected == "" {
		m.status = errorStyle.Render("No room selected. Ctrl+N to create one.")
		return m, nil
	}

	roomID := m.selected
	image := m.pendingImage
	m.input.Reset()
	m.pendingImage = nil
	m.pendingImageName = ""
	m.status = ""

	return m, func() tea.Msg {
		_, err := m.svc.Submit(m.ctx, roomID, text, image)
		return submitDoneMsg{err: err}
	}
}

// stageAttachment loads an image file and holds it for the next submit.
func (m Model) stageAttachment(path string) Model {
	mime := imageMIME(path)
	if mime == "" {
		m.status = errorStyle.Render("Unsupported attachment type: " + filepath.Ext(path))
		return m
	}

	info, err := os.Stat(path)
	if err != nil {
		m.status = errorStyle.Render("Cannot read attachment: " + err.Error())
		return m
	}
	if info.Size() > maxAttachmentBytes {
		m.status = errorStyle.Render("Attachment too large.")
		return m
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.status = errorStyle.Render("Cannot read attachment: " + err.Error())
		return m
	}

	m.pendingImage = &chat.ImagePayload{MIMEType: mime, Data: data}
	m.pendingImageName = filepath.Base(path)
	m.status = mediaTagStyle.Render("Attached " + m.pendingImageName + " (Esc to discard)")
	return m
}

// refresh pulls fresh snapshots from the store and re-renders the log.
func (m *Model) refresh() {
	m.rooms = m.store.Rooms()

	if m.selected == "" && len(m.rooms) > 0 {
		m.selected = m.rooms[0].ID
	}

	m.busy = make(map[string]bool, len(m.rooms))
	for i, room := range m.rooms {
		m.busy[room.ID] = m.store.IsBusy(room.ID)
		if room.ID == m.selected {
			m.roomCursor = i
		}
	}

	m.chatViewport.SetContent(renderMessages(m.selectedRoom()))
	m.chatViewport.GotoBottom()
}

// selectedRoom returns the snapshot of the currently selected room, or nil.
func (m *Model) selectedRoom() *chat.Room {
	for _, room := range m.rooms {
		if room.ID == m.selected {
			return room
		}
	}
	return nil
}

// relayout recalculates pane dimensions from the terminal size.
func (m *Model) relayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	mainWidth := m.width - sidebarWidth
	m.chatViewport.Width = mainWidth - 4
	m.chatViewport.Height = m.height - 9
	if m.chatViewport.Height < 3 {
		m.chatViewport.Height = 3
	}
	m.input.Width = mainWidth - 8
	m.refresh()
}

// View renders the current screen.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading pixelchat...\n"
	}
	switch m.screen {
	case screenGate:
		return m.viewGate()
	case screenCreate:
		return m.viewCreate()
	default:
		return m.viewChat()
	}
}

func (m Model) viewGate() string {
	body := titleStyle.Render("pixelchat") + "\n\n" +
		"No provider credential is configured.\n\n" +
		"Set " + mediaTagStyle.Render("GEMINI_API_KEY") + " in your environment\n" +
		"or add it to the config file, then restart.\n\n" +
		helpStyle.Render("q: quit")
	if m.status != "" {
		body += "\n\n" + m.status
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		paneStyle.Render(body))
}

func (m Model) viewCreate() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("New Room") + "\n")
	sb.WriteString(m.nameInput.View() + "\n\n")
	sb.WriteString(renderPersonalityPicker(m.profiles, m.pickCursor, m.picked))
	sb.WriteString("\n" + helpStyle.Render("Space: toggle (max 5)  ·  Enter: create  ·  Esc: cancel"))
	if m.status != "" {
		sb.WriteString("\n" + m.status)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		paneStyle.Render(sb.String()))
}

func (m Model) viewChat() string {
	sidebarStyle := paneStyle
	mainStyle := paneStyle
	if m.focused == paneSidebar {
		sidebarStyle = focusedPaneStyle
	} else {
		mainStyle = focusedPaneStyle
	}

	sidebar := sidebarStyle.
		Width(sidebarWidth - 2).
		Height(m.height - 4).
		Render(titleStyle.Render("Rooms") + "\n" + renderRoomList(m.rooms, m.selected, m.busy))

	room := m.selectedRoom()
	header := renderRoster(room)
	if room != nil && m.busy[room.ID] {
		header += "  " + renderSpinner(m.spinTick) + helpStyle.Render(" typing...")
	}

	statusLine := m.status
	if statusLine == "" && m.pendingImageName != "" {
		statusLine = mediaTagStyle.Render("Attached " + m.pendingImageName)
	}

	main := mainStyle.
		Width(m.width - sidebarWidth - 2).
		Height(m.height - 4).
		Render(header + "\n" + m.chatViewport.View() + "\n" +
			inputBarStyle.Width(m.width-sidebarWidth-6).Render(m.input.View()) + "\n" +
			statusLine)

	help := helpStyle.Render("Tab: focus  ·  Ctrl+N: new room  ·  /attach <path>: image  ·  Ctrl+C: quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main),
		"  "+help)
}

// imageMIME maps an attachment's extension to its MIME type. Unknown
// extensions return empty; only common raster formats are accepted.
func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}

// submitFailure maps sequencer errors to user-facing status text.
func submitFailure(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, conversation.ErrRoomBusy):
		return "The room is still replying. Wait for the turn to finish."
	case errors.Is(err, conversation.ErrNoCredential):
		return "No provider credential configured."
	case errors.Is(err, conversation.ErrEmptyMessage):
		return "Nothing to send."
	default:
		return fmt.Sprintf("Send failed: %v", err)
	}
}
