// ABOUTME: Pure render helpers for the chat screens.
// ABOUTME: Each helper shapes store snapshots into styled strings; no state here.

package tui

import (
	"fmt"
	"strings"

	"github.com/pixelmbti/chat/internal/chat"
	"github.com/pixelmbti/chat/internal/persona"
)

// renderRoomList renders the sidebar entries, marking the selected room and
// any room with a turn in flight.
func renderRoomList(rooms []*chat.Room, selectedID string, busy map[string]bool) string {
	if len(rooms) == 0 {
		return helpStyle.Render("No rooms yet.\nCtrl+N to create one.")
	}

	var sb strings.Builder
	for _, room := range rooms {
		marker := "  "
		style := roomStyle
		if room.ID == selectedID {
			marker = "> "
			style = selectedRoomStyle
		}
		line := marker + style.Render(room.Name)
		if busy[room.ID] {
			line += " " + busyMarkerStyle.Render("*")
		}
		sb.WriteString(line + "\n")
		sb.WriteString(helpStyle.Render(fmt.Sprintf("   %d agents", len(room.Agents))) + "\n")
	}
	return sb.String()
}

// renderMessages renders a room's log, one block per message, colored by
// the sending agent's profile.
func renderMessages(room *chat.Room) string {
	if room == nil {
		return helpStyle.Render("Select a room, or Ctrl+N to create one.")
	}
	if len(room.Messages) == 0 {
		return helpStyle.Render("No messages yet. Say something below.")
	}

	colors := make(map[string]string, len(room.Agents))
	for _, a := range room.Agents {
		colors[a.ID] = a.Color
	}

	var sb strings.Builder
	for _, msg := range room.Messages {
		sb.WriteString(renderMessage(msg, colors))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMessage renders one message block: styled sender line, content, and
// a kind-specific trailer for media and links.
func renderMessage(msg chat.Message, colors map[string]string) string {
	ts := timestampStyle.Render(msg.CreatedAt.Format("15:04"))

	var name string
	if msg.Sender == chat.UserSender {
		name = userNameStyle.Render(msg.SenderName)
	} else {
		name = senderStyle(colors[msg.Sender]).Render(msg.SenderName)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", name, ts))
	if msg.Content != "" {
		sb.WriteString(msg.Content + "\n")
	}

	switch msg.Kind {
	case chat.KindImage:
		sb.WriteString(mediaTagStyle.Render("[image]") + "\n")
	case chat.KindVideo:
		ref := msg.MediaRef
		if ref == "" {
			ref = "attached"
		}
		sb.WriteString(mediaTagStyle.Render("[video] "+ref) + "\n")
	case chat.KindLink:
		if msg.Link != nil {
			label := msg.Link.Title
			if label == "" {
				label = msg.Link.URL
			}
			sb.WriteString(linkStyle.Render(label) + " " + helpStyle.Render(msg.Link.URL) + "\n")
		}
	case chat.KindSystem:
		return systemStyle.Render(msg.Content) + "\n"
	}
	return sb.String()
}

// renderRoster renders the header line naming the room's agents in their
// profile colors.
func renderRoster(room *chat.Room) string {
	if room == nil {
		return ""
	}
	parts := make([]string, 0, len(room.Agents))
	for _, a := range room.Agents {
		parts = append(parts, senderStyle(a.Color).Render(fmt.Sprintf("%s (%s)", a.Name, a.Personality)))
	}
	return strings.Join(parts, helpStyle.Render(" · "))
}

// renderPersonalityPicker renders the create-room checklist of the 16 types.
func renderPersonalityPicker(profiles []persona.Profile, cursor int, picked map[chat.Personality]bool) string {
	var sb strings.Builder
	for i, prof := range profiles {
		pointer := "  "
		if i == cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		label := fmt.Sprintf("%s %s", prof.Type, prof.Name)
		if picked[prof.Type] {
			box = pickedStyle.Render("[x]")
			label = pickedStyle.Render(label)
		} else {
			label = senderStyle(prof.Color).Render(label)
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", pointer, box, label))
	}
	return sb.String()
}

// renderSpinner returns one frame of the typing indicator.
func renderSpinner(tick int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinnerStyle.Render(frames[tick%len(frames)])
}
