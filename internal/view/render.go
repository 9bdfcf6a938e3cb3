package view

import (
	"strings"

	"github.com/mereapp/merechat/internal/chat"
)

// RenderMessage renders one message into an element tree. It is a pure
// function of its arguments: no state is read or written, and rendering the
// same message twice produces equal trees.
//
// Deleted messages render a "[deleted]" placeholder body and no action menu.
// The action menu (edit/delete/copy) appears only on the current user's own
// non-deleted messages. A provisional message carries data-pending="true"
// until confirmation re-renders it without the marker.
func RenderMessage(m chat.Message, currentUser string) *Node {
	mine := m.Sender == currentUser
	ts := m.CreatedAt.Format("15:04") // 24-hour, always

	classes := []string{"message"}
	if mine {
		classes = append(classes, "mine")
	} else {
		classes = append(classes, "theirs")
	}
	if m.Deleted {
		classes = append(classes, "deleted")
	}
	if m.Media != nil {
		classes = append(classes, "attachment")
	}

	attrs := map[string]string{
		"class":   strings.Join(classes, " "),
		"data-id": m.Key(),
	}
	if m.Pending {
		attrs["data-pending"] = "true"
	}

	return Elem("div", attrs,
		renderHeader(m, ts, mine),
		renderBody(m),
	)
}

func renderHeader(m chat.Message, ts string, mine bool) *Node {
	children := []*Node{
		Elem("span", map[string]string{"class": "msg-sender"}, Text(m.Sender)),
		Elem("span", map[string]string{"class": "msg-time"}, Text(ts)),
	}
	if m.EditedAt != nil {
		children = append(children, Elem("span", map[string]string{"class": "msg-edited"}, Text(" (edited)")))
	}
	if mine && !m.Deleted {
		children = append(children, renderMenu())
	}
	if mine {
		children = append(children, Elem("span", map[string]string{"class": "msg-status"}, Text("✓")))
	}
	return Elem("div", map[string]string{"class": "msg-header"}, children...)
}

func renderMenu() *Node {
	return Elem("div", map[string]string{"class": "msg-menu"},
		Elem("button", map[string]string{"class": "menu-btn"}, Text("⋮")),
		Elem("div", map[string]string{"class": "dropdown"},
			Elem("button", map[string]string{"class": "edit-btn-chat"}, Text("Edit")),
			Elem("button", map[string]string{"class": "del-btn-chat"}, Text("Delete")),
			Elem("button", map[string]string{"class": "cpy-btn"}, Text("Copy")),
		),
	)
}

func renderBody(m chat.Message) *Node {
	if m.Deleted {
		return Elem("div", map[string]string{"class": "msg-content"}, Text("[deleted]"))
	}

	var children []*Node
	if m.Content != "" {
		children = append(children, Text(m.Content))
	}
	if m.Media != nil && m.Media.URL != "" {
		children = append(children, renderMedia(*m.Media))
	}
	return Elem("div", map[string]string{"class": "msg-content"}, children...)
}

// renderMedia picks the media element by MIME prefix; anything that is not
// image, video or audio falls back to a download link named after the last
// path segment of the URL.
func renderMedia(media chat.Media) *Node {
	mime := strings.ToLower(media.Type)
	switch {
	case strings.HasPrefix(mime, "image/"):
		return Elem("img", map[string]string{"class": "msg-image", "src": media.URL})
	case strings.HasPrefix(mime, "video/"):
		return Elem("video", map[string]string{"class": "msg-video", "src": media.URL, "controls": "controls"})
	case strings.HasPrefix(mime, "audio/"):
		return Elem("audio", map[string]string{"class": "msg-audio", "src": media.URL, "controls": "controls"})
	default:
		filename := media.URL
		if idx := strings.LastIndexByte(filename, '/'); idx != -1 {
			filename = filename[idx+1:]
		}
		return Elem("a", map[string]string{
			"class":    "msg-file",
			"href":     media.URL,
			"download": filename,
		}, Text(filename))
	}
}

// Heights used by Measure, in the store's abstract units.
const (
	baseHeight   = 48  // header plus one line of text
	lineHeight   = 16  // each additional wrapped text line
	mediaHeight  = 160 // inline media block
	charsPerLine = 80
)

// Measure estimates a message's rendered height for the viewport. It only
// needs to be deterministic and monotone in content size, not pixel-exact:
// scroll anchoring math works in whatever unit this returns.
func Measure(m chat.Message) int {
	if m.Deleted {
		return baseHeight
	}
	h := baseHeight
	if n := len([]rune(m.Content)); n > charsPerLine {
		h += ((n - 1) / charsPerLine) * lineHeight
	}
	if m.Media != nil {
		h += mediaHeight
	}
	return h
}
