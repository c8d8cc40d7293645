// Package app is the bubbletea front end over the experience library.
// All library operations run inside commands; the model keeps its own
// display snapshot and a busy flag so only one mutating operation is
// ever in flight.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MordecaiM24/meridian/internal/api"
	"github.com/MordecaiM24/meridian/internal/config"
	"github.com/MordecaiM24/meridian/internal/experience"
	"github.com/MordecaiM24/meridian/internal/library"
	"github.com/MordecaiM24/meridian/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// PanelFocus tracks which panel has keyboard focus.
type PanelFocus int

const (
	FocusList PanelFocus = iota
	FocusDetail
)

// PromptKind identifies what the prompt line is collecting.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptProcess
	PromptUpload
	PromptRename
)

// HealthClient is the reachability probe the model runs at startup.
type HealthClient interface {
	Health(ctx context.Context) (api.HealthResult, error)
}

// Model is the root bubbletea model for the Meridian TUI.
type Model struct {
	lib    *library.Library
	health HealthClient
	cfg    config.Config

	// Display snapshot, refreshed after every settled operation.
	experiences []experience.Experience
	selected    int

	focusedPanel PanelFocus
	detailScroll int

	serviceUp bool
	busy      bool
	status    library.Status

	prompt      PromptKind
	promptInput string

	width  int
	height int
}

// New creates a model over an already-hydrated library.
func New(lib *library.Library, health HealthClient, cfg config.Config) Model {
	return Model{
		lib:         lib,
		health:      health,
		cfg:         cfg,
		experiences: lib.Experiences(),
		busy:        true, // the ensure-server call runs first
		status:      lib.Status(),
	}
}

// Init probes the service and brings up the whisper server.
func (m Model) Init() tea.Cmd {
	return tea.Batch(healthCmd(m.health), m.ensureCmd())
}

func healthCmd(client HealthClient) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Health(context.Background())
		return HealthCheckedMsg{Up: err == nil && result.Status == "ok", Err: err}
	}
}

// opCmd runs one library operation and snapshots the outcome. The busy
// flag guarantees these never overlap.
func opCmd(lib *library.Library, op func()) tea.Cmd {
	return func() tea.Msg {
		op()
		return OpDoneMsg{Experiences: lib.Experiences(), Status: lib.Status()}
	}
}

func (m Model) ensureCmd() tea.Cmd {
	lib, cfg := m.lib, m.cfg
	return opCmd(lib, func() {
		lib.EnsureServer(context.Background(), cfg.WhisperPort, cfg.WhisperHost)
	})
}

func (m Model) processCmd(input string) tea.Cmd {
	lib, cfg := m.lib, m.cfg
	return opCmd(lib, func() {
		lib.ProcessInput(context.Background(), api.ProcessOptions{
			Input:       input,
			WhisperPort: cfg.WhisperPort,
		})
	})
}

func (m Model) uploadCmd(path string) tea.Cmd {
	lib, cfg := m.lib, m.cfg
	return opCmd(lib, func() {
		lib.UploadFile(context.Background(), path, api.ProcessOptions{
			WhisperPort: cfg.WhisperPort,
		})
	})
}

func (m Model) deleteCmd(id string) tea.Cmd {
	lib := m.lib
	return opCmd(lib, func() { lib.Delete(id) })
}

func (m Model) renameCmd(id, speakerID, name string) tea.Cmd {
	lib := m.lib
	return opCmd(lib, func() { lib.RenameSpeaker(id, speakerID, name) })
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case HealthCheckedMsg:
		m.serviceUp = msg.Up
		return m, nil

	case OpDoneMsg:
		m.busy = false
		m.experiences = msg.Experiences
		m.status = msg.Status
		if m.selected >= len(m.experiences) {
			m.selected = max(0, len(m.experiences)-1)
		}
		if msg.Status.State == library.StateSuccess {
			return m, clearStatusCmd()
		}
		return m, nil

	case ClearStatusMsg:
		if !m.busy && m.status.State == library.StateSuccess {
			m.lib.Reset()
			m.status = m.lib.Status()
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != PromptNone {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeyTab:
		if m.focusedPanel == FocusList {
			m.focusedPanel = FocusDetail
		} else {
			m.focusedPanel = FocusList
		}
		return m, nil

	case KeyJ, KeyDown:
		if m.focusedPanel == FocusList {
			if m.selected < len(m.experiences)-1 {
				m.selected++
				m.detailScroll = 0
			}
		} else {
			m.detailScroll++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.focusedPanel == FocusList {
			if m.selected > 0 {
				m.selected--
				m.detailScroll = 0
			}
		} else if m.detailScroll > 0 {
			m.detailScroll--
		}
		return m, nil

	case KeyProcess:
		if m.busy {
			return m, nil
		}
		m.prompt = PromptProcess
		m.promptInput = ""
		return m, nil

	case KeyUpload:
		if m.busy {
			return m, nil
		}
		m.prompt = PromptUpload
		m.promptInput = ""
		return m, nil

	case KeyRename:
		if m.busy || len(m.experiences) == 0 {
			return m, nil
		}
		m.prompt = PromptRename
		m.promptInput = ""
		return m, nil

	case KeyDelete:
		if m.busy || len(m.experiences) == 0 {
			return m, nil
		}
		m.busy = true
		return m, m.deleteCmd(m.experiences[m.selected].ID)
	}

	return m, nil
}

// handlePromptKey edits the prompt line and submits or cancels it.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.prompt = PromptNone
		m.promptInput = ""
		return m, nil

	case KeyEnter:
		return m.submitPrompt()

	case KeyBackspace:
		if len(m.promptInput) > 0 {
			runes := []rune(m.promptInput)
			m.promptInput = string(runes[:len(runes)-1])
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeySpace:
		m.promptInput += " "
	case tea.KeyRunes:
		m.promptInput += string(msg.Runes)
	}
	return m, nil
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	kind := m.prompt
	input := strings.TrimSpace(m.promptInput)
	m.prompt = PromptNone
	m.promptInput = ""

	if input == "" {
		return m, nil
	}

	switch kind {
	case PromptProcess:
		m.busy = true
		return m, m.processCmd(input)

	case PromptUpload:
		m.busy = true
		return m, m.uploadCmd(input)

	case PromptRename:
		speakerID, name, ok := strings.Cut(input, "=")
		speakerID = strings.TrimSpace(speakerID)
		if !ok || speakerID == "" {
			m.status = library.Status{State: library.StateFailure, Message: "Rename format: speaker_id=new name"}
			return m, nil
		}
		m.busy = true
		return m, m.renameCmd(m.experiences[m.selected].ID, speakerID, name)
	}

	return m, nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.prompt != PromptNone {
		sections = append(sections, m.renderPrompt())
	} else {
		sections = append(sections, m.renderFooter())
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("MERIDIAN")

	var service string
	if m.serviceUp {
		service = ui.DimStyle.Render(" — service up")
	} else {
		service = ui.ErrorTextStyle.Render(" — service unreachable")
	}

	return title + service
}

func (m Model) renderStatusBar() string {
	switch m.status.State {
	case library.StateWorking:
		return ui.WorkingStyle.Render("⟳ " + m.status.Message)
	case library.StateSuccess:
		return ui.SuccessStyle.Render("✓ " + m.status.Message)
	case library.StateFailure:
		return ui.ErrorStyle.Render("✗ ") + ui.ErrorTextStyle.Render(m.status.Message)
	}
	return ui.DimStyle.Render(fmt.Sprintf("%d experiences", len(m.experiences)))
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// header(1) + status(1) + dividers(2) + footer(1)
	return max(5, m.height-5)
}

func (m Model) listPanelWidth() int {
	if m.width == 0 {
		return 40
	}
	return max(24, m.width*40/100)
}

func (m Model) renderMainContent() string {
	listW := m.listPanelWidth()
	detailW := max(20, m.width-listW-1)
	contentH := m.contentHeight()

	listLines := m.renderListPanel(listW, contentH)
	detailLines := m.renderDetailPanel(detailW, contentH)
	divider := ui.DividerStyle.Render("│")

	var rows []string
	for i := 0; i < contentH; i++ {
		rows = append(rows, listLines[i]+divider+detailLines[i])
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderListPanel(width, height int) []string {
	var header string
	label := fmt.Sprintf("EXPERIENCES (%d)", len(m.experiences))
	if m.focusedPanel == FocusList {
		header = ui.PanelTitleActiveStyle.Render(label)
	} else {
		header = ui.PanelTitleStyle.Render(label)
	}

	lines := []string{header}

	if len(m.experiences) == 0 {
		lines = append(lines, ui.DimStyle.Render("  Library is empty"))
		lines = append(lines, ui.DimStyle.Render("  Press o to process a file or URL"))
	} else {
		for i, exp := range m.experiences {
			var line string
			if i == m.selected {
				line = ui.SelectedStyle.Render("> " + exp.Title)
			} else {
				line = "  " + exp.Title
			}
			lines = append(lines, truncateToWidth(line, width))
			lines = append(lines, ui.DimStyle.Render(truncateToWidth("    "+experienceSummary(exp), width)))
		}
	}

	return padPanel(lines, width, height)
}

func experienceSummary(exp experience.Experience) string {
	parts := []string{exp.Date.Format("2006-01-02 15:04")}
	if exp.Duration != "" {
		parts = append(parts, exp.Duration)
	}
	if exp.SpeakerCount != nil {
		parts = append(parts, fmt.Sprintf("%d speakers", *exp.SpeakerCount))
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderDetailPanel(width, height int) []string {
	var header string
	if m.focusedPanel == FocusDetail {
		header = ui.PanelTitleActiveStyle.Render("TRANSCRIPT")
	} else {
		header = ui.PanelTitleStyle.Render("TRANSCRIPT")
	}

	lines := []string{header}

	if m.selected < len(m.experiences) {
		exp := m.experiences[m.selected]
		display := m.transcriptLines(exp, width)

		start := m.detailScroll
		if start > max(0, len(display)-1) {
			start = max(0, len(display)-1)
		}
		end := min(len(display), start+height-1)
		for _, l := range display[start:end] {
			lines = append(lines, l)
		}
	} else {
		lines = append(lines, ui.DimStyle.Render("  Nothing selected"))
	}

	return padPanel(lines, width, height)
}

// transcriptLines renders segments as "[M:SS] Speaker: text", wrapping
// long text under the prefix.
func (m Model) transcriptLines(exp experience.Experience, width int) []string {
	var lines []string
	textWidth := max(10, width-4)

	for _, seg := range exp.Transcript.Segments {
		var prefix string
		if seg.Start != nil {
			prefix = ui.TimestampStyle.Render("["+experience.FormatDuration(seg.Start)+"] ")
		}
		if seg.Speaker != "" {
			prefix += ui.SpeakerStyle.Render(speakerName(exp, seg.Speaker)+": ")
		}

		wrapped := wrapText(seg.Text, textWidth)
		lines = append(lines, "  "+prefix+wrapped[0])
		for _, wl := range wrapped[1:] {
			lines = append(lines, "    "+wl)
		}
	}

	if len(lines) == 0 {
		lines = append(lines, ui.DimStyle.Render("  Empty transcript"))
	}
	return lines
}

// speakerName resolves a segment's speaker id to its display name:
// renamed name first, then label, then the raw id.
func speakerName(exp experience.Experience, id string) string {
	if sp, ok := exp.Transcript.Speakers[id]; ok {
		if sp.Name != "" {
			return sp.Name
		}
		if sp.Label != "" {
			return sp.Label
		}
	}
	return id
}

func (m Model) renderPrompt() string {
	var label string
	switch m.prompt {
	case PromptProcess:
		label = "Process path or URL: "
	case PromptUpload:
		label = "Upload file: "
	case PromptRename:
		label = "Rename (speaker_id=new name): "
	}
	return ui.PromptStyle.Render(label) + m.promptInput + "▌"
}

func (m Model) renderFooter() string {
	var parts []string
	parts = append(parts, ui.FooterKeyStyle.Render("o")+ui.FooterDescStyle.Render(" Process"))
	parts = append(parts, ui.FooterKeyStyle.Render("u")+ui.FooterDescStyle.Render(" Upload"))
	if len(m.experiences) > 0 {
		parts = append(parts, ui.FooterKeyStyle.Render("d")+ui.FooterDescStyle.Render(" Delete"))
		parts = append(parts, ui.FooterKeyStyle.Render("r")+ui.FooterDescStyle.Render(" Rename"))
	}
	parts = append(parts, ui.FooterKeyStyle.Render("tab")+ui.FooterDescStyle.Render(" Focus"))
	parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Nav"))
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))
	return strings.Join(parts, "  ")
}

// Helpers

func padPanel(lines []string, width, height int) []string {
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}
	return lines
}

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
