package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/S-tiemersma/predators-odyssey/engine"
	"github.com/S-tiemersma/predators-odyssey/engine/combatant"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// mode is the input context the next line of input is interpreted in.
type mode int

const (
	modeRoam   mode = iota // dungeon menu: explore / fuse / ascend / ...
	modeCombat             // awaiting a skill pick for this round
	modeFusion             // awaiting a fusion pick
	modeOver               // run finished; only meta-commands work
)

// rawLine stores an unstyled output line with its classification, so we
// can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
}

// Model is the Bubble Tea model for the game.
type Model struct {
	session *engine.Session

	mode      mode
	enemy     *combatant.Combatant
	encounter *engine.Encounter
	fusions   []engine.FusionCandidate

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
}

// New creates a TUI model wired to the given session.
func New(sess *engine.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		session: sess,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(sess *engine.Session) error {
	m := New(sess)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// gameOutputMsg carries output lines into the Update loop.
type gameOutputMsg struct {
	input    string // echoed player input (empty for intro)
	lines    []string
	isSystem bool
}

// Init produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		game := m.session.Defs.Game
		var lines []string
		lines = append(lines, game.Title+" v"+game.Version+" by "+game.Author)
		lines = append(lines, "")
		if game.Intro != "" {
			lines = append(lines, game.Intro)
			lines = append(lines, "")
		}
		lines = append(lines, m.statusLines()...)
		lines = append(lines, "", "Type 'explore' to hunt, or 'help' for all commands.")
		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line according to the mode.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" && m.mode != modeFusion {
		return m, nil
	}
	if input != "" {
		m.history.Push(input)
		m.history.ResetCursor()
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.mode {
	case modeRoam:
		return m.handleRoam(input)
	case modeCombat:
		return m.handleCombat(input)
	case modeFusion:
		return m.handleFusion(input)
	default: // modeOver
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"The run is over. /quit to exit."}, isSystem: true,
		})
		return m, nil
	}
}

func (m Model) handleRoam(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "explore", "e", "1":
		return m.startEncounter(input)

	case "fuse", "f", "2":
		return m.startFusion(input)

	case "ascend", "a", "3":
		res, surfaced := m.session.Ascend()
		lines := res.Output
		if surfaced {
			lines = append(lines, "", "You survived the depths and emerged stronger than before.")
			m.mode = modeOver
		}
		m = m.appendOutput(gameOutputMsg{input: input, lines: m.withTrace(res, lines)})
		return m, nil

	case "status", "skills", "s":
		m = m.appendOutput(gameOutputMsg{input: input, lines: m.statusLines()})
		return m, nil

	case "help", "h", "?":
		m = m.appendOutput(gameOutputMsg{input: input, lines: helpLines()})
		return m, nil

	case "quit", "q", "4":
		m.quitting = true
		return m, tea.Quit

	default:
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"Unknown command. Type 'help' for the list of commands."}, isSystem: true,
		})
		return m, nil
	}
}

func (m Model) startEncounter(input string) (tea.Model, tea.Cmd) {
	enemy := m.session.SpawnEnemy()
	if enemy == nil {
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"Nothing stirs in the dark. The bestiary is empty."}, isSystem: true})
		return m, nil
	}
	enc, err := engine.NewEncounter(m.session.Defs.Registry, m.session.Player, enemy, m.session.EnemyPolicy)
	if err != nil {
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{err.Error()}, isSystem: true})
		return m, nil
	}
	m.enemy = enemy
	m.encounter = enc
	m.mode = modeCombat

	lines := []string{
		fmt.Sprintf("--- A wild %s appears! ---", enemy.Name),
		fmt.Sprintf("It has %d HP and knows: %s", enemy.Health, strings.Join(m.skillNames(enemy.KnownSkills()), ", ")),
		"",
	}
	lines = append(lines, m.skillMenu()...)
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

func (m Model) handleCombat(input string) (tea.Model, tea.Cmd) {
	known := m.session.Player.KnownSkills()
	id := input
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(known) {
		id = known[n-1]
	} else {
		id = m.matchSkill(known, input)
	}

	res, err := m.encounter.Round(id)
	if errors.Is(err, engine.ErrSkillNotKnown) {
		m = m.appendOutput(gameOutputMsg{
			input: input,
			lines: []string{fmt.Sprintf("You don't know any skill called %q.", input)},
			isSystem: true,
		})
		return m, nil
	}
	if err != nil {
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{err.Error()}, isSystem: true})
		return m, nil
	}

	lines := m.withTrace(res, res.Output)

	switch m.encounter.Outcome() {
	case types.PlayerVictory:
		granted, err := m.session.Absorb(m.enemy)
		if err != nil {
			lines = append(lines, fmt.Sprintf("[Absorption failed: %v]", err))
		} else {
			lines = append(lines, "", fmt.Sprintf("You devour the %s and learn %s!", m.enemy.Name, m.skillName(granted)))
		}
		if evoRes, evolved := m.session.MaybeEvolve(); evolved {
			lines = append(lines, evoRes.Output...)
		}
		m.mode = modeRoam
		m.encounter = nil
		m.enemy = nil

	case types.PlayerDefeat:
		lines = append(lines, "", "GAME OVER - your journey ends here.")
		m.mode = modeOver
		m.encounter = nil
		m.enemy = nil

	default:
		lines = append(lines, "")
		lines = append(lines, m.skillMenu()...)
	}

	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

func (m Model) startFusion(input string) (tea.Model, tea.Cmd) {
	if len(m.session.Player.KnownSkills()) < 2 {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"You need at least two skills to attempt a fusion."},
		})
		return m, nil
	}
	cands := m.session.FusionCandidates()
	if len(cands) == 0 {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"None of your current skills can be fused together right now."},
		})
		return m, nil
	}
	m.fusions = cands
	m.mode = modeFusion

	lines := []string{"Possible fusions:"}
	for i, cand := range cands {
		lines = append(lines, fmt.Sprintf("  %d. %s + %s => %s",
			i+1, m.skillName(cand.A), m.skillName(cand.B), m.skillName(cand.Result)))
	}
	lines = append(lines, "Enter a number, or press Enter to cancel.")
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

func (m Model) handleFusion(input string) (tea.Model, tea.Cmd) {
	if input == "" {
		m.mode = modeRoam
		m.fusions = nil
		m = m.appendOutput(gameOutputMsg{lines: []string{"Fusion cancelled."}, isSystem: true})
		return m, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(m.fusions) {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"Invalid choice. Enter a valid number or press Enter to cancel."}, isSystem: true,
		})
		return m, nil
	}

	cand := m.fusions[n-1]
	result, ok, fuseErr := m.session.Fuse(cand.A, cand.B)
	m.mode = modeRoam
	m.fusions = nil

	switch {
	case fuseErr != nil:
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{fmt.Sprintf("Fusion failed: %v", fuseErr)}, isSystem: true})
	case !ok:
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"These two skills don't combine."}})
	default:
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{fmt.Sprintf(
			"You fused %s and %s into %s!", m.skillName(cand.A), m.skillName(cand.B), result.Name)}})
	}
	return m, nil
}

// skillMenu lists the player's skills for the combat prompt.
func (m Model) skillMenu() []string {
	lines := []string{"Attack with:"}
	for i, id := range m.session.Player.KnownSkills() {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, m.skillLabel(id)))
	}
	return lines
}

func (m Model) statusLines() []string {
	p := m.session.Player
	lines := []string{
		fmt.Sprintf("Current layer: %d  |  HP: %d/%d", m.session.Layer, p.Health, p.MaxHealth),
		"Skills:",
	}
	for _, id := range p.KnownSkills() {
		lines = append(lines, "  - "+m.skillLabel(id))
	}
	return lines
}

func helpLines() []string {
	return []string{
		"System:",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle debug trace output",
		"",
		"Game commands:",
		"  explore (e)   — Fight a random enemy; devour it to absorb a skill",
		"  fuse (f)      — Fuse two of your skills into a new one",
		"  ascend (a)    — Climb to the next layer (heals a little)",
		"  status (s)    — Show layer, health, and known skills",
		"  quit (q)      — Give up the run",
	}
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return helpLines(), false

	case "/state":
		sess := m.session
		return []string{
			fmt.Sprintf("Layer: %d", sess.Layer),
			fmt.Sprintf("HP: %d/%d", sess.Player.Health, sess.Player.MaxHealth),
			fmt.Sprintf("Skills: %v", sess.Player.KnownSkills()),
			fmt.Sprintf("Seed: %d", sess.RNG.Seed()),
		}, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input)}, false
	}
}

// withTrace appends event traces to lines when tracing is on.
func (m Model) withTrace(res types.Result, lines []string) []string {
	if !m.trace {
		return lines
	}
	for _, e := range res.Events {
		lines = append(lines, fmt.Sprintf("[trace] %s %v", e.Type, e.Data))
	}
	return lines
}

// matchSkill maps free text to a known skill ID by ID or display name;
// unmatched input passes through for the engine to reject.
func (m Model) matchSkill(known []string, input string) string {
	lower := strings.ToLower(input)
	for _, id := range known {
		if id == lower {
			return id
		}
		if skill, err := m.session.Defs.Registry.Get(id); err == nil &&
			strings.ToLower(skill.Name) == lower {
			return id
		}
	}
	return input
}

func (m Model) skillName(id string) string {
	if skill, err := m.session.Defs.Registry.Get(id); err == nil {
		return skill.Name
	}
	return id
}

func (m Model) skillLabel(id string) string {
	skill, err := m.session.Defs.Registry.Get(id)
	if err != nil {
		return id
	}
	label := fmt.Sprintf("%s (%s, power %d)", skill.Name, skill.Category, skill.Power)
	if skill.Effect != types.EffectNone {
		label += " [" + skill.Effect.String() + "]"
	}
	return label
}

func (m Model) skillNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, m.skillName(id))
	}
	return names
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}
