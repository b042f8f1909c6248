// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Predator's Odyssey game. It is presentation glue only:
// every rule decision happens in the engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/S-tiemersma/predators-odyssey/engine"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *engine.Session
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	scanner *bufio.Scanner
}

// New creates a CLI wired to the given session.
func New(sess *engine.Session) *CLI {
	return &CLI{
		Session: sess,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the game loop: intro, then prompt → command → output until
// the player quits, dies, or reaches the surface.
func (c *CLI) Run() {
	game := c.Session.Defs.Game
	if game.Intro != "" {
		c.printLine(game.Intro)
		c.printLine("")
	}
	c.cmdStatus()

	c.scanner = bufio.NewScanner(c.In)
	for {
		input, ok := c.readLine("> ")
		if !ok {
			return
		}
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		switch strings.ToLower(input) {
		case "explore", "e", "1":
			if !c.cmdExplore() {
				return
			}
		case "fuse", "f", "2":
			c.cmdFuse()
		case "ascend", "a", "3":
			if !c.cmdAscend() {
				return
			}
		case "status", "skills", "s":
			c.cmdStatus()
		case "help", "h", "?":
			c.cmdHelp()
		case "quit", "q", "4":
			c.printLine("Thanks for playing!")
			return
		default:
			c.printLine("Unknown command. Type 'help' for the list of commands.")
		}
	}
}

// readLine prompts and reads one input line, skipping comment lines so
// script files can be annotated. ok=false means input is exhausted.
func (c *CLI) readLine(prompt string) (string, bool) {
	for {
		c.print(prompt)
		if !c.scanner.Scan() {
			return "", false
		}
		line := strings.TrimSpace(c.scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(line)
		}
		return line, true
	}
}

// cmdExplore fights one encounter. Returns false when the run is over
// (player defeated or input exhausted).
func (c *CLI) cmdExplore() bool {
	sess := c.Session
	enemy := sess.SpawnEnemy()
	if enemy == nil {
		c.printSystem("Nothing stirs in the dark. The bestiary is empty.")
		return true
	}

	c.printLine("")
	c.printLine(fmt.Sprintf("--- A wild %s appears! ---", enemy.Name))
	c.printLine(fmt.Sprintf("It has %d HP and knows: %s", enemy.Health, strings.Join(c.skillNames(enemy.KnownSkills()), ", ")))
	c.printLine("")

	outcome, err := sess.RunEncounter(enemy, c.selectSkill, c.printResult)
	if err != nil {
		// Input exhausted mid-fight (script ended).
		return false
	}

	switch outcome {
	case types.PlayerVictory:
		granted, err := sess.Absorb(enemy)
		if err != nil {
			c.printSystem(fmt.Sprintf("Absorption failed: %v", err))
			return true
		}
		c.printLine(fmt.Sprintf("You devour the %s and learn %s!", enemy.Name, c.skillName(granted)))
		if res, evolved := sess.MaybeEvolve(); evolved {
			c.printLine("")
			c.printResult(res)
		}
		c.printLine("")
		return true
	case types.PlayerDefeat:
		c.printLine("")
		c.printLine("GAME OVER - your journey ends here.")
		return false
	default:
		return true
	}
}

// selectSkill is the per-turn callback: list known skills, read a pick by
// number, ID, or name. Invalid picks are the engine's to reject; we only
// re-prompt on empty input.
func (c *CLI) selectSkill(known []string) (string, error) {
	c.printLine("Your skills:")
	for i, id := range known {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, c.skillLabel(id)))
	}
	for {
		input, ok := c.readLine("Attack with: ")
		if !ok {
			return "", io.EOF
		}
		if input == "" {
			continue
		}
		if n, err := strconv.Atoi(input); err == nil {
			if n >= 1 && n <= len(known) {
				return known[n-1], nil
			}
			c.printLine("Invalid selection. Please choose a valid number.")
			continue
		}
		return c.matchSkill(known, input), nil
	}
}

// matchSkill maps free-text input to a known skill ID when it matches an ID
// or display name; otherwise the raw input is passed through for the engine
// to reject.
func (c *CLI) matchSkill(known []string, input string) string {
	lower := strings.ToLower(input)
	for _, id := range known {
		if id == lower {
			return id
		}
		if skill, err := c.Session.Defs.Registry.Get(id); err == nil &&
			strings.ToLower(skill.Name) == lower {
			return id
		}
	}
	return input
}

func (c *CLI) cmdFuse() {
	sess := c.Session
	if len(sess.Player.KnownSkills()) < 2 {
		c.printLine("You need at least two skills to attempt a fusion.")
		return
	}
	candidates := sess.FusionCandidates()
	if len(candidates) == 0 {
		c.printLine("None of your current skills can be fused together right now.")
		return
	}

	c.printLine("Possible fusions:")
	for i, cand := range candidates {
		c.printLine(fmt.Sprintf("  %d. %s + %s => %s",
			i+1, c.skillName(cand.A), c.skillName(cand.B), c.skillName(cand.Result)))
	}

	for {
		input, ok := c.readLine("Fusion number (or press Enter to cancel): ")
		if !ok || input == "" {
			c.printLine("Fusion cancelled.")
			return
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(candidates) {
			c.printLine("Invalid choice. Please enter a valid number or press Enter to cancel.")
			continue
		}
		cand := candidates[n-1]
		result, ok, err := sess.Fuse(cand.A, cand.B)
		if err != nil {
			c.printSystem(fmt.Sprintf("Fusion failed: %v", err))
			return
		}
		if !ok {
			// Candidates come from the table, so this shouldn't happen.
			c.printLine("These two skills don't combine.")
			return
		}
		c.printLine(fmt.Sprintf("You fused %s and %s into %s!",
			c.skillName(cand.A), c.skillName(cand.B), result.Name))
		return
	}
}

// cmdAscend climbs one layer. Returns false when the run ends at the
// surface.
func (c *CLI) cmdAscend() bool {
	res, surfaced := c.Session.Ascend()
	c.printResult(res)
	if surfaced {
		c.printLine("")
		c.printLine("You survived the depths and emerged stronger than before.")
		return false
	}
	return true
}

func (c *CLI) cmdStatus() {
	sess := c.Session
	p := sess.Player
	c.printLine(fmt.Sprintf("Current layer: %d  |  HP: %d/%d", sess.Layer, p.Health, p.MaxHealth))
	c.printLine("Skills:")
	for _, id := range p.KnownSkills() {
		c.printLine("  - " + c.skillLabel(id))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
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
	for _, line := range help {
		c.printLine(line)
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input))
	}
	return false
}

func (c *CLI) cmdState() {
	sess := c.Session
	c.printSystem(fmt.Sprintf("Layer: %d", sess.Layer))
	c.printSystem(fmt.Sprintf("HP: %d/%d", sess.Player.Health, sess.Player.MaxHealth))
	c.printSystem(fmt.Sprintf("Skills: %v", sess.Player.KnownSkills()))
	c.printSystem(fmt.Sprintf("Seed: %d", sess.RNG.Seed()))
}

func (c *CLI) skillName(id string) string {
	if skill, err := c.Session.Defs.Registry.Get(id); err == nil {
		return skill.Name
	}
	return id
}

// skillLabel renders a skill with its power and effect for listings.
func (c *CLI) skillLabel(id string) string {
	skill, err := c.Session.Defs.Registry.Get(id)
	if err != nil {
		return id
	}
	label := fmt.Sprintf("%s (%s, power %d)", skill.Name, skill.Category, skill.Power)
	if skill.Effect != types.EffectNone {
		label += " [" + skill.Effect.String() + "]"
	}
	return label
}

func (c *CLI) skillNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, c.skillName(id))
	}
	return names
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
	if c.Trace {
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace] %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
