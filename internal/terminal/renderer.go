// Package terminal renders assistant output and reads user input on a terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	banner lipgloss.Style
	text   lipgloss.Style
	hint   lipgloss.Style
	info   lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	answer lipgloss.Style
	prompt lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		banner: r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		text:   r.NewStyle().Foreground(lipgloss.Color("7")),
		hint:   r.NewStyle().Foreground(lipgloss.Color("8")),
		info:   r.NewStyle().Foreground(lipgloss.Color("6")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")),
		err:    r.NewStyle().Foreground(lipgloss.Color("1")),
		answer: r.NewStyle().Foreground(lipgloss.Color("4")),
		prompt: r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Renderer writes styled assistant output. Colors are dropped automatically
// when out is not a terminal.
type Renderer struct {
	out    io.Writer
	styles styles
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

func (r *Renderer) println(style lipgloss.Style, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(r.out, style.Render(line))
	}
}

const rule = "================================================="

func (r *Renderer) Welcome() {
	r.println(r.styles.banner, "", rule, "🤖 Welcome to the Idea Generation Assistant! 🚀", rule, "")
	r.println(r.styles.text,
		"How to use this assistant:",
		"1. Ask any question about what to build or create",
		"2. Get 3 creative ideas as response",
		"3. Select your favorite idea(s) by number",
		"4. Receive detailed guidance for your selection",
		"",
		"Special commands:",
	)
	r.println(r.styles.hint,
		`- Type "back" to go to previous question`,
		`- Type "retry" to generate new ideas for current question`,
		`- Type "exit" to quit the program`,
		"",
	)
	r.println(r.styles.text, "Example questions you can ask:")
	r.println(r.styles.hint,
		"- What app should I build?",
		"- What business can I start with $5000?",
		"- What website should I create for my portfolio?",
		"",
	)
	r.println(r.styles.warn, "Note: Please keep questions appropriate and professional.", "")
	r.println(r.styles.banner, rule, "")
	r.println(r.styles.warn, "Please ask your question below:")
}

func (r *Renderer) Info(msg string) {
	r.println(r.styles.info, "", msg)
}

func (r *Renderer) Warn(msg string) {
	r.println(r.styles.warn, "", msg)
}

func (r *Renderer) Error(msg string) {
	r.println(r.styles.err, "", "❌ "+msg)
}

func (r *Renderer) Ideas(ideas []string) {
	r.println(r.styles.answer, "", fmt.Sprintf("📝 Here are %d ideas for you:", len(ideas)))
	r.println(r.styles.answer, ideas...)
}

func (r *Renderer) SelectionHelp() {
	r.println(r.styles.warn, "", "👉 Select any number of ideas by entering their numbers:")
	r.println(r.styles.hint,
		`   Examples: "1" or "1 3" or "1,2,3"`,
		`   Or type "retry" for new ideas, "back" for previous question, "exit" to leave this question`,
	)
}

func (r *Renderer) Detail(detail string) {
	r.println(r.styles.answer, "", "📋 Detailed suggestions:")
	r.println(r.styles.answer, strings.Split(detail, "\n")...)
}

func (r *Renderer) NextSteps() {
	r.println(r.styles.warn,
		"",
		"✨ You can:",
		"   1. Ask another question",
		`   2. Type "back" to go to previous question`,
		`   3. Type "exit" to quit`,
		"",
	)
}

func (r *Renderer) Goodbye() {
	r.println(r.styles.warn, "", "Thank you for using the Idea Generation Assistant. Goodbye! 👋", "")
}

// RateLimited and IdeaRetry make the renderer usable as an agents.Notifier

func (r *Renderer) RateLimited(wait time.Duration, retry, maxRetries int) {
	r.println(r.styles.warn, fmt.Sprintf("Rate limit hit. Waiting %s before retry (%d/%d)...", wait, retry, maxRetries))
}

func (r *Renderer) IdeaRetry(attempt, maxAttempts int, _ error) {
	r.println(r.styles.warn, "", fmt.Sprintf("Retrying to generate better ideas (Attempt %d/%d)...", attempt, maxAttempts))
}
