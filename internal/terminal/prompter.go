package terminal

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	input "github.com/tcnksm/go-input"
)

// Prompter reads one line per prompt. Ctrl-C and end of input both surface as io.EOF.
type Prompter struct {
	ui     *input.UI
	reader *eofReader
	style  lipgloss.Style
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	reader := &eofReader{r: in}
	return &Prompter{
		ui: &input.UI{
			Writer: out,
			Reader: reader,
		},
		reader: reader,
		style:  lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("2")),
	}
}

func (p *Prompter) Ask(prompt string) (string, error) {
	// go-input appends ": " itself
	query := strings.TrimSuffix(strings.TrimSpace(prompt), ":")

	answer, err := p.ui.Ask(p.style.Render(query), &input.Options{
		HideOrder: true,
	})
	if err != nil {
		if errors.Is(err, input.ErrInterrupted) || p.reader.eof {
			return "", io.EOF
		}
		return "", errors.Wrap(err, "failed to read input")
	}

	answer = strings.TrimRight(answer, "\r\n")
	if answer == "" && p.reader.eof {
		return "", io.EOF
	}

	return answer, nil
}

// eofReader remembers whether the underlying reader is exhausted, since
// go-input reports end of input as an empty answer.
type eofReader struct {
	r   io.Reader
	eof bool
}

func (e *eofReader) Read(b []byte) (int, error) {
	n, err := e.r.Read(b)
	if err == io.EOF {
		e.eof = true
	}
	return n, err
}
