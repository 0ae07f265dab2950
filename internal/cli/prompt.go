package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompter asks questions on the command's streams. The same reader is
// handed to anything else that consumes stdin so buffered input is not
// lost between them.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func newPrompter(in io.Reader, w io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(in), w: w}
}

// Ask prints question and returns the trimmed answer line.
func (p *prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.w, question+" ")
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no answer to %q: input closed", strings.TrimSpace(question))
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm returns true only when the answer is "yes".
func (p *prompter) Confirm(question string) (bool, error) {
	ans, err := p.Ask(question)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(ans, "yes"), nil
}
