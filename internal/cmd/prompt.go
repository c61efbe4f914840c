package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/nudibranch/nudi/cli/internal/ui"
)

var errInterrupted = errors.New("interrupted")

// prompter asks the user for input.
type prompter interface {
	Input(message, def string) (string, error)
	Password(message string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// newPrompter uses survey on a terminal and plain line reads otherwise.
func newPrompter(in io.Reader, out io.Writer) prompter {
	fin, inOK := in.(*os.File)
	fout, outOK := out.(*os.File)
	if inOK && outOK && ui.IsTerminal(fin) && ui.IsTerminal(fout) {
		return &surveyPrompter{opts: []survey.AskOpt{survey.WithStdio(fin, fout, fout)}}
	}
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

type surveyPrompter struct {
	opts []survey.AskOpt
}

func (p *surveyPrompter) ask(prompt survey.Prompt, response any, opts ...survey.AskOpt) error {
	err := survey.AskOne(prompt, response, append(p.opts, opts...)...)
	if errors.Is(err, terminal.InterruptErr) {
		return errInterrupted
	}
	return err
}

func (p *surveyPrompter) Input(message, def string) (string, error) {
	var answer string
	err := p.ask(&survey.Input{Message: message, Default: def}, &answer, survey.WithValidator(survey.Required))
	return answer, err
}

func (p *surveyPrompter) Password(message string) (string, error) {
	var answer string
	err := p.ask(&survey.Password{Message: message}, &answer, survey.WithValidator(survey.Required))
	return answer, err
}

func (p *surveyPrompter) Confirm(message string, def bool) (bool, error) {
	answer := def
	err := p.ask(&survey.Confirm{Message: message, Default: def}, &answer)
	return answer, err
}

type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *linePrompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	text, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *linePrompter) Input(message, def string) (string, error) {
	label := message + ": "
	if def != "" {
		label = fmt.Sprintf("%s [%s]: ", message, def)
	}
	answer, err := p.line(label)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *linePrompter) Password(message string) (string, error) {
	return p.line(message + ": ")
}

func (p *linePrompter) Confirm(message string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.line(fmt.Sprintf("%s (%s) ", message, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return def, nil
}
