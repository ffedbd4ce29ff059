package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

var errNotInteractive = errors.New("standard input is not a terminal")

var stdin = bufio.NewReader(os.Stdin)

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ask prints question and returns the trimmed line typed by the operator.
func ask(question string) (string, error) {
	if !isInteractive() {
		return "", errNotInteractive
	}
	fmt.Print(question)
	line, err := stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but y or s counts as no.
func confirm(question string) (bool, error) {
	answer, err := ask(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	}
	return false, nil
}

// choose asks for a 1-based index in [1, n].
func choose(question string, n int) (int, error) {
	for {
		answer, err := ask(fmt.Sprintf("%s [1-%d]: ", question, n))
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(answer)
		if err == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		fmt.Println("Invalid choice.")
	}
}

// readPassphrase reads a passphrase without echo.
func readPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNotInteractive
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}
