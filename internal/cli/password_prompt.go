package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// readPasswordNoEcho reads one line from stdin while the terminal echo is off.
// The previous terminal mode is restored before returning.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	restore, err := disableEcho(stdin.Fd())
	if err != nil {
		return nil, err
	}
	defer restore()

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
