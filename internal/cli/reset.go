package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/fetalrisk/internal/services"
)

type PasswordResetter interface {
	ResetPassword(email string) (string, error)
	SetPassword(email string, password string) error
}

// PasswordReader prints label and reads one secret line.
type PasswordReader func(label string) (string, error)

// RunResetPassword issues a temporary password for the account, or, when
// readPassword is set, asks the operator for the new one.
func RunResetPassword(resetter PasswordResetter, email string, readPassword PasswordReader, out io.Writer) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	if readPassword == nil {
		temporaryPassword, err := resetter.ResetPassword(email)
		if err != nil {
			return describeResetError(email, err)
		}
		fmt.Fprintln(out, "Password reset successful")
		fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
		return nil
	}

	password, err := readPassword("New password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirmation, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}
	if password != confirmation {
		return errors.New("passwords do not match")
	}

	if err := resetter.SetPassword(email, password); err != nil {
		return describeResetError(email, err)
	}
	fmt.Fprintln(out, "Password updated")
	return nil
}

func describeResetError(email string, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return fmt.Errorf("user %s not found", email)
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fmt.Errorf("invalid email address %q", email)
	case errors.Is(err, services.ErrWeakPassword):
		return errors.New("password must be at least 8 characters and include a letter and a digit")
	default:
		return err
	}
}

// TerminalPasswordReader reads secrets from stdin with echo disabled.
func TerminalPasswordReader(stdin *os.File, out io.Writer) PasswordReader {
	return func(label string) (string, error) {
		fmt.Fprint(out, label)
		value, err := readPasswordNoEcho(stdin)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}
}
