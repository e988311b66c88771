package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2beens/formcheck/pkg"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newHashSecretCmd prints the value for FORMCHECK_CLIENT_SECRET_HASH.
// The secret is read from stdin so it stays out of the shell history.
func newHashSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret",
		Short: "Hash a client secret for the service config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			hash, err := pkg.HashSecret(secret)
			if err != nil {
				return fmt.Errorf("hash secret: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(prompt, "secret: ")
		secretBytes, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return checkSecret(string(secretBytes))
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return checkSecret(strings.TrimRight(line, "\r\n"))
}

func checkSecret(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("empty secret")
	}
	return secret, nil
}
