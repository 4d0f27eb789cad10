package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/festa/internal/auth"
)

func hashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash an admin password for FESTA_ADMIN_PASSWORD_HASH",
		Long: `Reads a password from the first line of standard input and prints its
bcrypt hash. Put the result in FESTA_ADMIN_PASSWORD_HASH.

  echo -n 'my secret' | festactl hash-password`,
		Args: cobra.NoArgs,
		RunE: runHashPassword,
	}

	cmd.Flags().Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")

	return cmd
}

func runHashPassword(cmd *cobra.Command, _ []string) error {
	cost, _ := cmd.Flags().GetInt("cost")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return errors.New("no password on standard input")
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := auth.HashPasswordWithCost(password, cost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
