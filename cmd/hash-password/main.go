// Command hash-password produces the bcrypt hash expected by
// KITCHEN_ADMIN_PASSWORD_HASH. The password is read from stdin so it never
// lands in shell history or process listings.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor (4..31)")
	flag.Parse()

	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil && password == "" {
		slog.Error("read password", slog.String("error", err.Error()))
		os.Exit(1)
	}
	password = strings.TrimRight(password, "\r\n")

	if password == "" {
		slog.Error("password must not be empty")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		slog.Error("hash password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(string(hash))
}
