// Command setpassword creates the admin account or replaces its password.
// It reads the same configuration as the server (JSON file, environment,
// flags) and prompts for the new password without echo.
//
//	setpassword -u admin -d postgres://...
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/studiosite/internal/flagx"
	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/config"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studiosite/internal/server/services"
	"golang.org/x/term"
)

var (
	readPassword   = term.ReadPassword
	isTerminal     = term.IsTerminal
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, args []string, in *os.File, out io.Writer) error {
	fs := flag.NewFlagSet("setpassword", flag.ContinueOnError)
	fs.SetOutput(out)
	username := fs.String("u", "", "admin username (defaults to the configured admin)")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"u"})); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	if *username == "" {
		*username = cfg.AdminUsername
	}

	password, err := promptPassword(in, out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	logger := logging.New(out, cfg.LogLevel)
	credentials := services.NewCredentialService(db, rm, nil, logger)
	if err := credentials.SetPassword(ctx, *username, password); err != nil {
		return err
	}

	fmt.Fprintf(out, "Password for %q updated\n", *username)
	return nil
}

// promptPassword reads the password twice from a terminal, or a single
// line when input is piped.
func promptPassword(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if !isTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(out, "New password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
