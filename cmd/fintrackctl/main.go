// Command fintrackctl runs operator tasks against the fintrack database:
// applying migrations and managing user accounts.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/migrate"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
)

const usage = `usage: fintrackctl <command> [flags]

commands:
  migrate up                                   apply pending migrations
  user create -username U -email E [-full-name N]
                                               create a user; the password is read from the terminal
  user disable -username U                     block future logins and revoke issued tokens
  user enable -username U                      allow logins again
`

type cliConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

// userStore is the repository surface the user commands need.
type userStore interface {
	service.CredentialStore
	Close()
}

// cliEnv bundles the process edges so commands can be tested.
type cliEnv struct {
	stdout       io.Writer
	stderr       io.Writer
	migrateUp    func(ctx context.Context, dsn string) error
	openStore    func(ctx context.Context, dsn string) (userStore, error)
	readPassword func(prompt string) (string, error)
	databaseURL  string
}

func main() {
	_ = godotenv.Load()

	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e := &cliEnv{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		migrateUp: migrate.Up,
		openStore: func(ctx context.Context, dsn string) (userStore, error) {
			return repository.New(ctx, dsn)
		},
		readPassword: terminalPassword,
		databaseURL:  cfg.DatabaseURL,
	}

	os.Exit(run(ctx, e, os.Args[1:]))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, e *cliEnv, args []string) int {
	if len(args) < 2 {
		fmt.Fprint(e.stderr, usage)
		return 2
	}

	var err error
	switch args[0] + " " + args[1] {
	case "migrate up":
		err = e.migrateUp(ctx, e.databaseURL)
		if err == nil {
			fmt.Fprintln(e.stdout, "migrations applied")
		}
	case "user create":
		err = createUser(ctx, e, args[2:])
	case "user disable":
		err = setEnabled(ctx, e, args[2:], false)
	case "user enable":
		err = setEnabled(ctx, e, args[2:], true)
	default:
		fmt.Fprint(e.stderr, usage)
		return 2
	}

	if err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(e.stderr, err)
			return 2
		}
		fmt.Fprintln(e.stderr, "error:", err)
		return 1
	}
	return 0
}

type usageError string

func (u usageError) Error() string { return string(u) }

func createUser(ctx context.Context, e *cliEnv, args []string) error {
	fs := flag.NewFlagSet("user create", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	username := fs.String("username", "", "login name")
	email := fs.String("email", "", "email address")
	fullName := fs.String("full-name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *username == "" || *email == "" {
		return usageError("user create: -username and -email are required")
	}

	password, err := e.readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := e.readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	st, err := e.openStore(ctx, e.databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	// Signup never issues tokens, so no codec is needed.
	svc := service.NewAuthService(st, nil, metrics.NewNoop())
	user, err := svc.Signup(ctx, service.SignupInput{
		Username: *username,
		Email:    *email,
		Password: password,
		FullName: *fullName,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "created user %s (%s)\n", user.Username, user.ID)
	return nil
}

func setEnabled(ctx context.Context, e *cliEnv, args []string, enabled bool) error {
	verb := "disable"
	if enabled {
		verb = "enable"
	}

	fs := flag.NewFlagSet("user "+verb, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	username := fs.String("username", "", "login name")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *username == "" {
		return usageError("user " + verb + ": -username is required")
	}

	st, err := e.openStore(ctx, e.databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	svc := service.NewAuthService(st, nil, metrics.NewNoop())
	if err := svc.SetEnabled(ctx, *username, enabled); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fmt.Errorf("user %q not found", *username)
		}
		return err
	}

	fmt.Fprintf(e.stdout, "user %s %sd\n", *username, verb)
	return nil
}

var stdinLines = bufio.NewReader(os.Stdin)

// terminalPassword prompts on stderr and reads without echo. Piped input
// is read as a single line.
func terminalPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdinLines.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
