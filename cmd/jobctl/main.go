// Command jobctl is a small command-line client for the job tracker API.
// With a stored session it talks to the server; without one it runs in
// guest mode against a local, non-persisted shadow store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/redmonkez12/job-tracker/internal/application"
	"github.com/redmonkez12/job-tracker/internal/client"
)

const defaultAPIBase = "http://localhost:8080"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	session, err := newSession()
	if err != nil {
		return err
	}
	remote := client.NewRemote(apiBase(), session)

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "register":
		return register(ctx, remote, rest)
	case "login":
		return login(ctx, remote, rest)
	case "logout":
		if err := remote.Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "me":
		return me(ctx, remote)
	case "list":
		return list(ctx, session, remote, rest)
	case "add":
		return add(ctx, session, remote, rest)
	case "update":
		return update(ctx, session, remote, rest)
	case "delete":
		return del(ctx, session, remote, rest)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: jobctl <command> [flags]

commands:
  register  -email <email>            create an account and log in
  login     -email <email>            log in to an existing account
  logout                              discard the stored session
  me                                  show the current profile
  list      [-status s] [-sort newest|oldest]
  add       -company c -role r [-status s] [-link l] [-notes n]
  update    -id <id> [-company c] [-role r] [-status s] [-link l] [-notes n]
  delete    -id <id>

Without a stored session, list/add/update/delete run in guest mode:
local demo data only, nothing is saved and nothing reaches the server.`)
}

func newSession() (*client.Session, error) {
	path := os.Getenv("JOBTRACKR_SESSION")
	if path == "" {
		var err error
		path, err = client.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
	}
	return client.NewSession(path), nil
}

func apiBase() string {
	if base := os.Getenv("JOBTRACKR_API"); base != "" {
		return strings.TrimRight(base, "/")
	}
	return defaultAPIBase
}

// pickStore selects the remote store when a session exists, the guest
// shadow otherwise.
func pickStore(session *client.Session, remote *client.Remote) (client.Store, bool, error) {
	state, err := session.Load()
	if err != nil {
		return nil, false, err
	}
	if state != nil {
		return remote, false, nil
	}
	return client.NewGuest(), true, nil
}

func register(ctx context.Context, remote *client.Remote, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	if err := remote.Register(ctx, *email, password); err != nil {
		return err
	}
	fmt.Println("registered and logged in as", *email)
	return nil
}

func login(ctx context.Context, remote *client.Remote, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	if err := remote.Login(ctx, *email, password); err != nil {
		return err
	}
	fmt.Println("logged in as", *email)
	return nil
}

func me(ctx context.Context, remote *client.Remote) error {
	profile, err := remote.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			return errors.New("not logged in")
		}
		return err
	}
	fmt.Printf("%s (id %s, registered %s)\n", profile.Email, profile.ID, profile.CreatedAt.Format("2006-01-02"))
	return nil
}

func list(ctx context.Context, session *client.Session, remote *client.Remote, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	status := fs.String("status", "", "filter by status (applied|interviewing|offer)")
	sort := fs.String("sort", "", "sort order (newest|oldest)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, guestMode, err := pickStore(session, remote)
	if err != nil {
		return err
	}
	if guestMode {
		fmt.Println("(guest mode: local demo data, nothing is saved)")
	}

	apps, err := store.List(ctx, application.ListFilter{
		Status: application.Status(*status),
		Sort:   *sort,
	})
	if err != nil {
		return err
	}

	if len(apps) == 0 {
		fmt.Println("no applications")
		return nil
	}
	for _, app := range apps {
		line := fmt.Sprintf("%s  %-14s %s @ %s", app.ID, app.Status, app.Role, app.Company)
		if app.Link != "" {
			line += "  " + app.Link
		}
		fmt.Println(line)
	}
	return nil
}

func add(ctx context.Context, session *client.Session, remote *client.Remote, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	company := fs.String("company", "", "company name")
	role := fs.String("role", "", "role title")
	status := fs.String("status", "", "status (defaults to applied)")
	link := fs.String("link", "", "posting URL")
	notes := fs.String("notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, guestMode, err := pickStore(session, remote)
	if err != nil {
		return err
	}

	app, err := store.Create(ctx, application.CreateInput{
		Company: *company,
		Role:    *role,
		Status:  application.Status(*status),
		Link:    *link,
		Notes:   *notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created %s (%s @ %s)\n", app.ID, app.Role, app.Company)
	if guestMode {
		fmt.Println("(guest mode: this record is not saved anywhere)")
	}
	return nil
}

func update(ctx context.Context, session *client.Session, remote *client.Remote, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	id := fs.String("id", "", "application id")
	company := fs.String("company", "", "company name")
	role := fs.String("role", "", "role title")
	status := fs.String("status", "", "status")
	link := fs.String("link", "", "posting URL")
	notes := fs.String("notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	// Only flags the user actually set become part of the update
	fields := application.UpdateFields{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "company":
			fields.Company = company
		case "role":
			fields.Role = role
		case "status":
			s := application.Status(*status)
			fields.Status = &s
		case "link":
			fields.Link = link
		case "notes":
			fields.Notes = notes
		}
	})

	store, _, err := pickStore(session, remote)
	if err != nil {
		return err
	}

	app, err := store.Update(ctx, *id, fields)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s (%s @ %s, %s)\n", app.ID, app.Role, app.Company, app.Status)
	return nil
}

func del(ctx context.Context, session *client.Session, remote *client.Remote, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "application id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	store, _, err := pickStore(session, remote)
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Println("deleted", *id)
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
