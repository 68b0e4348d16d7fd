// Package plancli implements the plancli terminal client: sign in, browse the
// exercise catalog, and build, view, edit and delete workout plans on the
// server.
package plancli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gymflow/fitness-app/internal/catalog"
	"gymflow/fitness-app/internal/client"
	"gymflow/fitness-app/internal/config"
	"gymflow/fitness-app/internal/events"
	"gymflow/fitness-app/internal/planner"

	log "github.com/sirupsen/logrus"
)

var ErrUsage = errors.New("usage error")

const usageText = `usage: plancli <command> [flags]

commands:
  register   --name N --email E --password P
  login      --email E --password P
  logout
  exercises  [--group G] [--search S] [--groups]
  list
  show       <plan-id> [--day N] [--expand M]
  create     -f draft.yaml
  edit       <plan-id> [--name N] [--description D] [--add-day K] [--rename-day N=name]
             [--add-exercise N:exercise-id] [--sets N:M=value] [--reps N:M=value]
             [--remove-exercise N:M] [--remove-day N]
  delete     <plan-id>

Days and exercises are numbered from 1.
`

type App struct {
	out      io.Writer
	tokens   client.TokenStore
	auth     *client.AuthClient
	plans    *client.PlanClient
	catalog  *catalog.Catalog
	sessions *events.Bus[client.SessionExpired]
}

// New wires the clients. When the server rejects the stored credential it is
// removed from tokens.
func New(cfg config.ClientConfig, tokens client.TokenStore, out io.Writer) (*App, error) {
	sessions := events.NewBus[client.SessionExpired]()
	clientCfg := client.Config{
		BaseURL:  cfg.APIURL,
		Timeout:  cfg.Timeout,
		Tokens:   tokens,
		Sessions: sessions,
	}

	authClient, err := client.NewAuthClient(clientCfg)
	if err != nil {
		return nil, err
	}
	planClient, err := client.NewPlanClient(clientCfg)
	if err != nil {
		return nil, err
	}
	exercises, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load exercise catalog: %w", err)
	}

	sessions.Subscribe(func(ev client.SessionExpired) {
		log.Debugf("session rejected with HTTP %d, removing stored token", ev.StatusCode)
		if err := tokens.Clear(); err != nil {
			log.Warnf("remove stored token: %s", err)
		}
	})

	return &App{
		out:      out,
		tokens:   tokens,
		auth:     authClient,
		plans:    planClient,
		catalog:  exercises,
		sessions: sessions,
	}, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usageText)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	case "exercises":
		return a.exercises(rest)
	case "list":
		return a.list(ctx)
	case "show":
		return a.show(ctx, rest)
	case "create":
		return a.create(ctx, rest)
	case "edit":
		return a.edit(ctx, rest)
	case "delete":
		return a.remove(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usageText)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

// DescribeError turns a command error into the message shown to the user.
func DescribeError(err error) string {
	var (
		authErr   *client.AuthError
		notFound  *client.NotFoundError
		transient *client.TransientError
		verr      *planner.ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		if authErr.StatusCode == 0 {
			return "You are not logged in. Run: plancli login --email E --password P"
		}
		return "Your session has expired. Please log in again."
	case errors.As(err, &notFound):
		return "Workout plan not found: " + notFound.ID
	case errors.As(err, &transient):
		return "The server is unavailable right now, please try again later."
	case errors.As(err, &verr):
		return describeValidation(verr)
	case errors.Is(err, context.Canceled):
		return "Canceled."
	default:
		return err.Error()
	}
}

func describeValidation(verr *planner.ValidationError) string {
	if len(verr.Fields) == 0 {
		return "Plan not saved: " + verr.Message
	}
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var sb strings.Builder
	sb.WriteString("Plan not saved:")
	for _, f := range fields {
		fmt.Fprintf(&sb, "\n  %s: %s", f, verr.Fields[f])
	}
	return sb.String()
}
