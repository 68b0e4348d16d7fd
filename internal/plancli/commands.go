package plancli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gymflow/fitness-app/internal/client"
	"gymflow/fitness-app/internal/planner"

	"github.com/spf13/pflag"
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrUsage, fs.Name(), err)
	}
	return nil
}

func requireFlags(cmd string, values map[string]string) error {
	for name, v := range values {
		if v == "" {
			return fmt.Errorf("%w: %s needs --%s", ErrUsage, cmd, name)
		}
	}
	return nil
}

// planIDArg returns the single positional plan id.
func planIDArg(fs *pflag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s needs exactly one plan id", ErrUsage, fs.Name())
	}
	return fs.Arg(0), nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password, at least 6 characters")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlags("register", map[string]string{"name": *name, "email": *email, "password": *password}); err != nil {
		return err
	}

	session, err := a.auth.Register(ctx, *name, *email, *password)
	if err != nil {
		return signInError(err)
	}
	return a.saveSession(session)
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlags("login", map[string]string{"email": *email, "password": *password}); err != nil {
		return err
	}

	session, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return signInError(err)
	}
	return a.saveSession(session)
}

// signInError reports a refused sign in as what it is rather than as an
// expired session.
func signInError(err error) error {
	var authErr *client.AuthError
	if errors.As(err, &authErr) {
		return errors.New("Sign in failed: " + authErr.Message)
	}
	var verr *planner.ValidationError
	if errors.As(err, &verr) {
		return errors.New("Sign in failed: " + verr.Message)
	}
	return err
}

func (a *App) saveSession(session *client.Session) error {
	if err := a.tokens.Save(session.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", session.User.Name, session.User.Email)
	return nil
}

func (a *App) logout() error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) exercises(args []string) error {
	fs := newFlagSet("exercises")
	group := fs.String("group", "", "only this muscle group")
	search := fs.String("search", "", "case-insensitive name search")
	groups := fs.Bool("groups", false, "list the muscle groups instead")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *groups {
		for _, g := range a.catalog.MuscleGroups() {
			fmt.Fprintln(a.out, g)
		}
		return nil
	}

	found := a.catalog.Filter(*search, *group)
	if len(found) == 0 {
		fmt.Fprintln(a.out, "No exercises match.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMUSCLE\tGROUP")
	for _, ex := range found {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ex.ID, ex.Name, ex.Muscle, ex.MuscleGroup)
	}
	return tw.Flush()
}

func (a *App) list(ctx context.Context) error {
	plans, err := a.plans.FetchAll(ctx)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Fprintln(a.out, "No workout plans yet. Create one with: plancli create -f draft.yaml")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDAYS\tEXERCISES\tUPDATED")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			p.ID.Hex(), p.Name, len(p.Days), p.TotalExercises(), p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) show(ctx context.Context, args []string) error {
	fs := newFlagSet("show")
	day := fs.Int("day", 1, "day to show")
	expand := fs.Int("expand", 0, "exercise to show in detail")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := planIDArg(fs)
	if err != nil {
		return err
	}

	plan, err := a.plans.FetchOne(ctx, id)
	if err != nil {
		return err
	}

	viewer := planner.NewViewer(plan)
	viewer.SelectDay(*day - 1)
	if *expand > 0 && !viewer.Expand(*expand-1) {
		return fmt.Errorf("%w: day %d has no exercise %d", ErrUsage, viewer.ActiveDay()+1, *expand)
	}
	renderPlan(a.out, viewer)
	return nil
}

func (a *App) create(ctx context.Context, args []string) error {
	fs := newFlagSet("create")
	file := fs.StringP("file", "f", "", "plan draft (YAML)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlags("create", map[string]string{"file": *file}); err != nil {
		return err
	}

	builder, err := loadDraft(*file, a.catalog)
	if err != nil {
		return err
	}

	saved, err := planner.NewEditor(builder, a.plans).Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created plan %s (%s)\n", saved.ID.Hex(), saved.Name)
	return nil
}

func (a *App) edit(ctx context.Context, args []string) error {
	fs := newFlagSet("edit")
	var ops editOps
	fs.StringVar(&ops.name, "name", "", "new plan name")
	fs.StringVar(&ops.description, "description", "", "new description")
	fs.IntVar(&ops.addDays, "add-day", 0, "append this many days")
	fs.StringArrayVar(&ops.renameDays, "rename-day", nil, "N=name")
	fs.StringArrayVar(&ops.addExercises, "add-exercise", nil, "N:exercise-id")
	fs.StringArrayVar(&ops.sets, "sets", nil, "N:M=value")
	fs.StringArrayVar(&ops.reps, "reps", nil, "N:M=value")
	fs.StringArrayVar(&ops.removeExercises, "remove-exercise", nil, "N:M")
	fs.IntSliceVar(&ops.removeDays, "remove-day", nil, "day number")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := planIDArg(fs)
	if err != nil {
		return err
	}

	plan, err := a.plans.FetchOne(ctx, id)
	if err != nil {
		return err
	}

	builder := planner.NewBuilderFromPlan(plan)
	if err := ops.apply(builder, a.catalog); err != nil {
		return err
	}

	saved, err := planner.NewEditor(builder, a.plans).Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved plan %s (%d days, %d exercises)\n", saved.ID.Hex(), len(saved.Days), saved.TotalExercises())
	return nil
}

func (a *App) remove(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := planIDArg(fs)
	if err != nil {
		return err
	}

	if err := a.plans.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted plan %s\n", id)
	return nil
}

func atoiArg(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a number from 1, got %q", ErrUsage, what, s)
	}
	return n, nil
}
