package cli

import (
	"errors"
	"fmt"
	"io"

	"wishboard/internal/app/board"
	"wishboard/internal/app/plan"
	"wishboard/internal/client"
	"wishboard/internal/config"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// ErrReported means the failure was already shown to the person and the
// process should only exit non-zero.
var ErrReported = errors.New("already reported")

const (
	msgSaved      = "Plan guardado."
	msgDeleted    = "Plan eliminado."
	msgBlankTitle = "El título es obligatorio."
)

type runner struct {
	cfg    config.Config
	logger *zap.Logger
	prompt *terminalPrompter
	out    io.Writer
}

// NewApp builds the wishboard command line. Reads and confirmations come
// from in; everything else goes to out.
func NewApp(cfg config.Config, logger *zap.Logger, in io.Reader, out io.Writer) *cli.App {
	r := &runner{
		cfg:    cfg,
		logger: logger,
		prompt: newTerminalPrompter(in, out),
		out:    out,
	}

	filterFlags := []cli.Flag{
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "case-insensitive text filter"},
		&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Value: string(plan.FilterAll), Usage: "all, wishlist, planned or done"},
	}

	return &cli.App{
		Name:      "wishboard",
		Usage:     "shared wishlist of plans",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: cfg.APIURL, Usage: "base URL of the board API"},
			&cli.StringFlag{Name: "board", Aliases: []string{"b"}, Value: cfg.Board.Slug, Usage: "board slug"},
		},
		Commands: []*cli.Command{
			{
				Name:   "board",
				Usage:  "show board settings and counts",
				Action: r.board,
			},
			{
				Name:   "list",
				Usage:  "list plans, newest first",
				Flags:  filterFlags,
				Action: r.list,
			},
			{
				Name:   "add",
				Usage:  "create a plan",
				Flags:  formFlags(),
				Action: r.add,
			},
			{
				Name:      "edit",
				Usage:     "edit a plan; only the given flags change",
				ArgsUsage: "<id>",
				Flags:     formFlags(),
				Action:    r.edit,
			},
			{
				Name:      "rm",
				Usage:     "delete a plan",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation"},
				},
				Action: r.remove,
			},
			{
				Name:      "status",
				Usage:     "change only the status of a plan",
				ArgsUsage: "<id> <wishlist|planned|done>",
				Action:    r.status,
			},
			{
				Name:   "watch",
				Usage:  "show the board and re-render on every change",
				Flags:  filterFlags,
				Action: r.watch,
			},
		},
	}
}

func formFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
		&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "e.g. Viaje, Concierto, Casa rural, Restaurante, Experiencia, Hobby, Otro"},
		&cli.StringFlag{Name: "location", Aliases: []string{"l"}},
		&cli.StringFlag{Name: "cost", Usage: "estimated cost; anything that is not a number is dropped"},
		&cli.StringFlag{Name: "when", Aliases: []string{"w"}, Usage: "free text, e.g. \"Agosto\""},
		&cli.IntFlag{Name: "priority", Aliases: []string{"p"}, Usage: "1 to 3"},
		&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "wishlist, planned or done"},
	}
}

func (r *runner) api(c *cli.Context) *client.Client {
	return client.New(c.String("api"), client.WithLogger(r.logger))
}

func (r *runner) slug(c *cli.Context) string {
	return c.String("board")
}

// settings falls back to the local configuration when the server cannot
// be asked.
func (r *runner) settings(c *cli.Context, api *client.Client) *board.Settings {
	settings, err := api.Board(c.Context)
	if err != nil {
		r.logger.Sugar().Debugw("Using local board settings", "error", err)
		local := r.cfg.Board
		return &local
	}
	return settings
}

func (r *runner) board(c *cli.Context) error {
	api := r.api(c)
	settings := r.settings(c, api)

	summary, err := api.Summary(c.Context, r.slug(c))
	if err != nil {
		r.logger.Sugar().Warnw("Failed to summarize board", "board", r.slug(c), "error", err)
		summary = &board.Summary{Slug: r.slug(c)}
	}

	fmt.Fprintln(r.out, RenderHeader(settings))
	fmt.Fprintf(r.out, "Tablero: %s\n", summary.Slug)
	if settings.BGImage != "" {
		fmt.Fprintf(r.out, "Fondo: %s (%s, %.2f)\n", settings.BGImage, settings.BGPosition, settings.BGOverlay)
	}
	fmt.Fprintln(r.out, RenderPills(summary.Counts, plan.FilterAll))
	return nil
}

func (r *runner) list(c *cli.Context) error {
	status, err := plan.ParseStatusFilter(c.String("status"))
	if err != nil {
		return err
	}
	api := r.api(c)
	settings := r.settings(c, api)

	// a failed read is logged by the session and shows as an empty board
	session := client.NewSession(api, r.slug(c), r.logger)
	_, _ = session.Refresh(c.Context)

	fmt.Fprint(r.out, RenderView(settings, session.View(c.String("query"), status), status))
	return nil
}

func (r *runner) add(c *cli.Context) error {
	form := client.NewForm()
	if err := applyFormFlags(c, form); err != nil {
		return err
	}
	return r.save(c, form)
}

func (r *runner) edit(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("missing plan id")
	}
	api := r.api(c)
	current, err := api.Get(c.Context, id)
	if err != nil {
		r.logger.Sugar().Warnw("Failed to load plan", "plan_id", id, "error", err)
		r.prompt.Alert(client.MsgUpdateFailed)
		return ErrReported
	}

	form := client.EditForm(current)
	if err := applyFormFlags(c, form); err != nil {
		return err
	}
	return r.save(c, form)
}

func (r *runner) save(c *cli.Context, form *client.Form) error {
	actions := client.NewActions(r.api(c), r.slug(c), nil, r.prompt, r.logger)
	err := actions.Save(c.Context, form)
	switch {
	case errors.Is(err, client.ErrBlankTitle):
		r.prompt.Alert(msgBlankTitle)
		return ErrReported
	case err != nil:
		return ErrReported
	}
	fmt.Fprintln(r.out, msgSaved)
	return nil
}

func (r *runner) remove(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("missing plan id")
	}

	var prompt client.Prompter = r.prompt
	if c.Bool("yes") {
		prompt = yesPrompter{r.prompt}
	}
	actions := client.NewActions(r.api(c), r.slug(c), nil, prompt, r.logger)

	removed, err := actions.Remove(c.Context, id)
	if err != nil {
		return ErrReported
	}
	if removed {
		fmt.Fprintln(r.out, msgDeleted)
	}
	return nil
}

func (r *runner) status(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("usage: status <id> <wishlist|planned|done>")
	}
	status, err := plan.ParseStatus(c.Args().Get(1))
	if err != nil {
		return err
	}

	actions := client.NewActions(r.api(c), r.slug(c), nil, r.prompt, r.logger)
	if err := actions.SetStatus(c.Context, c.Args().First(), status); err != nil {
		return ErrReported
	}
	fmt.Fprintf(r.out, "Estado: %s\n", status.Label())
	return nil
}

func (r *runner) watch(c *cli.Context) error {
	status, err := plan.ParseStatusFilter(c.String("status"))
	if err != nil {
		return err
	}
	query := c.String("query")
	api := r.api(c)
	settings := r.settings(c, api)

	session := client.NewSession(api, r.slug(c), r.logger, client.OnChange(func(snap client.Snapshot) {
		view := plan.Derive(snap.Plans, query, status)
		fmt.Fprint(r.out, "\033[H\033[2J", RenderView(settings, view, status))
	}))

	cfg := r.cfg
	cfg.APIURL = c.String("api")
	sub, err := client.Subscribe(c.Context, cfg.WebSocketURL(), r.logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	_, _ = session.Refresh(c.Context)
	session.Watch(c.Context, sub.C)

	if c.Context.Err() != nil {
		return nil
	}
	return errors.New("change feed closed")
}

func applyFormFlags(c *cli.Context, form *client.Form) error {
	var status plan.Status
	if c.IsSet("status") {
		st, err := plan.ParseStatus(c.String("status"))
		if err != nil {
			return err
		}
		status = st
	}

	form.Set(func(v *client.Values) {
		if c.IsSet("title") {
			v.Title = c.String("title")
		}
		if c.IsSet("description") {
			v.Description = c.String("description")
		}
		if c.IsSet("category") {
			v.Category = c.String("category")
		}
		if c.IsSet("location") {
			v.Location = c.String("location")
		}
		if c.IsSet("cost") {
			v.EstCost = c.String("cost")
		}
		if c.IsSet("when") {
			v.WhenText = c.String("when")
		}
		if c.IsSet("priority") {
			v.Priority = c.Int("priority")
		}
		if status != "" {
			v.Status = status
		}
	})
	return nil
}
