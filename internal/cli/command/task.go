package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskdeck-go/internal/cli/output"
	"github.com/yndnr/taskdeck-go/internal/core/domain"
)

// TaskCommand returns the task subcommand group.
func TaskCommand() *cli.Command {
	idArg := func(name, usage string, action cli.ActionFunc, aliases ...string) *cli.Command {
		return &cli.Command{
			Name:      name,
			Aliases:   aliases,
			Usage:     usage,
			ArgsUsage: "TASK_ID",
			Action:    action,
		}
	}

	update := idArg("update", "Replace a task's fields", taskUpdate, "edit")
	update.Flags = []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
		&cli.StringFlag{Name: "status", Usage: "New status"},
	}

	return &cli.Command{
		Name:    "task",
		Aliases: []string{"tasks"},
		Usage:   "Manage tasks",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your tasks",
				Action:  taskList,
			},
			idArg("get", "Show one task", taskGet),
			{
				Name:    "add",
				Aliases: []string{"create"},
				Usage:   "Create a task",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title", Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Description"},
					&cli.StringFlag{Name: "status", Usage: "Initial status", Value: domain.TaskStatusPending},
				},
				Action: taskAdd,
			},
			update,
			idArg("toggle", "Flip a task between pending and completed", taskToggle),
			idArg("delete", "Delete a task", taskDelete, "rm"),
		},
	}
}

func taskID(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", domain.ErrTaskInvalid.WithDetails("exactly one TASK_ID is required")
	}
	return c.Args().First(), nil
}

func taskList(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)
	if _, err := rt.RequireLogin(ctx); err != nil {
		return err
	}
	client, err := rt.API(ctx)
	if err != nil {
		return err
	}

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		return rt.checkRejected(err)
	}
	if len(tasks) == 0 && rt.format == output.FormatTable {
		rt.Printf("No tasks yet. Add one with: taskdeck task add --title TITLE")
		return nil
	}
	return rt.Print(tasks)
}

func taskGet(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)
	if _, err := rt.RequireLogin(ctx); err != nil {
		return err
	}
	client, err := rt.API(ctx)
	if err != nil {
		return err
	}

	task, err := client.GetTask(ctx, id)
	if err != nil {
		return rt.checkRejected(err)
	}
	return rt.Print(task)
}

func taskAdd(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)
	if _, err := rt.RequireLogin(ctx); err != nil {
		return err
	}
	client, err := rt.API(ctx)
	if err != nil {
		return err
	}

	task, err := client.CreateTask(ctx, domain.TaskInput{
		Title:       c.String("title"),
		Description: c.String("description"),
		Status:      c.String("status"),
	})
	if err != nil {
		return rt.checkRejected(err)
	}
	return rt.Print(task)
}

func taskUpdate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if !c.IsSet("title") && !c.IsSet("description") && !c.IsSet("status") {
		return domain.ErrTaskInvalid.WithDetails("nothing to update; set --title, --description or --status")
	}
	ctx := commandContext(c)
	if _, err := rt.RequireLogin(ctx); err != nil {
		return err
	}
	client, err := rt.API(ctx)
	if err != nil {
		return err
	}

	// PUT replaces the record, so unchanged fields are carried over.
	current, err := client.GetTask(ctx, id)
	if err != nil {
		return rt.checkRejected(err)
	}
	in := current.Input()
	if c.IsSet("title") {
		in.Title = c.String("title")
	}
	if c.IsSet("description") {
		in.Description = c.String("description")
	}
	if c.IsSet("status") {
		in.Status = c.String("status")
	}

	task, err := client.UpdateTask(ctx, id, in)
	if err != nil {
		return rt.checkRejected(err)
	}
	return rt.Print(task)
}

func taskToggle(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)
	if _, err := rt.RequireLogin(ctx); err != nil {
		return err
	}
	client, err := rt.API(ctx)
	if err != nil {
		return err
	}

	task, err := client.ToggleTask(ctx, id)
	if err != nil {
		return rt.checkRejected(err)
	}
	return rt.Print(task)
}

func taskDelete(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)
	if _, err := rt.RequireLogin(ctx); err != nil {
		return err
	}
	client, err := rt.API(ctx)
	if err != nil {
		return err
	}

	if err := client.DeleteTask(ctx, id); err != nil {
		return rt.checkRejected(err)
	}
	rt.Printf("Deleted task %s", id)
	return nil
}
