package system

import (
	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/tui"
)

type AgendaCmd struct {
	Days int `short:"n" help:"Number of days to show." default:"7"`
}

func (c *AgendaCmd) Run(ctx *cli.Context) error {
	defer ctx.Store.Close()
	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	return tui.Run(ctx.Store, loc, c.Days)
}
