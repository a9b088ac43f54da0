package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focusplan/internal/api"
	"github.com/julianstephens/focusplan/internal/cli"
)

type ServeCmd struct {
	Addr    string   `help:"Address to listen on." default:"127.0.0.1:8000"`
	Origins []string `help:"Allowed CORS origins." sep:","`
}

// Router builds the HTTP handler for the current store.
func (c *ServeCmd) Router(ctx *cli.Context) *gin.Engine {
	return api.NewRouter(api.RouterConfig{
		Handler:      api.NewHandler(ctx.Store, ctx.Planner()),
		AllowOrigins: c.Origins,
	})
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	defer ctx.Store.Close()
	gin.SetMode(gin.ReleaseMode)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.Serve(sigCtx, c.Addr, c.Router(ctx))
}
