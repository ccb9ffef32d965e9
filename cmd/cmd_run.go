package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/core"
	"github.com/gaze-network/alkanes-indexer/internal/config"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes"
	"github.com/gaze-network/alkanes-indexer/pkg/automaxprocs"
	"github.com/gaze-network/alkanes-indexer/pkg/errorhandler"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gaze-network/alkanes-indexer/pkg/middleware/requestcontext"
	"github.com/gaze-network/alkanes-indexer/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Register Modules
var Modules = do.Package(
	do.LazyNamed(common.ModuleAlkanes.String(), alkanes.New),
)

func NewRunCommand() *cobra.Command {
	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start alkanes-indexer service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Bool("api-only", false, "Run only API server")
	flags.String("modules", "", "Enable specific modules to run. E.g. `alkanes`")
	flags.Int("port", 8080, "Port of the HTTP server")

	// Bind flags to configuration
	config.BindPFlag("api_only", flags.Lookup("api-only"))
	config.BindPFlag("enable_modules", flags.Lookup("modules"))
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	{
		if !conf.Network.IsSupported() {
			return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
		}
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		return newHTTPServer(do.MustInvoke[config.Config](i))
	})

	// Initialize worker context to separate worker's lifecycle from main process
	ctxWorker, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// Add logger context
	ctxWorker = logger.WithContext(ctxWorker, slogx.Stringer("network", conf.Network))

	group, groupCtx := errgroup.WithContext(ctxWorker)

	// Run modules
	{
		modules := lo.Map(conf.EnableModules, func(item string, _ int) string { return strings.TrimSpace(item) })
		modules = lo.Uniq(lo.Filter(modules, func(item string, _ int) bool { return item != "" }))
		for _, name := range modules {
			ctx := logger.WithContext(groupCtx, slogx.String("module", name))

			module, err := do.InvokeNamed[core.Module](injector, name)
			if err != nil {
				if errors.Is(err, do.ErrServiceNotFound) {
					return errors.Wrapf(errs.Unsupported, "module %q is not supported", name)
				}
				return errors.Wrapf(err, "can't init module %q", name)
			}

			if conf.APIOnly {
				continue
			}
			group.Go(func() error {
				// stop main process if module stopped
				defer stop()

				logger.InfoContext(ctx, "Starting module")
				return errors.Wrapf(module.Run(ctx), "module %q stopped", name)
			})
		}
	}

	// Run API server
	httpServer, err := do.Invoke[*fiber.App](injector)
	if err != nil {
		return errors.Wrap(err, "can't init HTTP server")
	}
	group.Go(func() error {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		return errors.Wrap(httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)), "HTTP server stopped")
	})

	logger.InfoContext(ctxWorker, "Alkanes indexer started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	logger.InfoContext(ctxWorker, "Stopping alkanes indexer...")
	if err := httpServer.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.ErrorContext(ctxWorker, "Failed to shutdown HTTP server", err)
	}
	stopWorker()
	if err := group.Wait(); err != nil {
		logger.ErrorContext(ctxWorker, "Something went wrong, error during running alkanes indexer", err)
	}

	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}

func newHTTPServer(conf config.Config) (*fiber.App, error) {
	withClientIP, err := requestcontext.WithClientIP(conf.HTTPServer.RequestIP)
	if err != nil {
		return nil, errors.Wrap(err, "invalid request IP configuration")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Alkanes Indexer",
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})
	app.
		Use(favicon.New()).
		Use(cors.New()).
		Use(requestid.New()).
		Use(requestcontext.New(
			requestcontext.WithRequestId(),
			withClientIP,
		)).
		Use(requestlogger.New(conf.HTTPServer.Logger)).
		Use(fiberrecover.New(fiberrecover.Config{
			EnableStackTrace: true,
			StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
				buf := make([]byte, 1024) // bufLen = 1024
				buf = buf[:runtime.Stack(buf, false)]
				logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Newf("panic: %v", e), slog.String("stacktrace", string(buf)))
			},
		})).
		Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))

	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return errors.WithStack(c.SendStatus(http.StatusOK))
	})

	return app, nil
}
