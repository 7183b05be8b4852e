package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MichalMitros/storefront-importer/cmd/importer/config"
	"github.com/MichalMitros/storefront-importer/internal/importer"
	"github.com/MichalMitros/storefront-importer/internal/platform"
	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	"github.com/MichalMitros/storefront-importer/internal/platform/progress"
	"github.com/MichalMitros/storefront-importer/internal/platform/rabbitmq"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage"
	"github.com/MichalMitros/storefront-importer/internal/quota"
	"github.com/MichalMitros/storefront-importer/internal/scraper"
	"github.com/MichalMitros/storefront-importer/pkg/v1/commander"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// UserAgent is user agent header value used when scraping storefronts.
	UserAgent = "storefront-importer/0.1.0"

	previewTimeout = 30 * time.Second
	previewRPS     = 2
)

// deps are infrastructure clients shared by commands.
type deps struct {
	service *importer.Service
	quota   *quota.Governor
	billing commander.BillingCommander
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch args[0] {
	case "preview":
		err = runPreview(ctx, args[1:], &logger)
	case "import":
		err = withDeps(&logger, func(d *deps) error { return runImport(ctx, d, args[1:]) })
	case "jobs":
		err = withDeps(&logger, func(d *deps) error { return runJobs(ctx, d, args[1:]) })
	case "quota":
		err = withDeps(&logger, func(d *deps) error { return runQuota(ctx, d, args[1:]) })
	case "billing":
		err = withDeps(&logger, func(d *deps) error { return runBilling(ctx, d, args[1:]) })
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Fatal().
			Err(err).
			Str("command", args[0]).
			Str("userMessage", platform.UserMessage(err)).
			Msg("command failed")
	}
}

func newScraper(timeout time.Duration, rps float64, logger *zerolog.Logger) *scraper.Scraper {
	return scraper.NewScraper(
		&http.Client{Timeout: timeout},
		UserAgent,
		scraper.WithRateLimit(rps),
		scraper.WithLogger(logger),
	)
}

func runPreview(ctx context.Context, args []string, logger *zerolog.Logger) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("storefront url required, usage: importctl preview <url>")
	}

	products, err := newScraper(previewTimeout, previewRPS, logger).Preview(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	return printJSON(products)
}

func runImport(ctx context.Context, d *deps, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	shop := fs.String("shop", "", "destination shop domain")
	token := fs.String("token", os.Getenv("SHOP_ACCESS_TOKEN"), "destination shop access token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("storefront url required, usage: importctl import -shop <shop> <url>")
	}

	products, err := d.service.Preview(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	result, err := d.service.StartImport(ctx, importer.StartImportRequest{
		Shop:        *shop,
		AccessToken: *token,
		Products:    products,
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}

func runJobs(ctx context.Context, d *deps, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ExitOnError)
	shop := fs.String("shop", "", "shop domain")
	limit := fs.Int("limit", importer.MaxListedJobs, "maximal number of listed jobs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	jobs, err := d.service.ListJobs(ctx, *shop, *limit)
	if err != nil {
		return err
	}

	return printJSON(jobs)
}

func runQuota(ctx context.Context, d *deps, args []string) error {
	fs := flag.NewFlagSet("quota", flag.ExitOnError)
	shop := fs.String("shop", "", "shop domain")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q, err := d.quota.Remaining(ctx, *shop)
	if err != nil {
		return err
	}

	return printJSON(q)
}

func runBilling(ctx context.Context, d *deps, args []string) error {
	fs := flag.NewFlagSet("billing", flag.ExitOnError)
	shop := fs.String("shop", "", "shop domain")
	plan := fs.String("plan", "", "plan set by plan.set command")
	name := fs.String("name", "", "subscription name of subscription.update command")
	price := fs.String("price", "", "subscription price of subscription.update command")
	status := fs.String("status", "", "subscription status of subscription.update command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("command type required, usage: importctl billing -shop <shop> <type>")
	}

	return d.billing.SendBillingCommand(ctx, commander.BillingCommand{
		Type:   commander.BillingCommandType(fs.Arg(0)),
		Shop:   *shop,
		Plan:   models.Plan(*plan),
		Name:   *name,
		Price:  *price,
		Status: *status,
	})
}

func withDeps(logger *zerolog.Logger, run func(d *deps) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("can't open Postgres connection: %w", err)
	}
	defer pgDB.Close()

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return fmt.Errorf("can't open RabbitMQ connection: %w", err)
	}
	defer amqpConnection.Close()

	mq, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		return fmt.Errorf("can't open RabbitMQ channel: %w", err)
	}
	for _, queue := range []string{cfg.RabbitMQ.ImportQueue, cfg.RabbitMQ.BillingQueue} {
		if err := mq.DeclareQueue(queue, queue); err != nil {
			return fmt.Errorf("can't declare queue: %w", err)
		}
	}

	redisOptions, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("can't parse Redis URL: %w", err)
	}
	redisClient := redis.NewClient(redisOptions)
	defer redisClient.Close()

	db := storage.NewPostgres(pgDB)
	governor := quota.NewGovernor(db, quota.WithLogger(logger))

	return run(&deps{
		service: importer.NewService(
			newScraper(cfg.HTTPTimeout, cfg.ScraperRPS, logger),
			governor,
			db,
			commander.NewImportCommander(commander.NewRabbitMQSender(mq, cfg.RabbitMQ.ImportQueue)),
			logger,
			importer.WithProgress(progress.NewRedis(redisClient, progress.DefaultTTL)),
		),
		quota:   governor,
		billing: commander.NewBillingCommander(commander.NewRabbitMQSender(mq, cfg.RabbitMQ.BillingQueue)),
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: importctl <command> [flags] [args]")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  preview <url>                         print products scraped from storefront")
	fmt.Fprintln(os.Stderr, "  import -shop <shop> [-token] <url>    queue import of storefront products")
	fmt.Fprintln(os.Stderr, "  jobs -shop <shop> [-limit]            list shop's newest import jobs")
	fmt.Fprintln(os.Stderr, "  quota -shop <shop>                    print shop's import quota")
	fmt.Fprintln(os.Stderr, "  billing -shop <shop> [flags] <type>   send billing command, type is one of")
	fmt.Fprintln(os.Stderr, "                                        plan.set, subscription.update, plan.expire, shop.redact")
}
