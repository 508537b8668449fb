package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"coffeerange/internal/interaction/httpapi"
	"coffeerange/internal/interaction/kafka"
	"coffeerange/internal/interaction/telegram"
	"coffeerange/internal/scheduler"
	"coffeerange/internal/usecases"
	"coffeerange/locales"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the Telegram bot, the Kafka consumer and the scheduled jobs",
	Run: func(cmd *cobra.Command, _ []string) {
		log := logger.With("package", "cmd")
		ctx := cmd.Context()
		loc := cnf.Timezone.Location()

		var (
			pricePublisher    usecases.PricePublisher
			snapshotPublisher usecases.SnapshotPublisher
		)
		if cnf.Kafka.Enabled() {
			producer := kafka.NewProducer(logger, cnf.Kafka.Brokers, cnf.Kafka.PricesTopic, cnf.Kafka.RangesTopic)
			defer func() { _ = producer.Close() }()
			pricePublisher, snapshotPublisher = producer, producer
		}

		a := mustNewApp(ctx, pricePublisher, snapshotPublisher)
		defer a.close()

		g, ctx := errgroup.WithContext(ctx)

		// HTTP API
		handler := httpapi.NewHandler(logger, a.query, a.record, a.bands, loc).
			WithHealthCheck("postgres", a.postgres)
		if a.redis != nil {
			handler.WithHealthCheck("redis", a.redis)
		}
		server := httpapi.NewServer(cnf.HTTP.Addr, httpapi.SetupRoutes(logger, handler))
		g.Go(func() error {
			log.Info("starting http server", "addr", cnf.HTTP.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		// Telegram bot
		if cnf.Telegram.Token != "" {
			bundle, err := locales.GetBundle(".")
			cobra.CheckErr(err)

			bot := telegram.NewInteraction(logger, cnf.Telegram.Token, &http.Client{Timeout: time.Minute}, bundle, a.query, loc)
			g.Go(func() error {
				log.Info("starting telegram bot")
				bot.Start(ctx)
				return nil
			})
		}

		// Kafka consumer
		if cnf.Kafka.Enabled() {
			consumer := kafka.NewConsumer(logger, cnf.Kafka.Brokers, cnf.Kafka.SubmissionTopic, cnf.Kafka.GroupID, a.record)
			g.Go(func() error { return consumer.Start(ctx) })
		}

		// Scheduled jobs
		sched := scheduler.New(logger, loc)
		if a.imports != nil {
			sched.Add("import_closing_prices", cnf.ECX.ImportCron, a.imports.ImportToday)
		}
		sched.Add("publish_ranges", cnf.Engine.SnapshotCron, a.publish.PublishToday)
		g.Go(func() error { return sched.Start(ctx) })

		if err := g.Wait(); err != nil {
			log.Error("service stopped", "error", err)
		}
	},
}
