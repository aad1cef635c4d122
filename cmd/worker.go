package cmd

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"vidya/src/infrastructure/integrations/gemini"
	"vidya/src/infrastructure/job"
	"vidya/src/jobctrl"
	"vidya/src/storage/elastic"
	"vidya/src/storage/weaviate"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background job worker",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	settingDefaultConfig()
}

func runWorker(cmd *cobra.Command, args []string) error {
	// Initialize logger
	logger := watermill.NewStdLogger(false, false)

	// Initialize PostgreSQL connection
	host := viper.GetString("postgres.host")
	user := viper.GetString("postgres.user")
	password := viper.GetString("postgres.password")
	dbname := viper.GetString("postgres.db")
	port := viper.GetString("postgres.port")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Get underlying *sql.DB for cleanup
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %v", err)
	}
	defer sqlDB.Close()

	// Initialize AMQP publisher
	amqpPublisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return err
	}
	defer amqpPublisher.Close()

	// Initialize AMQP subscriber
	subscriberConfig := amqp.NewDurableQueueConfig(viper.GetString("amqp.url"))
	subscriberConfig.Consume.NoRequeueOnNack = true
	amqpSubscriber, err := amqp.NewSubscriber(
		subscriberConfig,
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return err
	}
	defer amqpSubscriber.Close()

	// Initialize router
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return err
	}

	// Add middleware
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: time.Second,
			Logger:          logger,
		}.Middleware,
	)

	ctx := context.Background()

	// Initialize Gemini client for re-embedding persisted answers
	geminiClient, err := gemini.NewClient(ctx,
		viper.GetString("gemini.api_key"),
		viper.GetString("gemini.model"),
		viper.GetString("gemini.embedding_model"))
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %v", err)
	}

	// Initialize Weaviate answer cache namespace
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	wsdk := weaviate.NewSDK(wc)
	answerCache := weaviate.NewAnswerCacheIndex(wsdk)
	if err := answerCache.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure answer cache schema: %v", err)
	}

	// Initialize Elasticsearch web-content store
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{viper.GetString("elastic.url")},
	})
	if err != nil {
		return fmt.Errorf("failed to create elasticsearch client: %v", err)
	}
	webContent := elastic.NewWebContentStore(es, viper.GetString("elastic.index"))

	// Initialize job repository and service
	jobRepo, err := job.NewPostgresJobRepository(db)
	if err != nil {
		return fmt.Errorf("failed to initialize job repository: %v", err)
	}
	jobService := job.NewJobService(amqpPublisher, jobRepo, logger)

	// Register task handlers
	answerTask := jobctrl.NewAnswerPersistTask(geminiClient, answerCache)
	jobService.RegisterHandler(jobctrl.TaskTypeAnswerPersist, answerTask.Handle)

	scrapeTask := jobctrl.NewWebScrapeTask(webContent)
	jobService.RegisterHandler(jobctrl.TaskTypeWebScrape, scrapeTask.Handle)

	// Add handler for processing jobs
	router.AddNoPublisherHandler(
		"job_processor",
		job.Topic,
		amqpSubscriber,
		func(msg *message.Message) error {
			return jobService.ProcessJobMessage(msg)
		},
	)

	// Run the router
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		err := router.Run(runCtx)
		if err != nil {
			stdlog.Fatal(err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	stdlog.Println("Shutting down...")
	cancel()
	<-router.Running()
	stdlog.Println("Router stopped")

	return nil
}
