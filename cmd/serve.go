package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpHdlr "vidya/handler/http"
	"vidya/src/core/account"
	"vidya/src/core/tutor"
	"vidya/src/infrastructure/integrations/gemini"
	"vidya/src/infrastructure/job"
	"vidya/src/infrastructure/log"
	"vidya/src/jobctrl"
	"vidya/src/storage/elastic"
	"vidya/src/storage/mongo/evaluationctrl"
	"vidya/src/storage/mongo/notectrl"
	"vidya/src/storage/mongo/questionsetctrl"
	"vidya/src/storage/mongo/userctrl"
	"vidya/src/storage/weaviate"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutoring API server",
	Long:  `The serve command starts the HTTP server exposing the chat, mcq, notes, auth and admin APIs.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	// Initialize PostgreSQL connection for the job ledger
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error(err, "Failed to connect to postgres")
		return
	}

	// Initialize MongoDB connection for the document store
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("mongo.uri")))
	if err != nil {
		log.Error(err, "Failed to connect to mongodb")
		return
	}
	mongoDB := mongoClient.Database(viper.GetString("mongo.db"))

	// Initialize Weaviate vector store and its namespaces
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	wsdk := weaviate.NewSDK(wc)

	textbookIndex := weaviate.NewTextbookIndex(wsdk)
	if err := textbookIndex.EnsureSchema(ctx); err != nil {
		log.Error(err, "Failed to ensure textbook schema")
		return
	}
	answerCache := weaviate.NewAnswerCacheIndex(wsdk)
	if err := answerCache.EnsureSchema(ctx); err != nil {
		log.Error(err, "Failed to ensure answer cache schema")
		return
	}

	// Initialize Gemini client
	geminiClient, err := gemini.NewClient(ctx,
		viper.GetString("gemini.api_key"),
		viper.GetString("gemini.model"),
		viper.GetString("gemini.embedding_model"))
	if err != nil {
		log.Error(err, "Failed to create gemini client")
		return
	}

	// Initialize Elasticsearch web-content store
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{viper.GetString("elastic.url")},
	})
	if err != nil {
		log.Error(err, "Failed to create elasticsearch client")
		return
	}
	webContent := elastic.NewWebContentStore(es, viper.GetString("elastic.index"))

	// Initialize AMQP publisher and the job service for async answer persistence
	amqpPublisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		log.Error(err, "Failed to create amqp publisher")
		return
	}

	jobRepo, err := job.NewPostgresJobRepository(db)
	if err != nil {
		log.Error(err, "Failed to create job repository")
		return
	}
	jobService := job.NewJobService(amqpPublisher, jobRepo, watermill.NewStdLogger(false, false))
	recorder := jobctrl.NewAnswerRecorder(jobService)

	// Initialize domain services
	askService := tutor.NewService(
		geminiClient,
		geminiClient,
		textbookIndex,
		answerCache,
		webContent,
		recorder,
		loadCatalog(),
		loadPipelineConfig(),
	)
	questionSets := questionsetctrl.NewQuestionSetService(mongoDB)
	mcqService := tutor.NewMCQService(geminiClient, geminiClient, textbookIndex, questionSets, loadCatalog(), loadPipelineConfig())
	evalService := tutor.NewEvaluateService(questionSets, evaluationctrl.NewEvaluationService(mongoDB))
	noteService := notectrl.NewNoteService(mongoDB)
	accountService := account.NewService(userctrl.NewUserService(mongoDB))

	// Initialize HTTP handler
	handler := httpHdlr.NewHandler(askService, mcqService, evalService, noteService, accountService)

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := amqpPublisher.Close(); err != nil {
		log.Error(err, "Error closing amqp publisher")
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, "Error closing mongodb connection")
	}

	// Get underlying *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else {
		if err := sqlDB.Close(); err != nil {
			log.Error(err, "Error closing database connection")
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
