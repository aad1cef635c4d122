package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vidya/src/infrastructure/job"
	"vidya/src/jobctrl"
)

var (
	scrapeURL     string
	scrapeSubject string
	scrapeTopic   string
	scrapeDomains []string
	scrapeDepth   int
	scrapePages   int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Enqueue a web scrape job for supplementary content",
	RunE:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	settingDefaultConfig()

	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "seed URL to crawl")
	scrapeCmd.Flags().StringVar(&scrapeSubject, "subject", "", "subject the scraped pages belong to")
	scrapeCmd.Flags().StringVar(&scrapeTopic, "topic", "", "topic tag for the scraped pages")
	scrapeCmd.Flags().StringSliceVar(&scrapeDomains, "domains", nil, "domains the crawler may visit")
	scrapeCmd.Flags().IntVar(&scrapeDepth, "depth", 2, "maximum crawl depth")
	scrapeCmd.Flags().IntVar(&scrapePages, "pages", 20, "maximum pages to fetch")
	scrapeCmd.MarkFlagRequired("url")
	scrapeCmd.MarkFlagRequired("subject")
}

func runScrape(cmd *cobra.Command, args []string) error {
	// Initialize logger
	logger := watermill.NewStdLogger(false, false)

	// Initialize PostgreSQL connection
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))
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
	publisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return fmt.Errorf("failed to create publisher: %w", err)
	}
	defer publisher.Close()

	// Initialize job repository and service
	jobRepo, err := job.NewPostgresJobRepository(db)
	if err != nil {
		return fmt.Errorf("failed to initialize job repository: %v", err)
	}
	jobService := job.NewJobService(publisher, jobRepo, logger)

	payload := jobctrl.WebScrapePayload{
		SeedURL:        scrapeURL,
		Subject:        scrapeSubject,
		Topic:          scrapeTopic,
		AllowedDomains: scrapeDomains,
		MaxDepth:       scrapeDepth,
		MaxPages:       scrapePages,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx := context.Background()
	j, err := jobService.EnqueueJob(ctx, jobctrl.TaskTypeWebScrape, payloadBytes)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	fmt.Printf("Successfully enqueued scrape job with ID: %d\n", j.ID)
	return nil
}
