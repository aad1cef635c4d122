package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"vidya/src/core/ingest"
	"vidya/src/infrastructure/integrations/gemini"
	"vidya/src/infrastructure/integrations/unstructured"
	"vidya/src/storage/minioctrl"
	"vidya/src/storage/weaviate"
)

var (
	ingestFile    string
	ingestSubject string
	ingestClass   int
	ingestChapter int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a textbook chapter into the retrieval index",
	Long: `The ingest command splits a chapter file into chunks, embeds each chunk
and upserts it into the textbook namespace. The raw file is kept in MinIO.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	settingDefaultConfig()

	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "path to the chapter text file")
	ingestCmd.Flags().StringVar(&ingestSubject, "subject", "", "subject the chapter belongs to")
	ingestCmd.Flags().IntVar(&ingestClass, "class", 0, "class level of the chapter")
	ingestCmd.Flags().IntVar(&ingestChapter, "chapter", 0, "chapter number")
	ingestCmd.MarkFlagRequired("file")
	ingestCmd.MarkFlagRequired("subject")
	ingestCmd.MarkFlagRequired("class")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	content, err := os.ReadFile(ingestFile)
	if err != nil {
		return fmt.Errorf("failed to read chapter file: %v", err)
	}

	// PDFs go through the partition service first; plain text is ingested
	// as-is.
	if strings.EqualFold(filepath.Ext(ingestFile), ".pdf") {
		text, err := unstructured.NewClient(viper.GetString("unstructured.url")).
			ExtractText(ctx, filepath.Base(ingestFile), content)
		if err != nil {
			return fmt.Errorf("failed to extract pdf text: %v", err)
		}
		content = []byte(text)
	}

	// Initialize MinioService
	minioService, err := minioctrl.NewMinioService(
		viper.GetString("minio.endpoint"),
		viper.GetString("minio.access_key"),
		viper.GetString("minio.secret_key"),
		viper.GetBool("minio.use_ssl"),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize minio service: %v", err)
	}

	// Initialize Gemini client
	geminiClient, err := gemini.NewClient(ctx,
		viper.GetString("gemini.api_key"),
		viper.GetString("gemini.model"),
		viper.GetString("gemini.embedding_model"))
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %v", err)
	}

	// Initialize Weaviate textbook namespace
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	textbookIndex := weaviate.NewTextbookIndex(weaviate.NewSDK(wc))
	if err := textbookIndex.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure textbook schema: %v", err)
	}

	service, err := ingest.NewService(
		geminiClient,
		textbookIndex,
		minioService,
		viper.GetInt("ingest.chunk_size"),
		viper.GetInt("ingest.chunk_overlap"),
	)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	result, err := service.Ingest(ctx, ingest.Request{
		FileName:   filepath.Base(ingestFile),
		Content:    content,
		Subject:    ingestSubject,
		ClassLevel: ingestClass,
		Chapter:    ingestChapter,
	}, func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "embedding chunks")
		}
		bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("failed to ingest chapter: %v", err)
	}

	fmt.Printf("Ingested %d chunks from %s\n", result.Chunks, result.ObjectName)
	return nil
}
