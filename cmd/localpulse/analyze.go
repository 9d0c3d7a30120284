package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image-file>",
	Short: "Analyze an image with a text prompt",
	Long:  "Send an image plus a question to the vision model and print the answer. Useful for sizing up photos attached to gig postings.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeAPIKey string
	analyzePrompt string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVarP(&analyzePrompt, "prompt", "p", "Describe this image.", "Question to ask about the image")

	rootCmd.AddCommand(analyzeCmd)
}

// detectImageMIME sniffs the content type and rejects non-images.
func detectImageMIME(data []byte) (string, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("file does not look like an image (detected %s)", mimeType)
	}
	return mimeType, nil
}

func runAnalyze(_ *cobra.Command, args []string) error {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}

	mimeType, err := detectImageMIME(image)
	if err != nil {
		return err
	}

	ctx := context.Background()
	gw, client, err := newGateway(ctx, analyzeAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	text, err := gw.AnalyzeImage(ctx, analyzePrompt, image, mimeType)
	if err != nil {
		return fmt.Errorf("image analysis failed: %w", err)
	}

	fmt.Println(text)
	return nil
}
