package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var imagineCmd = &cobra.Command{
	Use:   "imagine <prompt>",
	Short: "Generate an image from a text prompt",
	Long:  "Generate an image from a text prompt. Writes the decoded image to --out, or prints the data URL when no output path is given. Produces nothing (and exits 0) when the model returns no image.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImagine,
}

var (
	imagineAPIKey string
	imagineOut    string
)

func init() {
	imagineCmd.Flags().StringVar(&imagineAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	imagineCmd.Flags().StringVarP(&imagineOut, "out", "o", "", "Path to write the image file")

	rootCmd.AddCommand(imagineCmd)
}

// splitDataURL separates a data URL into its MIME type and raw bytes.
func splitDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	mimeType, _ := strings.CutSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return mimeType, data, nil
}

func runImagine(_ *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	ctx := context.Background()
	gw, client, err := newGateway(ctx, imagineAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	url, err := gw.GenerateImage(ctx, prompt)
	if err != nil {
		return fmt.Errorf("image generation failed: %w", err)
	}
	if url == "" {
		fmt.Fprintln(os.Stderr, "The model returned no image.")
		return nil
	}

	if imagineOut == "" {
		fmt.Println(url)
		return nil
	}

	mimeType, data, err := splitDataURL(url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(imagineOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	fmt.Printf("Wrote %d bytes (%s) to %s\n", len(data), mimeType, imagineOut)
	return nil
}
