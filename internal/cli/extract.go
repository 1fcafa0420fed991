package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/kmeans"
	"github.com/jmylchreest/swatch/internal/seed"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

const previewWidth = 8

func newExtractCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "extract <image|directory|url>",
		Short: "Extract a colour palette from an image",
		Long: `Extract a colour palette from an image using k-means clustering.

The image is scaled down (half size by default), every remaining pixel
becomes one RGB sample, and the samples are clustered into the requested
number of colours. Alpha is ignored. A directory picks one of its images at
random; HTTP(S) URLs are downloaded.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF, optionally
compressed with gzip, bzip2 or xz.

Every flag can also be set through a SWATCH_* environment variable
(SWATCH_COLOURS, SWATCH_SCALE, SWATCH_SEED_MODE, ...); flags win.

Examples:
  # Extract 5 colours (default) from an image
  swatch extract wallpaper.jpg

  # Extract 8 colours as JSON with cluster sizes
  swatch extract -c 8 -f json wallpaper.png

  # Reproducible run with a fixed seed
  swatch extract --seed 42 wallpaper.png

  # Sample every pixel and seed with k-means++
  swatch extract --scale 1 --init kmeans++ wallpaper.png

  # Show swatches even when piping
  swatch extract --preview always -f table wallpaper.jpg | less -R`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, &cfg, args[0])
		},
	}

	config.RegisterFlags(cmd.Flags(), &cfg)
	return cmd
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, cfg *config.Config, path string) error {
	flags := cmd.Flags()
	if err := config.ApplyEnv(flags, os.LookupEnv); err != nil {
		return err
	}
	if flags.Changed("seed") && !flags.Changed("seed-mode") {
		cfg.SeedMode = string(seed.ModeManual)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cmd)

	imagePath, err := image.ResolveImagePath(path)
	if err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	if imagePath != path {
		logger.Info("selected image from directory", "path", imagePath)
	}
	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	loader := image.NewSmartLoader().AllowPrivateHosts(cfg.AllowPrivate)
	if cfg.Cache {
		loader.WithCache(imagecache.CacheOptions{
			Dir:     cfg.CacheDir,
			MaxAge:  cfg.CacheMaxAge,
			Refresh: cfg.RefreshCache,
		})
	}

	logger.Debug("loading image", "path", imagePath)
	img, err := loader.Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	seedValue, err := seed.Resolve(img, imagePath, cfg.SeedConfig())
	if err != nil {
		return fmt.Errorf("failed to calculate seed: %w", err)
	}
	if seedValue != nil {
		logger.Debug("seeding k-means", "mode", cfg.SeedMode, "seed", *seedValue)
	} else {
		logger.Debug("seeding k-means", "mode", cfg.SeedMode)
	}

	init, err := kmeans.ParseInit(cfg.Init)
	if err != nil {
		return err
	}

	extractor, err := colour.NewExtractor(colour.Algorithm(cfg.Algorithm), colour.ExtractorOptions{
		Seed:          seedValue,
		MaxIterations: cfg.MaxIterations,
		Init:          init,
		Workers:       cfg.Workers,
		Scale:         cfg.Scale,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	palette, err := extractor.Extract(img, cfg.Colours)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}

	if empty := emptyClusters(palette); empty > 0 {
		logger.Warn("some clusters ended with no pixels and are reported as black", "empty", empty, "colours", palette.Len())
	}

	output, err := formatPalette(palette, cfg.Format, previewEnabled(cfg.Preview, cfg.Output, cmd.OutOrStdout()))
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if cfg.Output == "" {
		return writeString(cmd.OutOrStdout(), output)
	}

	if err := os.WriteFile(cfg.Output, []byte(output), 0o644); err != nil { // #nosec G306 - palette files are not sensitive
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Debug("wrote palette", "path", cfg.Output)
	return nil
}

func emptyClusters(p *colour.Palette) int {
	n := 0
	for _, c := range p.Counts {
		if c == 0 {
			n++
		}
	}
	return n
}

// previewEnabled resolves the preview mode. "auto" shows swatches only
// when writing to a colour-capable terminal.
func previewEnabled(mode, outputFile string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if outputFile != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && colour.SupportsANSIColours(f)
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "hex":
		return formatHex(palette, showPreview), nil
	case "rgb":
		return formatRGB(palette, showPreview), nil
	case "table":
		return formatTable(palette, showPreview), nil
	case "json":
		jsonBytes, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(config.ValidFormats(), ", "))
	}
}

// formatHex formats the palette as hex colour codes.
func formatHex(palette *colour.Palette, showPreview bool) string {
	var b strings.Builder
	if !showPreview {
		for _, hex := range palette.ToHex() {
			b.WriteString(hex)
			b.WriteByte('\n')
		}
		return b.String()
	}
	for _, c := range palette.Colors {
		b.WriteString(colour.FormatColourWithPreview(c, previewWidth))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatRGB formats the palette as RGB values.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	var b strings.Builder
	for _, c := range palette.Colors {
		if showPreview {
			b.WriteString(colour.ColourPreview(c, previewWidth))
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// formatTable lists each colour with its cluster size and share.
func formatTable(palette *colour.Palette, showPreview bool) string {
	headers := []string{"#", "HEX", "RGB", "PIXELS", "SHARE"}
	if showPreview {
		headers = append([]string{"SWATCH"}, headers...)
	}

	t := NewTable(headers)
	for i, c := range palette.Colors {
		pixels, share := "-", "-"
		if i < len(palette.Counts) {
			pixels = strconv.Itoa(palette.Counts[i])
		}
		if i < len(palette.Weights) {
			share = strconv.FormatFloat(palette.Weights[i]*100, 'f', 1, 64) + "%"
		}

		row := []string{strconv.Itoa(i + 1), c.Hex(), c.String(), pixels, share}
		if showPreview {
			row = append([]string{colour.ColourPreviewWithText(c, c.Hex(), previewWidth)}, row...)
		}
		t.AddRow(row)
	}
	return t.Render()
}
