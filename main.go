// bmprle reads, edits and writes indexed (1 to 8 bit) bitmaps with RLE8 compression
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/anas-shakeel/bmprle/internal/adjustments"
	"github.com/anas-shakeel/bmprle/internal/bmp"
	"github.com/anas-shakeel/bmprle/internal/config"
	"github.com/anas-shakeel/bmprle/internal/filters"
	"github.com/anas-shakeel/bmprle/internal/render"
	"github.com/anas-shakeel/bmprle/internal/server"
	"github.com/anas-shakeel/bmprle/internal/utils"
)

func usage() {
	fmt.Println("Usage: bmprle [-config file] <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  info in.bmp                          (print header and palette info)")
	fmt.Println("  show in.bmp                          (print the bitmap in the terminal)")
	fmt.Println("  invert in.bmp out.bmp                (invert brightness)")
	fmt.Println("  fill in.bmp out.bmp x1 y1 x2 y2 [v]  (fill a rectangle with palette index v)")
	fmt.Println("  crop in.bmp out.bmp x y w h          (crop a region)")
	fmt.Println("  grayscale in.bmp out.bmp [luma]      (convert the palette to gray)")
	fmt.Println("  brightness in.bmp out.bmp f add|multiply  (adjust palette brightness)")
	fmt.Println("  contrast in.bmp out.bmp f            (adjust palette contrast)")
	fmt.Println("  png in.bmp out.png                   (render to PNG)")
	fmt.Println("  export in.bmp out.bmp                (write an uncompressed copy)")
	fmt.Println("  import in.png|in.bmp out.bmp         (convert an image to an RLE8 bitmap)")
	fmt.Println("  serve                                (edit a bitmap over HTTP)")
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to TOML config file")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] loading %s: %v", *configPath, err)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	if err := run(cfg, args[0], args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config, command string, args []string) error {
	switch command {
	case "info":
		if len(args) != 1 {
			return usageError()
		}
		bitmap, err := bmp.ReadBitmap(args[0])
		if err != nil {
			return err
		}
		bitmap.PrintMetadata()

	case "show":
		if len(args) != 1 {
			return usageError()
		}
		bitmap, err := bmp.ReadBitmap(args[0])
		if err != nil {
			return err
		}
		bitmap.PrintBitmap()

	case "invert":
		if len(args) != 2 {
			return usageError()
		}
		return edit(args[0], args[1], func(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
			filters.Invert(b)
			return b, nil
		})

	case "fill":
		if len(args) != 6 && len(args) != 7 {
			return usageError()
		}
		coords, err := atoi(args[2:6]...)
		if err != nil {
			return err
		}
		value := cfg.Edit.FillValue
		if len(args) == 7 {
			v, err := strconv.ParseUint(args[6], 10, 8)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[6], err)
			}
			value = uint8(v)
		}
		return edit(args[0], args[1], func(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
			adjustments.FillRect(b, coords[0], coords[1], coords[2], coords[3], value)
			return b, nil
		})

	case "crop":
		if len(args) != 6 {
			return usageError()
		}
		region, err := atoi(args[2:6]...)
		if err != nil {
			return err
		}
		return edit(args[0], args[1], func(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
			return adjustments.Crop(b, region[0], region[1], region[2], region[3])
		})

	case "grayscale":
		if len(args) != 2 && (len(args) != 3 || args[2] != "luma") {
			return usageError()
		}
		return edit(args[0], args[1], func(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
			if len(args) == 3 {
				filters.GrayscaleLuma(b)
			} else {
				filters.Grayscale(b)
			}
			return b, nil
		})

	case "brightness":
		if len(args) != 4 {
			return usageError()
		}
		factor, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid factor %q: %w", args[2], err)
		}
		return edit(args[0], args[1], func(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
			return b, filters.Brightness(b, factor, args[3])
		})

	case "contrast":
		if len(args) != 3 {
			return usageError()
		}
		factor, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid factor %q: %w", args[2], err)
		}
		return edit(args[0], args[1], func(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
			filters.Contrast(b, factor)
			return b, nil
		})

	case "png", "export":
		if len(args) != 2 {
			return usageError()
		}
		bitmap, err := bmp.ReadBitmap(args[0])
		if err != nil {
			return err
		}
		out, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer out.Close()

		if command == "png" {
			err = render.WritePNG(out, bitmap)
		} else {
			err = render.ExportBMP(out, bitmap)
		}
		if err != nil {
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		log.Printf("[INFO] Wrote %s", args[1])

	case "import":
		if len(args) != 2 {
			return usageError()
		}
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		bitmap, err := render.Import(in)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		return save(bitmap, args[1])

	case "serve":
		var bitmap *bmp.BitmapImage
		if cfg.Server.Image != "" {
			b, err := bmp.ReadBitmap(cfg.Server.Image)
			if err != nil {
				log.Printf("[ERROR] loading %s: %v", cfg.Server.Image, err)
			} else {
				bitmap = b
			}
		}
		return server.New(cfg, bitmap).ListenAndServe()

	default:
		return usageError()
	}

	return nil
}

// Reads in, applies an edit and saves the result to out
func edit(in, out string, apply func(*bmp.BitmapImage) (*bmp.BitmapImage, error)) error {
	bitmap, err := bmp.ReadBitmap(in)
	if err != nil {
		return err
	}
	bitmap, err = apply(bitmap)
	if err != nil {
		return err
	}
	return save(bitmap, out)
}

// Saves the bitmap and reports how well the pixel data compressed
func save(bitmap *bmp.BitmapImage, filename string) error {
	if err := bitmap.Save(filename); err != nil {
		return err
	}

	encoded := bitmap.BFHeader.Size - bitmap.BFHeader.OffBits
	ratio := utils.Percent(int(encoded), len(bitmap.Pixels))
	log.Printf("[INFO] Wrote %s: %d pixel bytes compressed to %d (%.2f%%)", filename, len(bitmap.Pixels), encoded, ratio)
	return nil
}

func atoi(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func usageError() error {
	usage()
	return fmt.Errorf("invalid command or arguments")
}
