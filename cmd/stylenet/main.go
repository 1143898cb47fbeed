// Package main provides the stylenet CLI: it loads a style prediction
// checkpoint and a style transformer checkpoint, renders a content image
// under the style of a style image, and writes the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/stylenet-ml/stylenet/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/imageio"
	"github.com/stylenet-ml/stylenet/internal/model"
)

const version = "v0.3.0"

func main() {
	var (
		contentPath     = flag.String("content", "", "content image to stylize (required)")
		stylePath       = flag.String("style", "", "style image (required)")
		predictorPath   = flag.String("predictor", "", "style prediction checkpoint, .stn (required)")
		transformerPath = flag.String("transformer", "", "style transformer checkpoint, .stn (required)")
		outPath         = flag.String("out", "stylized.png", "output image path")
		blend           = flag.Float64("blend", 1.0, "style strength: 0 keeps the base style, 1 applies the predicted style fully")
		size            = flag.Int("size", 0, "resize the content image's longer side to this before stylizing (0 keeps the original size)")
		showVersion     = flag.Bool("version", false, "print version and exit")
	)
	klog.InitFlags(nil)
	flag.Parse()

	if *showVersion {
		fmt.Printf("stylenet %s\n", version)
		return
	}
	if *contentPath == "" || *stylePath == "" || *predictorPath == "" || *transformerPath == "" {
		fmt.Fprintln(os.Stderr, "usage: stylenet -content IMG -style IMG -predictor MODEL.stn -transformer MODEL.stn [-out OUT] [-blend W] [-size N]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(*contentPath, *stylePath, *predictorPath, *transformerPath, *outPath, float32(*blend), *size); err != nil {
		fmt.Fprintf(os.Stderr, "stylenet: %v\n", err)
		os.Exit(1)
	}
}

func run(contentPath, stylePath, predictorPath, transformerPath, outPath string, blend float32, size int) error {
	backend := cpu.New()

	start := time.Now()
	stylizer, err := model.LoadStylizer(predictorPath, transformerPath, backend)
	if err != nil {
		return err
	}
	klog.Infof("loaded %d-style model in %v", stylizer.StyleCount(), time.Since(start).Round(time.Millisecond))

	contentImg, err := imageio.Open(contentPath)
	if err != nil {
		return err
	}
	if size > 0 {
		b := contentImg.Bounds()
		if b.Dx() >= b.Dy() {
			contentImg = imageio.Resize(contentImg, size, 0)
		} else {
			contentImg = imageio.Resize(contentImg, 0, size)
		}
	}
	content, err := imageio.ToTensor(contentImg, backend)
	if err != nil {
		return err
	}

	styleImg, err := imageio.Open(stylePath)
	if err != nil {
		return err
	}
	styleImg = imageio.Resize(styleImg, model.DefaultStyleSize, model.DefaultStyleSize)
	style, err := imageio.ToTensor(styleImg, backend)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(stylizer.Transformer().Layers()),
		progressbar.OptionSetDescription("stylizing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	start = time.Now()
	out, err := stylizer.Stylize(content, style, model.StylizeOptions{
		Blend: blend,
		Progress: func(index, total int, className string) {
			_ = bar.Add(1)
		},
	})
	if err != nil {
		return err
	}
	_ = bar.Finish()
	klog.Infof("stylized %v in %v", content.Shape(), time.Since(start).Round(time.Millisecond))

	outImg, err := imageio.FromTensor(out)
	if err != nil {
		return err
	}
	return imageio.Save(outImg, outPath)
}
