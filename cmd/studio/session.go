package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"giyinme/internal/domain"
	"giyinme/internal/imagegen"
	"giyinme/internal/storage"
	"giyinme/internal/studio"
	"giyinme/internal/wardrobe"
	"giyinme/pkg/dataurl"
	"giyinme/pkg/zip"
)

const helpText = `Commands:
  model <photo>        create your model from a photo
  garment <id|file>    try on a wardrobe item or an image file
  undo                 remove the last garment
  pose <n>             switch to pose n (see "poses")
  poses                list poses
  wardrobe             list garments
  status               show the current outfit
  download <file>      save the displayed image
  export <file.zip>    save every image of the active outfit
  startover            clear everything
  dismiss              clear the error message
  quit                 exit`

type backendAPI interface {
	UploadOriginal(ctx context.Context, filename, contentType string, data []byte) (string, error)
	UploadGarment(ctx context.Context, filename, contentType string, data []byte) (string, error)
	ProxyDownload(ctx context.Context, target, filename string) ([]byte, string, error)
}

type sessionOptions struct {
	Controller *studio.Controller
	API        backendAPI
	Gate       *studio.Gate
	Locale     string
	In         io.Reader
	Out        io.Writer
	Logger     zerolog.Logger
}

type session struct {
	ctrl   *studio.Controller
	api    backendAPI
	gate   *studio.Gate
	locale string
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger

	readFile  func(string) ([]byte, error)
	writeFile func(string, []byte) error
}

var errQuit = errors.New("quit")

func newSession(opts sessionOptions) *session {
	return &session{
		ctrl:      opts.Controller,
		api:       opts.API,
		gate:      opts.Gate,
		locale:    opts.Locale,
		in:        bufio.NewScanner(opts.In),
		out:       opts.Out,
		logger:    opts.Logger,
		readFile:  os.ReadFile,
		writeFile: func(name string, data []byte) error { return os.WriteFile(name, data, 0o644) },
	}
}

func (s *session) run(ctx context.Context) error {
	if !s.unlock() {
		return nil
	}
	fmt.Fprintln(s.out, "giyinme virtual try-on. Type \"help\" for commands.")
	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		err := s.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *session) unlock() bool {
	if !s.gate.Enabled() {
		return true
	}
	for {
		fmt.Fprint(s.out, "Password: ")
		if !s.in.Scan() {
			return false
		}
		if s.gate.Check(strings.TrimSpace(s.in.Text())) {
			return true
		}
		fmt.Fprintln(s.out, studio.IncorrectPassword)
	}
}

func (s *session) exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "model":
		if arg == "" {
			return errors.New("usage: model <photo>")
		}
		return s.report(s.createModel(ctx, arg))
	case "garment":
		if arg == "" {
			return errors.New("usage: garment <id|file>")
		}
		return s.report(s.selectGarment(ctx, arg))
	case "undo":
		s.ctrl.RemoveLastGarment()
		s.printStatus()
	case "pose":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return errors.New("usage: pose <n>")
		}
		fmt.Fprintln(s.out, "Changing pose...")
		return s.report(s.ctrl.SelectPose(ctx, n-1))
	case "poses":
		s.printPoses()
	case "wardrobe":
		s.printWardrobe()
	case "status":
		s.printStatus()
	case "download":
		if arg == "" {
			return errors.New("usage: download <file>")
		}
		return s.download(ctx, arg)
	case "export":
		if arg == "" {
			return errors.New("usage: export <file.zip>")
		}
		return s.export(ctx, arg)
	case "startover":
		s.ctrl.StartOver()
		fmt.Fprintln(s.out, "Started over.")
	case "dismiss":
		s.ctrl.DismissError()
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// report prints the controller outcome. Failures already carry a banner in
// the controller state, so only guard errors are returned.
func (s *session) report(err error) error {
	if err == nil {
		s.printStatus()
		return nil
	}
	if banner := s.ctrl.Snapshot().Error; banner != "" {
		fmt.Fprintln(s.out, banner)
		return nil
	}
	return err
}

func (s *session) createModel(ctx context.Context, path string) error {
	img, err := s.loadImage(path)
	if err != nil {
		return err
	}
	if _, err := s.api.UploadOriginal(ctx, filepath.Base(path), img.MIMEType, img.Data); err != nil {
		s.logger.Warn().Err(err).Msg("original upload failed")
	}
	fmt.Fprintln(s.out, "Creating your model...")
	return s.ctrl.CreateModel(ctx, img)
}

func (s *session) selectGarment(ctx context.Context, ref string) error {
	for _, item := range s.ctrl.Wardrobe() {
		if item.ID != ref {
			continue
		}
		data, contentType, err := s.api.ProxyDownload(ctx, item.URL, item.ID+".png")
		if err != nil {
			return fmt.Errorf("download garment: %w", err)
		}
		fmt.Fprintf(s.out, "Adding %s...\n", item.Name)
		return s.ctrl.SelectGarment(ctx, imagegen.Image{MIMEType: contentType, Data: data}, item)
	}

	img, err := s.loadImage(ref)
	if err != nil {
		return err
	}
	name := filepath.Base(ref)
	url, err := s.api.UploadGarment(ctx, name, img.MIMEType, img.Data)
	if err != nil {
		return fmt.Errorf("upload garment: %w", err)
	}
	item := wardrobe.FromUpload(name, url)
	fmt.Fprintf(s.out, "Adding %s...\n", item.Name)
	return s.ctrl.SelectGarment(ctx, img, item)
}

func (s *session) loadImage(path string) (imagegen.Image, error) {
	data, err := s.readFile(path)
	if err != nil {
		return imagegen.Image{}, err
	}
	return imagegen.Image{MIMEType: storage.Inspect(data).ContentType, Data: data}, nil
}

// fetch returns the bytes behind a displayed image reference.
func (s *session) fetch(ctx context.Context, ref, filename string) ([]byte, error) {
	if dataurl.Is(ref) {
		_, data, err := dataurl.Decode(ref)
		return data, err
	}
	data, _, err := s.api.ProxyDownload(ctx, ref, filename)
	return data, err
}

func (s *session) download(ctx context.Context, path string) error {
	ref := s.ctrl.DisplayImage()
	if ref == "" {
		return domain.ErrNoImage
	}
	data, err := s.fetch(ctx, ref, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if err := s.writeFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %s (%d bytes)\n", path, len(data))
	return nil
}

func (s *session) export(ctx context.Context, path string) error {
	layers := s.ctrl.ActiveLayers()
	if len(layers) == 0 {
		return domain.ErrNoHistory
	}
	var assets []zip.Asset
	now := time.Now()
	for i, layer := range layers {
		name := layer.GarmentID()
		if name == "" {
			name = "model"
		}
		for _, pose := range layer.PoseImages.Keys() {
			ref, _ := layer.PoseImages.Get(pose)
			filename := fmt.Sprintf("%02d-%s-pose%d.png", i, name, studio.PoseIndex(pose)+1)
			data, err := s.fetch(ctx, ref, filename)
			if err != nil {
				return fmt.Errorf("export %s: %w", filename, err)
			}
			assets = append(assets, zip.Asset{Filename: filename, MIME: storage.Inspect(data).ContentType, Data: data, Modified: now})
		}
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		return err
	}
	if err := s.writeFile(path, archive); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported %d images to %s\n", len(assets), path)
	return nil
}

func (s *session) printStatus() {
	state := s.ctrl.Snapshot()
	if len(state.History) == 0 {
		fmt.Fprintln(s.out, "No model yet. Use \"model <photo>\" to start.")
		return
	}
	fmt.Fprintf(s.out, "Layer %d of %d, pose: %s\n", state.Index+1, len(state.History),
		studio.DisplayName(studio.Poses[state.PoseIndex], s.locale))
	if len(state.ActiveGarmentIDs) > 0 {
		fmt.Fprintf(s.out, "Wearing: %s\n", strings.Join(state.ActiveGarmentIDs, ", "))
	}
	fmt.Fprintf(s.out, "Image: %s\n", shorten(state.DisplayImage))
	if state.Error != "" {
		fmt.Fprintln(s.out, "Error:", state.Error)
	}
}

func (s *session) printPoses() {
	state := s.ctrl.Snapshot()
	ready := make(map[string]bool, len(state.AvailablePoses))
	for _, p := range state.AvailablePoses {
		ready[p] = true
	}
	for i, label := range studio.Poses {
		mark := " "
		switch {
		case len(state.History) > 0 && i == state.PoseIndex:
			mark = ">"
		case ready[label]:
			mark = "*"
		}
		fmt.Fprintf(s.out, "%s %d. %s\n", mark, i+1, studio.DisplayName(label, s.locale))
	}
}

func (s *session) printWardrobe() {
	active := make(map[string]bool)
	for _, id := range s.ctrl.ActiveGarmentIDs() {
		active[id] = true
	}
	for _, item := range s.ctrl.Wardrobe() {
		mark := " "
		if active[item.ID] {
			mark = "*"
		}
		fmt.Fprintf(s.out, "%s %-24s %s\n", mark, item.ID, item.Name)
	}
}

func shorten(ref string) string {
	if dataurl.Is(ref) && len(ref) > 48 {
		return ref[:48] + "..."
	}
	return ref
}
