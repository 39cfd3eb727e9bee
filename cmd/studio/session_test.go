package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"giyinme/internal/domain"
	"giyinme/internal/imagegen"
	"giyinme/internal/studio"
	"giyinme/pkg/dataurl"
)

type stubEditor struct{}

func (stubEditor) BaseModel(context.Context, imagegen.Image) (string, error) {
	return dataurl.Encode("image/png", []byte("model")), nil
}

func (stubEditor) Composite(_ context.Context, _ string, garment imagegen.Image) (string, error) {
	return dataurl.Encode("image/png", append([]byte("wearing-"), garment.Data...)), nil
}

func (stubEditor) PoseVariation(_ context.Context, _ string, pose string) (string, error) {
	return dataurl.Encode("image/png", []byte(pose)), nil
}

type stubAPI struct {
	originals []string
	garments  []string
	proxied   []string
}

func (a *stubAPI) UploadOriginal(_ context.Context, filename, _ string, _ []byte) (string, error) {
	a.originals = append(a.originals, filename)
	return "https://cdn.test/user-uploads/" + filename, nil
}

func (a *stubAPI) UploadGarment(_ context.Context, filename, _ string, _ []byte) (string, error) {
	a.garments = append(a.garments, filename)
	return "https://cdn.test/garment-uploads/" + filename, nil
}

func (a *stubAPI) ProxyDownload(_ context.Context, target, _ string) ([]byte, string, error) {
	a.proxied = append(a.proxied, target)
	return []byte("garment"), "image/png", nil
}

var testItems = []domain.WardrobeItem{{ID: "tank", Name: "Tank Top", URL: "https://cdn.test/tank.png"}}

type harness struct {
	api     *stubAPI
	ctrl    *studio.Controller
	out     *bytes.Buffer
	written map[string][]byte
	session *session
}

func newHarness(input, password string) *harness {
	h := &harness{
		api:     &stubAPI{},
		ctrl:    studio.NewController(stubEditor{}, nil, testItems, zerolog.Nop()),
		out:     &bytes.Buffer{},
		written: map[string][]byte{},
	}
	h.session = newSession(sessionOptions{
		Controller: h.ctrl,
		API:        h.api,
		Gate:       studio.NewGate(password),
		Locale:     "en",
		In:         strings.NewReader(input),
		Out:        h.out,
		Logger:     zerolog.Nop(),
	})
	h.session.readFile = func(name string) ([]byte, error) {
		if strings.HasSuffix(name, ".png") {
			return []byte("\x89PNG\r\n\x1a\nfake"), nil
		}
		return nil, os.ErrNotExist
	}
	h.session.writeFile = func(name string, data []byte) error {
		h.written[name] = data
		return nil
	}
	return h
}

func TestSessionPasswordGate(t *testing.T) {
	h := newHarness("nope\nsecret\nquit\n", "secret")
	if err := h.session.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := h.out.String()
	if strings.Count(out, studio.IncorrectPassword) != 1 {
		t.Fatalf("expected one rejection, got %q", out)
	}
	if !strings.Contains(out, "virtual try-on") {
		t.Fatalf("expected banner after unlock, got %q", out)
	}
}

func TestSessionGateEOF(t *testing.T) {
	h := newHarness("wrong\n", "secret")
	if err := h.session.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(h.out.String(), "virtual try-on") {
		t.Fatalf("studio must stay locked")
	}
}

func TestSessionTryOnFlow(t *testing.T) {
	script := strings.Join([]string{
		"model me.png",
		"garment tank",
		"pose 3",
		"download look.png",
		"export look.zip",
		"undo",
		"bogus",
		"quit",
	}, "\n")
	h := newHarness(script, "")
	if err := h.session.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(h.api.originals) != 1 || h.api.originals[0] != "me.png" {
		t.Fatalf("unexpected original uploads %v", h.api.originals)
	}
	if len(h.api.proxied) != 1 || h.api.proxied[0] != "https://cdn.test/tank.png" {
		t.Fatalf("garment should be fetched through the proxy, got %v", h.api.proxied)
	}
	if got := string(h.written["look.png"]); got != studio.Poses[2] {
		t.Fatalf("downloaded %q", got)
	}

	archive := h.written["look.zip"]
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	want := []string{"00-model-pose1.png", "01-tank-pose1.png", "01-tank-pose3.png"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected export entries %v", names)
	}

	if state := h.ctrl.Snapshot(); state.Index != 0 || len(state.History) != 2 {
		t.Fatalf("unexpected state after undo: index=%d len=%d", state.Index, len(state.History))
	}
	if !strings.Contains(h.out.String(), `unknown command "bogus"`) {
		t.Fatalf("expected unknown command error, got %q", h.out.String())
	}
}

func TestSessionGarmentFromFile(t *testing.T) {
	h := newHarness("model me.png\ngarment ./summer_dress.png\nwardrobe\nquit\n", "")
	if err := h.session.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(h.api.garments) != 1 || h.api.garments[0] != "summer_dress.png" {
		t.Fatalf("unexpected garment uploads %v", h.api.garments)
	}
	items := h.ctrl.Wardrobe()
	if len(items) != 2 || !strings.HasPrefix(items[1].ID, "custom-") {
		t.Fatalf("uploaded garment should join the wardrobe, got %+v", items)
	}
	if items[1].URL != "https://cdn.test/garment-uploads/summer_dress.png" {
		t.Fatalf("unexpected garment url %q", items[1].URL)
	}
}

func TestSessionCommandErrors(t *testing.T) {
	h := newHarness("", "")
	ctx := context.Background()
	cases := []struct {
		line string
		want error
	}{
		{"download out.png", domain.ErrNoImage},
		{"export out.zip", domain.ErrNoHistory},
		{"garment tank", domain.ErrNoImage},
	}
	for _, tc := range cases {
		if err := h.session.exec(ctx, tc.line); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.line, tc.want, err)
		}
	}
	if err := h.session.exec(ctx, "model missing.jpg"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}
	if err := h.session.exec(ctx, "pose x"); err == nil {
		t.Fatalf("expected usage error")
	}
}

func TestPosixLocale(t *testing.T) {
	cases := map[string]string{
		"tr_TR.UTF-8": "tr-TR",
		"en_US":       "en-US",
		"tr":          "tr",
	}
	for in, want := range cases {
		if got := posixLocale(in); got != want {
			t.Fatalf("posixLocale(%q) = %q, want %q", in, got, want)
		}
	}
}
