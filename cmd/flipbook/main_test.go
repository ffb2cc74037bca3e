package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func setupCLITest(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Chdir(base)
	t.Setenv("FLIPBOOK_LOG_LEVEL", "error")
	return base
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected %q in output:\n%s", want, out)
	}
}

func readInfo(t *testing.T, path string) documentInfo {
	t.Helper()
	var info documentInfo
	if err := json.Unmarshal([]byte(mustRun(t, "info", path, "--json")), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	return info
}

func TestNewAndLayerCommands(t *testing.T) {
	base := setupCLITest(t)
	doc := filepath.Join(base, "walk.yaml")

	requireContains(t, mustRun(t, "new", doc, "--name", "Walk"), "Created")
	if _, _, err := runCLI(t, "new", doc); err == nil {
		t.Fatal("expected new to refuse an existing file")
	}

	info := readInfo(t, doc)
	if info.Name != "Walk" || len(info.Layers) != 3 || info.Colours != 24 {
		t.Fatalf("unexpected new document: %+v", info)
	}
	kinds := []string{info.Layers[0].Kind, info.Layers[1].Kind, info.Layers[2].Kind}
	if strings.Join(kinds, ",") != "camera,vector,bitmap" {
		t.Errorf("unexpected layer kinds %v", kinds)
	}

	requireContains(t, mustRun(t, "layer", "add", doc, "sound", "--name", "Steps"), "Added sound layer 4")
	mustRun(t, "layer", "move", doc, "3", "0")
	mustRun(t, "layer", "hide", doc, "1")

	info = readInfo(t, doc)
	if info.Layers[0].Name != "Steps" || info.Layers[0].ID != 4 {
		t.Errorf("expected Steps at the bottom, got %+v", info.Layers[0])
	}
	if info.Layers[1].Visible {
		t.Error("expected layer 1 to be hidden")
	}

	mustRun(t, "layer", "rm", doc, "0")
	if info = readInfo(t, doc); len(info.Layers) != 3 {
		t.Errorf("expected 3 layers after rm, got %d", len(info.Layers))
	}

	if _, _, err := runCLI(t, "layer", "add", doc, "hologram"); err == nil {
		t.Error("expected unknown layer kind to fail")
	}
	if _, _, err := runCLI(t, "layer", "rm", doc, "9"); err == nil {
		t.Error("expected out-of-range index to fail")
	}

	table := mustRun(t, "info", doc)
	requireContains(t, table, "Kind")
	requireContains(t, table, "camera")
}

func TestPaletteCommands(t *testing.T) {
	base := setupCLITest(t)
	doc := filepath.Join(base, "p.yaml")
	mustRun(t, "new", doc)

	requireContains(t, mustRun(t, "palette", "add", doc, "#ff8000", "--name", "Orange"), "Added colour 24 (Orange)")
	mustRun(t, "palette", "rename", doc, "0", "Ink")
	mustRun(t, "palette", "rm", doc, "1")

	var colours []colourInfo
	if err := json.Unmarshal([]byte(mustRun(t, "palette", "list", doc, "--json")), &colours); err != nil {
		t.Fatal(err)
	}
	if len(colours) != 24 {
		t.Fatalf("expected 24 colours, got %d", len(colours))
	}
	if colours[0].Name != "Ink" || colours[23].Name != "Orange" || colours[23].Hex != "#ff8000" {
		t.Errorf("unexpected palette: first %+v last %+v", colours[0], colours[23])
	}

	exported := filepath.Join(base, "colours.yaml")
	mustRun(t, "palette", "export", doc, exported)
	other := filepath.Join(base, "other.yaml")
	mustRun(t, "new", other)
	requireContains(t, mustRun(t, "palette", "import", other, exported), "Loaded 24 colours")
	requireContains(t, mustRun(t, "palette", "list", other), "Orange")

	if _, _, err := runCLI(t, "palette", "add", doc, "orange"); err == nil {
		t.Error("expected invalid colour to fail")
	}
}

func writeFrame(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImportAndExportCommands(t *testing.T) {
	base := setupCLITest(t)
	doc := filepath.Join(base, "anim.yaml")
	mustRun(t, "new", doc)

	frames := filepath.Join(base, "frames")
	if err := os.MkdirAll(frames, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writeFrame(t, filepath.Join(frames, name))
	}
	requireContains(t, mustRun(t, "import", doc, frames), "Imported 3 frames into layer 2")

	info := readInfo(t, doc)
	if info.LastFrame != 3 || len(info.Layers[2].KeyFrames) != 3 {
		t.Fatalf("unexpected import result: %+v", info)
	}

	requireContains(t, mustRun(t, "import", doc, frames, "--trim", "--start", "10"), "starting at frame 10")
	if info := readInfo(t, doc); info.LastFrame != 12 {
		t.Fatalf("expected trimmed import to end at frame 12, got %d", info.LastFrame)
	}

	requireContains(t, mustRun(t, "layer", "unkey", doc, "2", "12"), "Removed key at frame 12")
	if info := readInfo(t, doc); info.LastFrame != 11 {
		t.Fatalf("expected last frame 11 after unkey, got %d", info.LastFrame)
	}
	if _, _, err := runCLI(t, "layer", "unkey", doc, "2", "12"); err == nil {
		t.Error("expected unkey of a missing key to fail")
	}

	out := filepath.Join(base, "out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	requireContains(t,
		mustRun(t, "export", doc, filepath.Join(out, "anim.png"), "--width", "40", "--height", "30", "--end", "3"),
		"Exported 3 frames to 3 files")
	for _, name := range []string{"anim0001.png", "anim0002.png", "anim0003.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	retimed := filepath.Join(base, "retimed")
	if err := os.MkdirAll(retimed, 0o755); err != nil {
		t.Fatal(err)
	}
	requireContains(t,
		mustRun(t, "export", doc, filepath.Join(retimed, "r"), "--width", "40", "--height", "30",
			"--end", "3", "--fps", "3", "--export-fps", "5", "--format", "jpg", "--parallel", "--workers", "2"),
		"Exported 3 frames to 5 files")

	sheet := mustRun(t, "sheet", doc, filepath.Join(base, "sheet"), "--width", "40", "--height", "30")
	requireContains(t, sheet, "sheet0.jpg")

	still := filepath.Join(base, "still.png")
	mustRun(t, "still", doc, still, "--start", "2", "--width", "40", "--height", "30")
	if _, err := os.Stat(still); err != nil {
		t.Errorf("expected still image: %v", err)
	}

	if _, _, err := runCLI(t, "export", doc, filepath.Join(out, "x"), "--format", "gif"); err == nil {
		t.Error("expected unknown format to fail")
	}
}

func TestConfigCommands(t *testing.T) {
	base := setupCLITest(t)
	target := filepath.Join(base, "cfg", "config.toml")
	requireContains(t, mustRun(t, "config", "init", "--path", target), "Wrote sample configuration")

	out := mustRun(t, "--config", target, "config", "show")
	requireContains(t, out, "curve_opacity")

	if err := os.WriteFile(target, []byte("[export]\ncurve_opacity = 2.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "--config", target, "config", "show"); err == nil {
		t.Error("expected invalid config to fail")
	}
}
