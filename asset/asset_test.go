package asset

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/db47h/ofs"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/bsvercl/ggez/graphics"
	"github.com/bsvercl/ggez/text"
)

// testFS builds an overlay over a temp dir populated with the given files.
func testFS(t *testing.T, files map[string][]byte) ofs.FileSystem {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	ovl := new(ofs.Overlay)
	if err := ovl.Add(true, dir); err != nil {
		t.Fatal(err)
	}
	return ovl
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestManagerFile(t *testing.T) {
	m := NewManager(testFS(t, map[string][]byte{
		"data/level.txt": []byte("hello"),
	}), FilePath("data"))
	defer m.Close()

	data, err := m.File("level.txt")
	if err != nil {
		t.Fatalf("File() returned %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("File() = %q, want %q", data, "hello")
	}

	// cached access returns the same contents
	data2, err := m.File("level.txt")
	if err != nil {
		t.Fatalf("cached File() returned %v", err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("cached File() returned different contents")
	}

	if err := m.Discard(File("level.txt")); err != nil {
		t.Errorf("Discard returned %v", err)
	}
	if err := m.Discard(File("level.txt")); err == nil {
		t.Error("Discard of a discarded asset returned nil error")
	} else if !strings.Contains(err.Error(), "asset not found") {
		t.Errorf("Discard error = %v, want asset not found", err)
	}
}

func TestManagerFileMissing(t *testing.T) {
	m := NewManager(testFS(t, nil))
	defer m.Close()

	_, err := m.File("nope.txt")
	if err == nil {
		t.Fatal("File() on a missing file returned nil error")
	}
	if !strings.Contains(err.Error(), "load file asset nope.txt") {
		t.Errorf("error = %v, want load file asset nope.txt prefix", err)
	}
}

func TestManagerConcurrentGet(t *testing.T) {
	m := NewManager(testFS(t, map[string][]byte{
		"blob.bin": {1, 2, 3, 4},
	}))
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := m.File("blob.bin")
			if err != nil {
				t.Errorf("File() returned %v", err)
				return
			}
			if !bytes.Equal(data, []byte{1, 2, 3, 4}) {
				t.Errorf("File() = %v", data)
			}
		}()
	}
	wg.Wait()
}

func TestManagerPreload(t *testing.T) {
	m := NewManager(testFS(t, map[string][]byte{
		"a.txt":       []byte("a"),
		"b.txt":       []byte("b"),
		"img/spr.png": encodePNG(t, 4, 4),
	}), ImagePath("img"))
	defer m.Close()

	rc, n := m.Preload([]Asset{File("a.txt"), File("b.txt"), Image("spr.png")}, false)
	if n != 3 {
		t.Errorf("Preload n = %d, want 3", n)
	}
	if err := Wait(rc); err != nil {
		t.Fatalf("Wait returned %v", err)
	}

	data, err := m.File("a.txt")
	if err != nil || string(data) != "a" {
		t.Errorf("File(a.txt) = %q, %v", data, err)
	}
	// the decoded image is cached and discards cleanly without a GPU upload
	if err := m.Discard(Image("spr.png")); err != nil {
		t.Errorf("Discard image returned %v", err)
	}
}

func TestManagerPreloadErrors(t *testing.T) {
	m := NewManager(testFS(t, map[string][]byte{
		"bad.png": []byte("not a png"),
	}))
	defer m.Close()

	rc, _ := m.Preload([]Asset{Image("bad.png"), File("gone.txt")}, false)
	err := Wait(rc)
	if err == nil {
		t.Fatal("Wait returned nil for failed preloads")
	}
	msg := err.Error()
	if !strings.Contains(msg, "preload image asset bad.png") {
		t.Errorf("error %q does not mention the bad image", msg)
	}
	if !strings.Contains(msg, "preload file asset gone.txt") {
		t.Errorf("error %q does not mention the missing file", msg)
	}
}

func TestManagerPreloadFlush(t *testing.T) {
	m := NewManager(testFS(t, map[string][]byte{
		"keep.txt": []byte("keep"),
		"drop.txt": []byte("drop"),
	}))
	defer m.Close()

	if _, err := m.File("drop.txt"); err != nil {
		t.Fatal(err)
	}
	rc, _ := m.Preload([]Asset{File("keep.txt")}, true)
	if err := Wait(rc); err != nil {
		t.Fatal(err)
	}
	if err := m.Discard(File("drop.txt")); err == nil {
		t.Error("flushed asset still cached")
	}
}

func TestManagerFont(t *testing.T) {
	m := NewManager(testFS(t, map[string][]byte{
		"fonts/go.ttf": goregular.TTF,
	}), FontPath("fonts"))
	defer m.Close()

	f, err := m.Font("go.ttf")
	if err != nil {
		t.Fatalf("Font() returned %v", err)
	}
	if f == nil {
		t.Fatal("Font() returned a nil font")
	}

	d, err := m.FontDrawer(nil, "go.ttf", 16, text.HintingFull, graphics.FilterNearest)
	if err != nil {
		t.Fatalf("FontDrawer() returned %v", err)
	}
	// same options return the cached drawer, different options a new one
	d2, err := m.FontDrawer(nil, "go.ttf", 16, text.HintingFull, graphics.FilterNearest)
	if err != nil {
		t.Fatal(err)
	}
	if d2 != d {
		t.Error("FontDrawer with equal options returned a different drawer")
	}
	d3, err := m.FontDrawer(nil, "go.ttf", 24, text.HintingFull, graphics.FilterNearest)
	if err != nil {
		t.Fatal(err)
	}
	if d3 == d {
		t.Error("FontDrawer with a different size returned the cached drawer")
	}

	if err := m.Discard(Font("go.ttf")); err != nil {
		t.Errorf("Discard font returned %v", err)
	}
}

func TestAssetString(t *testing.T) {
	tests := []struct {
		a    Asset
		want string
	}{
		{Font("a.ttf"), "font asset a.ttf"},
		{Image("b.png"), "image asset b.png"},
		{File("c.txt"), "file asset c.txt"},
		{Asset{typeLast, "d"}, "unknown asset d"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
