package imageset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, root string, names []string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSupportedExtensionsIncludeCommonFormats(t *testing.T) {
	supported := map[string]bool{}
	for _, ext := range SupportedExtensions() {
		supported[ext] = true
	}

	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif"} {
		if !supported[ext] {
			t.Errorf("expected %s to be supported", ext)
		}
	}
	if supported[".webp"] {
		t.Error("imaging cannot decode webp; it must not be reported as supported")
	}
}

func TestIsImage(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{"photo.JPG", "caption.txt"})

	if !IsImage(filepath.Join(root, "photo.JPG")) {
		t.Error("uppercase extension should still count as an image")
	}
	if IsImage(filepath.Join(root, "caption.txt")) {
		t.Error("text file reported as image")
	}
	if IsImage(root) {
		t.Error("directory reported as image")
	}
	if IsImage(filepath.Join(root, "missing.png")) {
		t.Error("missing file reported as image")
	}
}

func TestListRecursesIntoSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{
		"a.png",
		"captions/a.txt",
		"class/b.jpg",
		"class/nested/c.gif",
	})

	got, err := List(root)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "a.png"),
		filepath.Join(root, "class", "b.jpg"),
		filepath.Join(root, "class", "nested", "c.gif"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestListMissingRoot(t *testing.T) {
	got, err := List(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}
