package scratch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "uploads"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	return m
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNewManager_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewManager(dir, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}

	if _, err := NewManager("", zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for empty directory")
	}
}

func TestAcquireAndRelease(t *testing.T) {
	m := newTestManager(t)

	h, err := m.Acquire(strings.NewReader("RIFF data"), "voice note.WAV")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if filepath.Dir(h.Path()) != m.Dir() {
		t.Errorf("Expected file inside %s, got %s", m.Dir(), h.Path())
	}
	if !strings.HasSuffix(h.Name(), "_voice_note.WAV") {
		t.Errorf("Unexpected name %s", h.Name())
	}
	if h.Size() != int64(len("RIFF data")) {
		t.Errorf("Expected size %d, got %d", len("RIFF data"), h.Size())
	}
	if h.Ext() != "wav" {
		t.Errorf("Expected ext wav, got %s", h.Ext())
	}

	data, err := os.ReadFile(h.Path())
	if err != nil {
		t.Fatalf("Failed to read scratch file: %v", err)
	}
	if string(data) != "RIFF data" {
		t.Errorf("Unexpected content %q", data)
	}

	m.Release(h)
	if names := listDir(t, m.Dir()); len(names) != 0 {
		t.Errorf("Expected empty scratch dir, got %v", names)
	}

	// Releasing twice and releasing nil are no-ops
	m.Release(h)
	m.Release(nil)
}

func TestAcquire_PartialWriteIsReleasable(t *testing.T) {
	m := newTestManager(t)

	h, err := m.Acquire(failingReader{}, "clip.mp3")
	if err == nil {
		t.Fatal("Expected write error")
	}
	if h == nil {
		t.Fatal("Expected handle for partially written file")
	}

	m.Release(h)
	if names := listDir(t, m.Dir()); len(names) != 0 {
		t.Errorf("Expected empty scratch dir, got %v", names)
	}
}

func TestAcquire_UniqueNames(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	handles := make([]*Handle, 20)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := m.Acquire(strings.NewReader("x"), "same.wav")
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()

	if names := listDir(t, m.Dir()); len(names) != len(handles) {
		t.Errorf("Expected %d distinct files, got %d", len(handles), len(names))
	}

	for _, h := range handles {
		m.Release(h)
	}
}

func TestDerive(t *testing.T) {
	m := newTestManager(t)

	h, err := m.Acquire(strings.NewReader("x"), "song.mp3")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer m.Release(h)

	d := m.Derive(h, "_converted", "wav")
	wantName := strings.TrimSuffix(h.Name(), ".mp3") + "_converted.wav"
	if d.Name() != wantName {
		t.Errorf("Expected %s, got %s", wantName, d.Name())
	}
	if filepath.Dir(d.Path()) != m.Dir() {
		t.Errorf("Derived file should be a sibling, got %s", d.Path())
	}
	if _, err := os.Stat(d.Path()); !os.IsNotExist(err) {
		t.Error("Derive must not create the file")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "audio.wav", want: "audio.wav"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `..\..\windows\evil.mp3`, want: "evil.mp3"},
		{in: "my song (1).mp3", want: "my_song_1.mp3"},
		{in: ".hidden.flac", want: "hidden.flac"},
		{in: "a..b.wav", want: "a.b.wav"},
		{in: "rec\x00ord.webm", want: "record.webm"},
		{in: "", want: "upload"},
		{in: "..", want: "upload"},
		{in: "ÄÖÜ", want: "upload"},
		{in: strings.Repeat("a", 230) + ".wav", want: strings.Repeat("a", 96) + ".wav"},
		{in: strings.Repeat("a", 99) + "." + strings.Repeat("b", 40), want: strings.Repeat("a", 99)},
	}

	for _, tt := range tests {
		name := tt.in
		if len(name) > 32 {
			name = name[:32] + "..."
		}
		t.Run(name, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			if len(got) > maxNameLen {
				t.Errorf("SanitizeFilename returned %d bytes, limit is %d", len(got), maxNameLen)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAcquire_LongNameFitsFilesystem(t *testing.T) {
	m := newTestManager(t)

	h, err := m.Acquire(strings.NewReader("x"), strings.Repeat("a", 230)+".wav")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer m.Release(h)

	if h.Ext() != "wav" {
		t.Errorf("Expected extension to survive shortening, got %q", h.Ext())
	}
}

func TestAcquire_ErrorHidesPath(t *testing.T) {
	m := newTestManager(t)
	if err := os.RemoveAll(m.Dir()); err != nil {
		t.Fatal(err)
	}

	h, err := m.Acquire(strings.NewReader("x"), "clip.wav")
	if err == nil {
		t.Fatal("Expected error when the scratch directory is gone")
	}
	if h != nil {
		t.Error("Expected no handle when the file was never created")
	}
	if strings.Contains(err.Error(), m.Dir()) {
		t.Errorf("Error must not expose the scratch path: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected the cause to be preserved, got %v", err)
	}
}

func TestRelease_FailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m, err := NewManager(filepath.Join(t.TempDir(), "uploads"), zap.New(core))
	if err != nil {
		t.Fatal(err)
	}

	// A non-empty directory at the handle path makes os.Remove fail
	h := m.Derive(&Handle{path: filepath.Join(m.Dir(), "stuck.wav"), name: "stuck.wav"}, "_converted", "wav")
	if err := os.MkdirAll(filepath.Join(h.Path(), "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	m.Release(h)

	if logs.Len() != 1 {
		t.Fatalf("Expected exactly one warning, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Level != zapcore.WarnLevel {
		t.Errorf("Expected warn level, got %s", entry.Level)
	}
	if entry.ContextMap()["path"] != h.Path() {
		t.Errorf("Expected the path field, got %v", entry.ContextMap())
	}
	if _, err := os.Stat(h.Path()); err != nil {
		t.Errorf("Directory should still exist: %v", err)
	}
}
